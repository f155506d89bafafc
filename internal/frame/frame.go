// Package frame holds per-entity time series keyed by canonical date, in the
// shape R's read.table expects.
package frame

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	apperrors "cacases/internal/errors"
)

// Frame is a sparse date x column table of integer observations for one
// entity. A Frame is not safe for concurrent mutation.
type Frame struct {
	name   string
	schema Schema
	rows   map[string]map[string]int64
}

// New returns an empty frame for the named entity.
func New(name string, schema Schema) *Frame {
	return &Frame{
		name:   name,
		schema: schema,
		rows:   make(map[string]map[string]int64),
	}
}

// Name returns the entity name.
func (f *Frame) Name() string { return f.name }

// Schema returns the frame schema.
func (f *Frame) Schema() Schema { return f.schema }

// Set stores value at (date, column). Writing a pair twice is an error.
func (f *Frame) Set(date, column string, value int64) error {
	if err := f.checkColumn(date, column); err != nil {
		return err
	}
	row := f.row(date)
	if _, exists := row[column]; exists {
		return f.invariant(date, column, "duplicate value")
	}
	row[column] = value
	return nil
}

// Increment adds amount at (date, column), starting from zero when absent.
func (f *Frame) Increment(date, column string, amount int64) error {
	if err := f.checkColumn(date, column); err != nil {
		return err
	}
	f.row(date)[column] += amount
	return nil
}

// Default stores value at (date, column) unless a value is already there.
// It reports whether it wrote. The date must already have a row.
func (f *Frame) Default(date, column string, value int64) (bool, error) {
	if err := f.checkColumn(date, column); err != nil {
		return false, err
	}
	row, ok := f.rows[date]
	if !ok {
		return false, f.invariant(date, column, "default on a date with no row")
	}
	if _, exists := row[column]; exists {
		return false, nil
	}
	row[column] = value
	return true, nil
}

// Value returns the value at (date, column) and whether it is present.
func (f *Frame) Value(date, column string) (int64, bool) {
	v, ok := f.rows[date][column]
	return v, ok
}

// Len returns the number of dates.
func (f *Frame) Len() int { return len(f.rows) }

// Dates returns the date keys in ascending order.
func (f *Frame) Dates() []string {
	dates := make([]string, 0, len(f.rows))
	for d := range f.rows {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Last returns the latest date and a copy of its row.
func (f *Frame) Last() (string, map[string]int64, bool) {
	if len(f.rows) == 0 {
		return "", nil, false
	}
	dates := f.Dates()
	last := dates[len(dates)-1]
	values := make(map[string]int64, len(f.rows[last]))
	for k, v := range f.rows[last] {
		values[k] = v
	}
	return last, values, true
}

// HeaderDescriptor is the space separated column header, date column first.
func (f *Frame) HeaderDescriptor() string {
	return strings.Join(append([]string{f.schema.DateColumn}, f.schema.Names()...), " ")
}

// FrameFormat is the R colClasses vector body: the implicit index column
// followed by the date column and every value column.
func (f *Frame) FrameFormat() string {
	parts := make([]string, 0, len(f.schema.Columns)+2)
	parts = append(parts, `"integer"`, "'"+string(TypeDate)+"'")
	for _, c := range f.schema.Columns {
		parts = append(parts, "'"+string(c.Type)+"'")
	}
	return strings.Join(parts, ",")
}

// Rows renders the header descriptor followed by one line per date:
// 1-based index, date key, then every column in schema order. Every column
// must be present on every row.
func (f *Frame) Rows() ([]string, error) {
	lines := make([]string, 0, len(f.rows)+1)
	lines = append(lines, f.HeaderDescriptor())

	for i, date := range f.Dates() {
		row := f.rows[date]
		fields := make([]string, 0, len(f.schema.Columns)+2)
		fields = append(fields, strconv.Itoa(i+1), date)
		for _, c := range f.schema.Columns {
			v, ok := row[c.Name]
			if !ok {
				return nil, f.invariant(date, c.Name, "missing value at emission")
			}
			fields = append(fields, strconv.FormatInt(v, 10))
		}
		lines = append(lines, strings.Join(fields, " "))
	}
	return lines, nil
}

func (f *Frame) row(date string) map[string]int64 {
	row, ok := f.rows[date]
	if !ok {
		row = make(map[string]int64, len(f.schema.Columns))
		f.rows[date] = row
	}
	return row
}

func (f *Frame) checkColumn(date, column string) error {
	if !f.schema.Has(column) {
		return f.invariant(date, column, "unknown column")
	}
	return nil
}

func (f *Frame) invariant(date, column, what string) *apperrors.AppError {
	return apperrors.NewInvariantError(fmt.Sprintf("%s: %s %s %s", what, f.name, date, column)).
		WithContext("entity", f.name).
		WithContext("date", date).
		WithContext("column", column)
}
