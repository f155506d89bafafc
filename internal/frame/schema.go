package frame

import (
	"fmt"

	apperrors "cacases/internal/errors"
)

// ColumnType is the R column class of a frame column.
type ColumnType string

const (
	TypeInteger ColumnType = "integer"
	TypeDate    ColumnType = "Date"
)

// Standard column names. "dates" and "I" are the names estimate_R expects.
const (
	ColumnDates      = "dates"
	ColumnIncidence  = "I"
	ColumnCumulative = "C"
	ColumnDeaths     = "D"
	ColumnFatalities = "F"
	ColumnErrors     = "E"
)

// Column is a named, typed value column.
type Column struct {
	Name string
	Type ColumnType
}

// Schema describes a frame: the implicit date key column followed by
// ordered value columns.
type Schema struct {
	DateColumn string
	Columns    []Column

	index map[string]int
}

// NewSchema validates and builds a schema. Empty or repeated names,
// including a value column that repeats the date column, are rejected.
func NewSchema(dateColumn string, columns ...Column) (Schema, error) {
	if dateColumn == "" {
		return Schema{}, apperrors.NewInvariantError("schema date column name is empty")
	}

	index := make(map[string]int, len(columns))
	for i, c := range columns {
		switch {
		case c.Name == "":
			return Schema{}, apperrors.NewInvariantError(fmt.Sprintf("schema column %d has an empty name", i))
		case c.Name == dateColumn:
			return Schema{}, apperrors.NewInvariantError(fmt.Sprintf("schema column %q duplicates the date column", c.Name))
		case c.Type != TypeInteger && c.Type != TypeDate:
			return Schema{}, apperrors.NewInvariantError(fmt.Sprintf("schema column %q has unknown type %q", c.Name, c.Type))
		}
		if _, dup := index[c.Name]; dup {
			return Schema{}, apperrors.NewInvariantError(fmt.Sprintf("schema column %q is declared twice", c.Name))
		}
		index[c.Name] = i
	}

	return Schema{
		DateColumn: dateColumn,
		Columns:    append([]Column(nil), columns...),
		index:      index,
	}, nil
}

// MustSchema is NewSchema for fixed, known-good declarations.
func MustSchema(dateColumn string, columns ...Column) Schema {
	s, err := NewSchema(dateColumn, columns...)
	if err != nil {
		panic(err)
	}
	return s
}

// StandardSchema is the case frame: dates I C D F E.
func StandardSchema() Schema {
	return MustSchema(ColumnDates,
		Column{ColumnIncidence, TypeInteger},
		Column{ColumnCumulative, TypeInteger},
		Column{ColumnDeaths, TypeInteger},
		Column{ColumnFatalities, TypeInteger},
		Column{ColumnErrors, TypeInteger},
	)
}

// StandardDefaults are the groom values for StandardSchema. E defaults to 1,
// marking a date with no error-tracked source row.
func StandardDefaults() map[string]int64 {
	return map[string]int64{
		ColumnIncidence:  0,
		ColumnCumulative: 0,
		ColumnDeaths:     0,
		ColumnFatalities: 0,
		ColumnErrors:     1,
	}
}

// Has reports whether name is a value column.
func (s Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Names returns the value column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}
