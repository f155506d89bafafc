package converter

import (
	"fmt"
	"sort"

	apperrors "cacases/internal/errors"
	"cacases/internal/frame"
)

// Layout names.
const (
	LayoutLegacy   = "legacy"
	LayoutAreaType = "area_type"
)

// NumericField is a coerced input field. An empty Column means the field is
// validated and error-counted but not stored.
type NumericField struct {
	Index  int
	Name   string
	Column string
}

// Pair links a daily column to the cumulative column derived from it.
type Pair struct {
	Daily      string
	Cumulative string
}

// Layout describes one input file format.
type Layout struct {
	Name        string
	Header      []string
	DateField   int
	EntityField int
	// KindField is the entity-kind discriminator, or -1 when the file has none.
	KindField   int
	PrimaryKind string
	Numeric     []NumericField
	Cumulative  []Pair
}

// LegacyLayout is the statewide_cases.csv format, which already carries
// cumulative totals.
func LegacyLayout() Layout {
	return Layout{
		Name:        LayoutLegacy,
		Header:      []string{"county", "totalcountconfirmed", "totalcountdeaths", "newcountconfirmed", "newcountdeaths", "date"},
		DateField:   5,
		EntityField: 0,
		KindField:   -1,
		Numeric: []NumericField{
			{Index: 1, Name: "totalcountconfirmed", Column: frame.ColumnCumulative},
			{Index: 2, Name: "totalcountdeaths", Column: frame.ColumnDeaths},
			{Index: 3, Name: "newcountconfirmed", Column: frame.ColumnIncidence},
			{Index: 4, Name: "newcountdeaths", Column: frame.ColumnFatalities},
		},
	}
}

// AreaTypeLayout is the covid19cases_test.csv format. Only County rows are
// entities; cumulative columns are derived from the daily ones.
func AreaTypeLayout() Layout {
	return Layout{
		Name: LayoutAreaType,
		Header: []string{"date", "area", "area_type", "population", "deaths", "cumulative_deaths",
			"total_tests", "cumulative_total_tests", "positive_tests", "cumulative_positive_tests"},
		DateField:   0,
		EntityField: 1,
		KindField:   2,
		PrimaryKind: "County",
		Numeric: []NumericField{
			{Index: 3, Name: "population"},
			{Index: 4, Name: "deaths", Column: frame.ColumnFatalities},
			{Index: 5, Name: "cumulative_deaths"},
			{Index: 6, Name: "total_tests"},
			{Index: 7, Name: "cumulative_total_tests"},
			{Index: 8, Name: "positive_tests", Column: frame.ColumnIncidence},
			{Index: 9, Name: "cumulative_positive_tests"},
		},
		Cumulative: []Pair{
			{Daily: frame.ColumnIncidence, Cumulative: frame.ColumnCumulative},
			{Daily: frame.ColumnFatalities, Cumulative: frame.ColumnDeaths},
		},
	}
}

var layouts = map[string]func() Layout{
	LayoutLegacy:   LegacyLayout,
	LayoutAreaType: AreaTypeLayout,
}

// LayoutByName returns a known layout.
func LayoutByName(name string) (Layout, error) {
	build, ok := layouts[name]
	if !ok {
		return Layout{}, apperrors.NewConfigError(
			fmt.Sprintf("unknown layout %q (known: %v)", name, LayoutNames()), nil)
	}
	return build(), nil
}

// LayoutNames lists the known layouts.
func LayoutNames() []string {
	names := make([]string, 0, len(layouts))
	for n := range layouts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
