package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cacases/internal/errors"
)

func TestNewSchema(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		columns []Column
		wantErr bool
	}{
		{"standard", ColumnDates, []Column{{"I", TypeInteger}, {"C", TypeInteger}}, false},
		{"no value columns", ColumnDates, nil, false},
		{"empty date column", "", []Column{{"I", TypeInteger}}, true},
		{"empty column name", ColumnDates, []Column{{"", TypeInteger}}, true},
		{"duplicate column", ColumnDates, []Column{{"I", TypeInteger}, {"I", TypeInteger}}, true},
		{"column repeats date", ColumnDates, []Column{{ColumnDates, TypeDate}}, true},
		{"unknown type", ColumnDates, []Column{{"I", ColumnType("numeric")}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema(tt.date, tt.columns...)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvariant))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestFrame_Set(t *testing.T) {
	f := New("Alameda", StandardSchema())

	require.NoError(t, f.Set("2020/03/18", "I", 4))

	err := f.Set("2020/03/18", "I", 5)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvariant))
	assert.Contains(t, err.Error(), "Alameda")
	assert.Contains(t, err.Error(), "2020/03/18")

	v, ok := f.Value("2020/03/18", "I")
	require.True(t, ok)
	assert.Equal(t, int64(4), v, "failed Set must not overwrite")
}

func TestFrame_UnknownColumn(t *testing.T) {
	f := New("Alameda", StandardSchema())

	assert.Error(t, f.Set("2020/03/18", "X", 1))
	assert.Error(t, f.Increment("2020/03/18", "X", 1))
	_, err := f.Default("2020/03/18", "X", 1)
	assert.Error(t, err)
	assert.Equal(t, 0, f.Len(), "rejected writes must not create rows")
}

func TestFrame_Increment(t *testing.T) {
	f := New("Alameda", StandardSchema())

	require.NoError(t, f.Increment("2020/03/18", "E", 2))
	require.NoError(t, f.Increment("2020/03/18", "E", 3))
	require.NoError(t, f.Increment("2020/03/19", "E", 0))

	v, _ := f.Value("2020/03/18", "E")
	assert.Equal(t, int64(5), v)
	v, ok := f.Value("2020/03/19", "E")
	assert.True(t, ok)
	assert.Equal(t, int64(0), v)
}

func TestFrame_Default(t *testing.T) {
	f := New("Alameda", StandardSchema())

	_, err := f.Default("2020/03/18", "I", 0)
	require.Error(t, err, "default needs an existing row")

	require.NoError(t, f.Set("2020/03/18", "I", 7))

	wrote, err := f.Default("2020/03/18", "I", 0)
	require.NoError(t, err)
	assert.False(t, wrote)
	v, _ := f.Value("2020/03/18", "I")
	assert.Equal(t, int64(7), v)

	wrote, err = f.Default("2020/03/18", "E", 1)
	require.NoError(t, err)
	assert.True(t, wrote)
	v, _ = f.Value("2020/03/18", "E")
	assert.Equal(t, int64(1), v)
}

func TestFrame_Rows(t *testing.T) {
	f := New("Test County", StandardSchema())
	for _, d := range []string{"2020/03/20", "2020/03/18", "2020/03/19"} {
		for _, c := range f.Schema().Names() {
			require.NoError(t, f.Set(d, c, int64(len(c))))
		}
	}
	require.NoError(t, f.Increment("2020/03/19", "I", 4))

	rows, err := f.Rows()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"dates I C D F E",
		"1 2020/03/18 1 1 1 1 1",
		"2 2020/03/19 5 1 1 1 1",
		"3 2020/03/20 1 1 1 1 1",
	}, rows)
}

func TestFrame_RowsMissingColumn(t *testing.T) {
	f := New("Test County", StandardSchema())
	require.NoError(t, f.Set("2020/03/18", "I", 1))

	_, err := f.Rows()
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvariant))
	assert.Contains(t, err.Error(), "C")
}

func TestFrame_EmptyRows(t *testing.T) {
	rows, err := New("Empty", StandardSchema()).Rows()
	require.NoError(t, err)
	assert.Equal(t, []string{"dates I C D F E"}, rows)
}

func TestFrame_FrameFormat(t *testing.T) {
	f := New("Alameda", StandardSchema())
	assert.Equal(t,
		`"integer",'Date','integer','integer','integer','integer','integer'`,
		f.FrameFormat())
}

func TestFrame_Last(t *testing.T) {
	f := New("Alameda", StandardSchema())
	_, _, ok := f.Last()
	assert.False(t, ok)

	require.NoError(t, f.Set("2020/03/18", "I", 1))
	require.NoError(t, f.Set("2020/04/01", "I", 9))

	date, values, ok := f.Last()
	require.True(t, ok)
	assert.Equal(t, "2020/04/01", date)
	assert.Equal(t, map[string]int64{"I": 9}, values)

	values["I"] = 100
	v, _ := f.Value("2020/04/01", "I")
	assert.Equal(t, int64(9), v, "Last returns a copy")
}

func TestCollection(t *testing.T) {
	c := NewCollection(StandardSchema())

	b := c.Ensure("Butte")
	a := c.Ensure("Alameda")
	assert.Same(t, b, c.Ensure("Butte"))

	got, ok := c.Get("Alameda")
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = c.Get("Napa")
	assert.False(t, ok)
	assert.Equal(t, []string{"Alameda", "Butte"}, c.Names())
	assert.Equal(t, 2, c.Len())
}
