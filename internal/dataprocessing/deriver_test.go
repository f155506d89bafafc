package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cacases/internal/converter"
	apperrors "cacases/internal/errors"
	"cacases/internal/frame"
)

func seriesFrame(t *testing.T, name string, column string, dates []string, values []int64) *frame.Frame {
	t.Helper()
	f := frame.New(name, frame.StandardSchema())
	for i, d := range dates {
		require.NoError(t, f.Set(d, column, values[i]))
	}
	return f
}

func column(t *testing.T, f *frame.Frame, name string) []int64 {
	t.Helper()
	var out []int64
	for _, d := range f.Dates() {
		v, ok := f.Value(d, name)
		require.True(t, ok, "%s missing on %s", name, d)
		out = append(out, v)
	}
	return out
}

func TestCumulativeDeriver_RunningTotal(t *testing.T) {
	f := seriesFrame(t, "Alameda", "I",
		[]string{"2020/03/20", "2020/03/18", "2020/03/19"},
		[]int64{3, 5, 0})

	d := NewCumulativeDeriver([]converter.Pair{{Daily: "I", Cumulative: "C"}}, nil)
	require.NoError(t, d.DeriveFrame(f))

	assert.Equal(t, []int64{5, 5, 8}, column(t, f, "C"))
}

func TestCumulativeDeriver_GapsContributeNothing(t *testing.T) {
	f := seriesFrame(t, "Alameda", "F",
		[]string{"2020/03/18", "2020/03/25"},
		[]int64{1, 2})

	d := NewCumulativeDeriver([]converter.Pair{{Daily: "F", Cumulative: "D"}}, nil)
	require.NoError(t, d.DeriveFrame(f))

	assert.Equal(t, []int64{1, 3}, column(t, f, "D"))
	assert.Equal(t, 2, f.Len(), "no rows are created for the gap")
}

func TestCumulativeDeriver_MissingDaily(t *testing.T) {
	f := seriesFrame(t, "Alameda", "I", []string{"2020/03/18"}, []int64{1})
	require.NoError(t, f.Set("2020/03/19", "F", 1))

	d := NewCumulativeDeriver(converter.AreaTypeLayout().Cumulative, nil)
	err := d.DeriveFrame(f)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvariant))
	assert.Contains(t, err.Error(), "2020/03/19")
}

func TestCumulativeDeriver_AlreadyDerived(t *testing.T) {
	f := seriesFrame(t, "Alameda", "I", []string{"2020/03/18"}, []int64{1})
	d := NewCumulativeDeriver([]converter.Pair{{Daily: "I", Cumulative: "C"}}, nil)
	require.NoError(t, d.DeriveFrame(f))

	err := d.DeriveFrame(f)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvariant))
}

func TestCumulativeDeriver_Derive(t *testing.T) {
	frames := frame.NewCollection(frame.StandardSchema())
	for _, name := range []string{"Butte", "Alameda"} {
		f := frames.Ensure(name)
		for i, d := range []string{"2020/03/18", "2020/03/19"} {
			require.NoError(t, f.Set(d, "I", int64(i+1)))
			require.NoError(t, f.Set(d, "F", 0))
		}
	}

	d := NewCumulativeDeriver(converter.AreaTypeLayout().Cumulative, nil)
	require.NoError(t, d.Derive(context.Background(), frames))

	for _, name := range frames.Names() {
		f, _ := frames.Get(name)
		assert.Equal(t, []int64{1, 3}, column(t, f, "C"))
		assert.Equal(t, []int64{0, 0}, column(t, f, "D"))
	}
}

func TestCumulativeDeriver_NoPairs(t *testing.T) {
	frames := frame.NewCollection(frame.StandardSchema())
	frames.Ensure("Alameda")

	d := NewCumulativeDeriver(converter.LegacyLayout().Cumulative, nil)
	assert.NoError(t, d.Derive(context.Background(), frames))
}
