package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cacases/internal/frame"
	"cacases/internal/shared/testutil"
)

func TestGroomer_FillsAbsentColumns(t *testing.T) {
	frames := frame.NewCollection(frame.StandardSchema())
	f := frames.Ensure("Alameda")
	require.NoError(t, f.Set("2020/03/18", "I", 4))
	require.NoError(t, f.Set("2020/03/19", "D", 2))

	logger, logs := testutil.NewTestLogger(t)
	g := NewGroomer(frame.StandardDefaults(), "", logger)

	filled, err := g.Groom(context.Background(), frames)
	require.NoError(t, err)
	assert.Equal(t, 8, filled)

	rows, err := f.Rows()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"dates I C D F E",
		"1 2020/03/18 4 0 0 0 1",
		"2 2020/03/19 0 0 2 0 1",
	}, rows)
	assert.True(t, logs.ContainsAttr("filled", int64(8)))
}

func TestGroomer_Idempotent(t *testing.T) {
	frames := frame.NewCollection(frame.StandardSchema())
	require.NoError(t, frames.Ensure("Alameda").Set("2020/03/18", "E", 0))

	g := NewGroomer(frame.StandardDefaults(), "", nil)

	first, err := g.Groom(context.Background(), frames)
	require.NoError(t, err)
	assert.Equal(t, 4, first)

	second, err := g.Groom(context.Background(), frames)
	require.NoError(t, err)
	assert.Equal(t, 0, second)

	v, _ := frames.Ensure("Alameda").Value("2020/03/18", "E")
	assert.Equal(t, int64(0), v, "existing error tally kept")
}

func TestGroomer_Only(t *testing.T) {
	frames := frame.NewCollection(frame.StandardSchema())
	require.NoError(t, frames.Ensure("Alameda").Set("2020/03/18", "I", 1))
	require.NoError(t, frames.Ensure("Butte").Set("2020/03/18", "I", 1))

	g := NewGroomer(frame.StandardDefaults(), "Butte", nil)
	filled, err := g.Groom(context.Background(), frames)
	require.NoError(t, err)
	assert.Equal(t, 4, filled)

	_, ok := frames.Ensure("Alameda").Value("2020/03/18", "C")
	assert.False(t, ok)
}

func TestGroomer_UnknownDefaultColumn(t *testing.T) {
	frames := frame.NewCollection(frame.StandardSchema())
	require.NoError(t, frames.Ensure("Alameda").Set("2020/03/18", "I", 1))

	g := NewGroomer(map[string]int64{"HC": 0}, "", nil)
	_, err := g.Groom(context.Background(), frames)
	assert.Error(t, err)
}
