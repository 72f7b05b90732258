package tilemap

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(2, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, Dimensions{Layers: 2, Rows: 3, Cols: 4}, g.Dimensions())
	assert.Equal(t, 0, g.Count())

	for _, dims := range [][3]int{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}, {-1, 2, 2}} {
		_, err := NewGrid(dims[0], dims[1], dims[2])
		assert.ErrorIs(t, err, ErrInvalidDimensions, "dims %v", dims)
	}
}

func TestGridSetGet(t *testing.T) {
	g, err := NewGrid(2, 2, 3)
	require.NoError(t, err)

	g.Set(1, 1, 2, 7)
	assert.Equal(t, TileID(7), g.Get(1, 1, 2))
	assert.Equal(t, Empty, g.Get(0, 1, 2))
	assert.Equal(t, 1, g.Count())

	assert.Panics(t, func() { g.Set(2, 0, 0, 1) })
	assert.Panics(t, func() { g.Get(0, 2, 0) })
	assert.Panics(t, func() { g.Get(0, 0, 3) })
}

func TestNewGridFromTiles(t *testing.T) {
	t.Run("copies input", func(t *testing.T) {
		tiles := [][][]TileID{{{1, 2}, {3, 4}}}
		g, err := NewGridFromTiles(tiles)
		require.NoError(t, err)

		tiles[0][0][0] = 99
		assert.Equal(t, TileID(1), g.Get(0, 0, 0))
	})

	t.Run("ragged row", func(t *testing.T) {
		_, err := NewGridFromTiles([][][]TileID{{{1, 2}, {3}}})
		var rect *RectangularityError
		require.True(t, errors.As(err, &rect))
		assert.Equal(t, RectangularityError{Layer: 0, Row: 1, Want: 2, Got: 1}, *rect)
		assert.ErrorIs(t, err, ErrRectangularity)
	})

	t.Run("layer shape mismatch", func(t *testing.T) {
		_, err := NewGridFromTiles([][][]TileID{{{1}, {2}}, {{3}}})
		var rect *RectangularityError
		require.True(t, errors.As(err, &rect))
		assert.Equal(t, -1, rect.Row)
		assert.Equal(t, 1, rect.Layer)
	})

	t.Run("empty", func(t *testing.T) {
		for _, tiles := range [][][][]TileID{nil, {{}}, {{{}}}} {
			_, err := NewGridFromTiles(tiles)
			assert.ErrorIs(t, err, ErrInvalidDimensions)
		}
	})
}

func TestGridCopiesAreIndependent(t *testing.T) {
	g, err := NewGridFromTiles([][][]TileID{{{1, 2}}})
	require.NoError(t, err)

	tiles := g.Tiles()
	tiles[0][0][1] = 9
	layer := g.Layer(0)
	layer[0][0] = 9
	clone := g.Clone()
	clone.Set(0, 0, 0, 5)

	if diff := cmp.Diff([][][]TileID{{{1, 2}}}, g.Tiles()); diff != "" {
		t.Errorf("grid changed through a copy (-want +got):\n%s", diff)
	}
}

func TestGridLayers(t *testing.T) {
	g, err := NewGrid(1, 2, 2)
	require.NoError(t, err)

	idx := g.AddLayer()
	assert.Equal(t, 1, idx)
	assert.Equal(t, Dimensions{Layers: 2, Rows: 2, Cols: 2}, g.Dimensions())

	g.Set(1, 0, 0, 4)
	g.Set(1, 1, 1, 4)
	g.Clear(1)
	assert.Equal(t, 0, g.Count())

	g.Set(0, 0, 0, 3)
	require.NoError(t, g.RemoveLayer(0))
	assert.Equal(t, 1, g.LayerCount())
	assert.Equal(t, Empty, g.Get(0, 0, 0))

	assert.ErrorIs(t, g.RemoveLayer(0), ErrLastLayer)
	assert.ErrorIs(t, g.RemoveLayer(3), ErrLayerOutOfRange)
}

func TestGridInBounds(t *testing.T) {
	g, err := NewGrid(2, 3, 4)
	require.NoError(t, err)

	tests := []struct {
		layer, row, col int
		want            bool
	}{
		{0, 0, 0, true},
		{1, 2, 3, true},
		{2, 0, 0, false},
		{-1, 0, 0, false},
		{0, 3, 0, false},
		{0, 0, 4, false},
		{0, -1, 0, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.InBounds(tt.layer, tt.row, tt.col), "%+v", tt)
	}
}
