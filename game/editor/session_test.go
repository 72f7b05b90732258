package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/tilemap-editor/game/tilemap"
)

// newSession builds a session over a layers x rows x cols grid with a 16px
// tileset of four tiles.
func newSession(t *testing.T, layers, rows, cols int) *Session {
	t.Helper()
	g, err := tilemap.NewGrid(layers, rows, cols)
	require.NoError(t, err)

	s, err := New(&tilemap.Map{TilesetPath: "t.png", TileSize: 16, TilesetWidth: 64, Grid: g}, DefaultOptions())
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	s := newSession(t, 1, 2, 2)
	assert.Equal(t, tilemap.TileID(1), s.SelectedTile())
	assert.Equal(t, 0, s.SelectedLayer())
	assert.True(t, s.ShowGrid())
	assert.Equal(t, tilemap.Vec2{}, s.Camera())

	_, err := New(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoMap)
	_, err = New(&tilemap.Map{TileSize: 16}, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoMap)

	g, err := tilemap.NewGrid(1, 1, 1)
	require.NoError(t, err)
	_, err = New(&tilemap.Map{Grid: g}, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidTileSize)
}

func TestPaintAtClamps(t *testing.T) {
	tests := []struct {
		name string
		pos  tilemap.Position
		want tilemap.Position
	}{
		{"inside", tilemap.Position{X: 1, Y: 2}, tilemap.Position{X: 1, Y: 2}},
		{"far left above", tilemap.Position{X: -100, Y: -100}, tilemap.Position{X: 0, Y: 0}},
		{"far right below", tilemap.Position{X: 1000, Y: 1000}, tilemap.Position{X: 3, Y: 2}},
		{"right only", tilemap.Position{X: 9, Y: 1}, tilemap.Position{X: 3, Y: 1}},
		{"below only", tilemap.Position{X: 2, Y: 9}, tilemap.Position{X: 2, Y: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, 2, 3, 4)
			s.SelectLayer(1)

			got := s.PaintAt(tt.pos, 3)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, s.Grid().Count(), "exactly one cell written")
			assert.Equal(t, tilemap.TileID(3), s.Grid().Get(1, tt.want.Y, tt.want.X))
		})
	}
}

func TestEraseAt(t *testing.T) {
	s := newSession(t, 1, 2, 2)
	s.PaintAt(tilemap.Position{X: 1, Y: 1}, 4)
	require.Equal(t, 1, s.Grid().Count())

	got := s.EraseAt(tilemap.Position{X: 7, Y: 7})
	assert.Equal(t, tilemap.Position{X: 1, Y: 1}, got)
	assert.Equal(t, 0, s.Grid().Count())
}

func TestCycleLayerWraps(t *testing.T) {
	s := newSession(t, 3, 1, 1)

	assert.Equal(t, 2, s.CycleLayer(Prev))
	assert.Equal(t, 0, s.CycleLayer(Next))
	assert.Equal(t, 1, s.CycleLayer(Next))

	for start := 0; start < 3; start++ {
		s.SelectLayer(start)
		for i := 0; i < 3; i++ {
			s.CycleLayer(Next)
		}
		assert.Equal(t, start, s.SelectedLayer())
		for i := 0; i < 3; i++ {
			s.CycleLayer(Prev)
		}
		assert.Equal(t, start, s.SelectedLayer())
	}

	single := newSession(t, 1, 1, 1)
	assert.Equal(t, 0, single.CycleLayer(Next))
	assert.Equal(t, 0, single.CycleLayer(Prev))
}

func TestCycleTileWraps(t *testing.T) {
	s := newSession(t, 1, 1, 1)

	assert.Equal(t, tilemap.TileID(4), s.CycleTile(Prev))
	assert.Equal(t, tilemap.TileID(1), s.CycleTile(Next))
	assert.Equal(t, tilemap.TileID(2), s.CycleTile(Next))

	for start := tilemap.TileID(1); start <= 4; start++ {
		s.SelectTile(start)
		for i := 0; i < 4; i++ {
			s.CycleTile(Next)
		}
		assert.Equal(t, start, s.SelectedTile())
	}
}

func TestSelectClamps(t *testing.T) {
	s := newSession(t, 2, 1, 1)
	assert.Equal(t, 1, s.SelectLayer(5))
	assert.Equal(t, 0, s.SelectLayer(-2))
	assert.Equal(t, tilemap.TileID(4), s.SelectTile(40))
	assert.Equal(t, tilemap.TileID(1), s.SelectTile(0))
}

func TestLayerManagement(t *testing.T) {
	s := newSession(t, 1, 2, 2)
	assert.Equal(t, 1, s.AddLayer())
	assert.Equal(t, 2, s.Grid().LayerCount())

	require.NoError(t, s.RemoveLayer())
	assert.Equal(t, 0, s.SelectedLayer())
	assert.ErrorIs(t, s.RemoveLayer(), tilemap.ErrLastLayer)
}

func TestScreenToGrid(t *testing.T) {
	s := newSession(t, 1, 10, 10)

	tests := []struct {
		name    string
		camera  tilemap.Vec2
		pointer tilemap.Vec2
		want    tilemap.Position
	}{
		// world = pointer + camera - (240, 150); cell = round(world/16 - 0.5)
		{"centre of cell 0", tilemap.Vec2{}, tilemap.Vec2{X: 248, Y: 158}, tilemap.Position{X: 0, Y: 0}},
		{"centre of cell 2,1", tilemap.Vec2{}, tilemap.Vec2{X: 280, Y: 174}, tilemap.Position{X: 2, Y: 1}},
		{"camera offset", tilemap.Vec2{X: 32, Y: 16}, tilemap.Vec2{X: 248, Y: 158}, tilemap.Position{X: 2, Y: 1}},
		{"clamped low", tilemap.Vec2{}, tilemap.Vec2{X: 0, Y: 0}, tilemap.Position{X: 0, Y: 0}},
		{"clamped high", tilemap.Vec2{}, tilemap.Vec2{X: 480, Y: 300}, tilemap.Position{X: 9, Y: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.SetCamera(tt.camera)
			assert.Equal(t, tt.want, s.ScreenToGrid(tt.pointer))
		})
	}
}

func TestPan(t *testing.T) {
	s := newSession(t, 1, 1, 1)
	s.SetCamera(tilemap.Vec2{X: 10, Y: 10})

	s.BeginPan(tilemap.Vec2{X: 100, Y: 100})
	s.DragPan(tilemap.Vec2{X: 90, Y: 120})
	assert.Equal(t, tilemap.Vec2{X: 20, Y: -10}, s.Camera())
}
