package editor

import (
	"errors"

	"github.com/wricardo/tilemap-editor/game/tilemap"
)

var (
	ErrNoMap           = errors.New("editor requires a map with a grid")
	ErrInvalidTileSize = errors.New("tile size must be positive")
)

// Direction moves a selection backwards or forwards
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// Options configures a Session
type Options struct {
	// ViewportSize is the logical pixel size of the view. Pointer
	// positions passed to the session are in this space.
	ViewportSize tilemap.Vec2
}

// DefaultOptions returns the 480x300 half-resolution view of a 960x600 window
func DefaultOptions() Options {
	return Options{ViewportSize: tilemap.Vec2{X: 480, Y: 300}}
}

// Session is one editing session over a single map
type Session struct {
	m             *tilemap.Map
	selectedTile  tilemap.TileID
	selectedLayer int
	camera        tilemap.Vec2
	panAnchor     tilemap.Vec2
	pointer       tilemap.Vec2
	showGrid      bool
	viewport      tilemap.Vec2
}

// New creates a session with tile 1 and layer 0 selected and the grid
// overlay shown.
func New(m *tilemap.Map, opts Options) (*Session, error) {
	if m == nil || m.Grid == nil {
		return nil, ErrNoMap
	}
	if m.TileSize <= 0 {
		return nil, ErrInvalidTileSize
	}
	if opts.ViewportSize == (tilemap.Vec2{}) {
		opts = DefaultOptions()
	}

	return &Session{
		m:            m,
		selectedTile: 1,
		showGrid:     true,
		viewport:     opts.ViewportSize,
	}, nil
}

func (s *Session) Map() *tilemap.Map { return s.m }

func (s *Session) Grid() *tilemap.Grid { return s.m.Grid }

func (s *Session) SelectedTile() tilemap.TileID { return s.selectedTile }

func (s *Session) SelectedLayer() int { return s.selectedLayer }

func (s *Session) Camera() tilemap.Vec2 { return s.camera }

func (s *Session) SetCamera(c tilemap.Vec2) { s.camera = c }

func (s *Session) ShowGrid() bool { return s.showGrid }

func (s *Session) SetShowGrid(show bool) { s.showGrid = show }

// ToggleGrid flips the grid overlay and returns the new state
func (s *Session) ToggleGrid() bool {
	s.showGrid = !s.showGrid
	return s.showGrid
}

// PaintAt writes id into the active layer at pos, clamped to that layer's
// bounds, and returns the cell actually written.
func (s *Session) PaintAt(pos tilemap.Position, id tilemap.TileID) tilemap.Position {
	pos = s.clampToLayer(pos)
	s.m.Grid.Set(s.selectedLayer, pos.Y, pos.X, id)
	return pos
}

// EraseAt clears the active layer cell nearest to pos
func (s *Session) EraseAt(pos tilemap.Position) tilemap.Position {
	return s.PaintAt(pos, tilemap.Empty)
}

// CycleLayer moves the active layer one step, wrapping at both ends
func (s *Session) CycleLayer(dir Direction) int {
	s.selectedLayer = wrap(s.selectedLayer, step(dir), s.m.Grid.LayerCount())
	return s.selectedLayer
}

// CycleTile moves the selected tile one step over [1, TilesetColumns],
// wrapping at both ends.
func (s *Session) CycleTile(dir Direction) tilemap.TileID {
	idx := wrap(int(s.selectedTile)-1, step(dir), s.m.TilesetColumns())
	s.selectedTile = tilemap.TileID(idx + 1)
	return s.selectedTile
}

// SelectLayer makes layer active, clamped to the existing layers
func (s *Session) SelectLayer(layer int) int {
	s.selectedLayer = max(0, min(layer, s.m.Grid.LayerCount()-1))
	return s.selectedLayer
}

// SelectTile selects id, clamped to [1, TilesetColumns]
func (s *Session) SelectTile(id tilemap.TileID) tilemap.TileID {
	s.selectedTile = tilemap.TileID(max(1, min(int(id), s.m.TilesetColumns())))
	return s.selectedTile
}

// AddLayer appends an empty layer and makes it active
func (s *Session) AddLayer() int {
	s.selectedLayer = s.m.Grid.AddLayer()
	return s.selectedLayer
}

// RemoveLayer deletes the active layer and selects the one below it
func (s *Session) RemoveLayer() error {
	if err := s.m.Grid.RemoveLayer(s.selectedLayer); err != nil {
		return err
	}
	s.SelectLayer(s.selectedLayer)
	return nil
}

// ScreenToGrid maps a viewport pixel position to the cell under it. The
// half-tile offset centres the snapped cell on the pointer.
func (s *Session) ScreenToGrid(pointer tilemap.Vec2) tilemap.Position {
	ts := float64(s.m.TileSize)
	world := pointer.Add(s.camera).Sub(s.viewport.Scale(0.5))
	cell := world.Scale(1 / ts).Sub(tilemap.Vec2{X: 0.5, Y: 0.5}).Round()
	return s.clampToLayer(tilemap.Position{X: int(cell.X), Y: int(cell.Y)})
}

// BeginPan anchors a camera drag at the pointer
func (s *Session) BeginPan(pointer tilemap.Vec2) {
	s.panAnchor = s.camera.Add(pointer)
}

// DragPan moves the camera so the anchored world point stays under the pointer
func (s *Session) DragPan(pointer tilemap.Vec2) {
	s.camera = s.panAnchor.Sub(pointer)
}

func (s *Session) clampToLayer(pos tilemap.Position) tilemap.Position {
	rows, cols := s.m.Grid.LayerDimensions(s.selectedLayer)
	return tilemap.Position{
		X: max(0, min(pos.X, cols-1)),
		Y: max(0, min(pos.Y, rows-1)),
	}
}

func step(dir Direction) int {
	switch {
	case dir > 0:
		return 1
	case dir < 0:
		return -1
	}
	return 0
}

func wrap(v, delta, n int) int {
	if n <= 0 {
		return 0
	}
	return ((v+delta)%n + n) % n
}
