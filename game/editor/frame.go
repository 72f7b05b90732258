package editor

import "github.com/wricardo/tilemap-editor/game/tilemap"

// Input is the polled input state for one tick. Pressed fields are true
// only on the tick the key or button went down; Down fields while held.
type Input struct {
	Pointer tilemap.Vec2

	PanPressed bool
	PanDown    bool
	PaintDown  bool
	EraseDown  bool

	PrevLayer  bool
	NextLayer  bool
	PrevTile   bool
	NextTile   bool
	ToggleGrid bool
	Save       bool
}

// Result reports what an Update did
type Result struct {
	Changed       bool
	SaveRequested bool
	Painted       []tilemap.Position
}

// Frame is everything the presentation layer needs for one frame
type Frame struct {
	Camera     tilemap.Vec2
	Directives []tilemap.Directive
	Cursor     tilemap.Directive
	Overlay    []tilemap.Rect
}

// Update applies one tick of input: panning, layer and tile cycling,
// painting, erasing, then the overlay toggle.
func (s *Session) Update(in Input) Result {
	var res Result
	s.pointer = in.Pointer

	if in.PanPressed {
		s.BeginPan(in.Pointer)
	}
	if in.PanDown {
		s.DragPan(in.Pointer)
	}

	if in.PrevLayer {
		s.CycleLayer(Prev)
	}
	if in.NextLayer {
		s.CycleLayer(Next)
	}
	if in.Save {
		res.SaveRequested = true
	}

	if in.PrevTile {
		s.CycleTile(Prev)
	}
	if in.NextTile {
		s.CycleTile(Next)
	}

	if in.PaintDown {
		res.Painted = append(res.Painted, s.paintChanged(s.ScreenToGrid(in.Pointer), s.selectedTile, &res))
	}
	if in.EraseDown {
		res.Painted = append(res.Painted, s.paintChanged(s.ScreenToGrid(in.Pointer), tilemap.Empty, &res))
	}

	if in.ToggleGrid {
		s.ToggleGrid()
	}
	return res
}

func (s *Session) paintChanged(pos tilemap.Position, id tilemap.TileID, res *Result) tilemap.Position {
	if s.m.Grid.Get(s.selectedLayer, pos.Y, pos.X) != id {
		res.Changed = true
	}
	return s.PaintAt(pos, id)
}

// Render computes the frame for the current state: the visible tiles with
// the active layer highlighted, a preview of the selected tile under the
// pointer, and the grid overlay when enabled.
func (s *Session) Render() Frame {
	ts := s.m.TileSize
	sel := tilemap.ViewportSelection(s.m.Grid, s.camera.Round(), s.viewport, ts, s.selectedLayer)

	cursor := s.ScreenToGrid(s.pointer)
	f := Frame{
		Camera:     s.camera.Round(),
		Directives: tilemap.Select(s.m.Grid, ts, sel),
		Cursor: tilemap.Directive{
			Layer:  s.selectedLayer,
			Row:    cursor.Y,
			Col:    cursor.X,
			Tile:   s.selectedTile,
			Dest:   tilemap.Vec2{X: float64(cursor.X * ts), Y: float64(cursor.Y * ts)},
			Source: tilemap.SourceRect(s.selectedTile, ts),
			Tint:   tilemap.CursorTint,
		},
	}
	if s.showGrid {
		f.Overlay = tilemap.GridOverlay(s.m.Grid, ts)
	}
	return f
}
