package tilemap

import "math"

var (
	// ActiveTint draws the layer being edited at full opacity
	ActiveTint = Tint{R: 1, G: 1, B: 1, A: 1}
	// DimmedTint greys out context layers
	DimmedTint = Tint{R: 0.9, G: 0.9, B: 0.9, A: 0.5}
	// CursorTint is used for the tile preview under the pointer
	CursorTint = Tint{R: 1, G: 1, B: 1, A: 0.5}
)

// Directive tells the presentation layer to draw one tile
type Directive struct {
	Layer  int    `json:"layer"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Tile   TileID `json:"tile"`
	Dest   Vec2   `json:"dest"`
	Source Rect   `json:"source"`
	Tint   Tint   `json:"tint"`
}

// Selection is a tile rectangle [Min, Max) over layers [MinLayer, MaxLayer).
// Cells on ActiveLayer are drawn with ActiveTint, all others dimmed.
type Selection struct {
	Min         Position `json:"min"`
	Max         Position `json:"max"`
	MinLayer    int      `json:"min_layer"`
	MaxLayer    int      `json:"max_layer"`
	ActiveLayer int      `json:"active_layer"`
}

// FullSelection covers every cell of the grid
func FullSelection(g *Grid, active int) Selection {
	d := g.Dimensions()
	return Selection{
		Max:         Position{X: d.Cols, Y: d.Rows},
		MaxLayer:    d.Layers,
		ActiveLayer: active,
	}
}

// ViewportSelection covers the cells visible through a viewport of the
// given pixel size centred on camera, across all layers.
func ViewportSelection(g *Grid, camera, viewport Vec2, tileSize int, active int) Selection {
	if tileSize <= 0 {
		return Selection{ActiveLayer: active}
	}
	ts := float64(tileSize)
	half := viewport.Scale(0.5)
	lo := camera.Sub(half)
	hi := camera.Add(half)

	return Selection{
		Min:         Position{X: int(math.Floor(lo.X / ts)), Y: int(math.Floor(lo.Y / ts))},
		Max:         Position{X: int(math.Ceil(hi.X / ts)), Y: int(math.Ceil(hi.Y / ts))},
		MaxLayer:    g.LayerCount(),
		ActiveLayer: active,
	}
}

// Visit calls fn for every non-empty cell inside sel, clamped to the grid,
// in layer, row, column order.
func Visit(g *Grid, tileSize int, sel Selection, fn func(Directive)) {
	d := g.Dimensions()

	minX, maxX := clamp(sel.Min.X, 0, d.Cols), clamp(sel.Max.X, 0, d.Cols)
	minY, maxY := clamp(sel.Min.Y, 0, d.Rows), clamp(sel.Max.Y, 0, d.Rows)
	minL, maxL := clamp(sel.MinLayer, 0, d.Layers), clamp(sel.MaxLayer, 0, d.Layers)

	ts := float64(tileSize)
	for l := minL; l < maxL; l++ {
		tint := DimmedTint
		if l == sel.ActiveLayer {
			tint = ActiveTint
		}
		for r := minY; r < maxY; r++ {
			row := g.layers[l][r]
			for c := minX; c < maxX; c++ {
				id := row[c]
				if id == Empty {
					continue
				}
				fn(Directive{
					Layer:  l,
					Row:    r,
					Col:    c,
					Tile:   id,
					Dest:   Vec2{X: float64(c) * ts, Y: float64(r) * ts},
					Source: SourceRect(id, tileSize),
					Tint:   tint,
				})
			}
		}
	}
}

// Select returns the directives Visit would produce
func Select(g *Grid, tileSize int, sel Selection) []Directive {
	var out []Directive
	Visit(g, tileSize, sel, func(d Directive) {
		out = append(out, d)
	})
	return out
}

// SourceRect locates a tile in the tileset strip. id must not be Empty.
func SourceRect(id TileID, tileSize int) Rect {
	ts := float64(tileSize)
	return Rect{X: float64(id-1) * ts, Y: 0, W: ts, H: ts}
}

// GridOverlay returns one outline per cell of the first layer. Each
// outline is one pixel larger than the tile so neighbours share edges.
func GridOverlay(g *Grid, tileSize int) []Rect {
	rows, cols := g.LayerDimensions(0)
	ts := float64(tileSize)
	out := make([]Rect, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out = append(out, Rect{X: float64(c) * ts, Y: float64(r) * ts, W: ts + 1, H: ts + 1})
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
