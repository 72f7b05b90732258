package tilemap

import (
	"image/color"
	"math"
)

// TileID is a 1-based tileset column index. Empty marks a cell with no tile.
type TileID uint16

// Empty is the tile id of a blank cell
const Empty TileID = 0

// Position is a cell coordinate in tile units
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Vec2 is a point or size in pixel space
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// Round rounds both components half away from zero
func (v Vec2) Round() Vec2 { return Vec2{math.Round(v.X), math.Round(v.Y)} }

// Rect is an axis-aligned rectangle in pixel space
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Tint multiplies the colour of a drawn tile. Channels are in [0, 1] and
// are not premultiplied.
type Tint struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

// NRGBA converts the tint to an 8-bit non-premultiplied colour
func (t Tint) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: channel(t.R),
		G: channel(t.G),
		B: channel(t.B),
		A: channel(t.A),
	}
}

func channel(v float32) uint8 {
	return uint8(math.Round(float64(min(max(v, 0), 1)) * 255))
}

// Dimensions is the shape of a grid
type Dimensions struct {
	Layers int `json:"layers"`
	Rows   int `json:"rows"`
	Cols   int `json:"cols"`
}
