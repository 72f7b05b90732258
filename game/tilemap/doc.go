// Package tilemap provides the tile-map data model for the editor.
//
// The tilemap package implements:
//   - Grid, a rectangular stack of layers holding 16-bit tile ids
//   - The text codec used for .tilemap files
//   - Render selection: which cells to draw, where, and with which tint
//
// Tile ids are 1-based indexes into a tileset image, a single horizontal
// strip of square tiles. Id 0 marks an empty cell and is never drawn.
//
// File Format:
//
// A map is stored as the quoted tileset path followed by the tile data:
//
//	"tileset.png"1,2,0/0,0,3~0,0,0/4,0,0
//
// Layers are separated by '~', rows by '/' and tiles by ','. Every row of
// every layer has the same length, and every layer has the same number of
// rows. The tile size is not stored; it is the pixel height of the tileset.
//
// Usage:
//
//	m, err := tilemap.Decode(text, inspector)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	m.Grid.Set(0, 2, 3, 5)
//	text = tilemap.Encode(m)
//
//	for _, d := range tilemap.Select(m.Grid, m.TileSize, tilemap.FullSelection(m.Grid, 0)) {
//		draw(d.Dest, d.Source, d.Tint)
//	}
//
// Draw Order:
//
// Select emits directives layer by layer, then row by row, then column by
// column. Drawing them in order composites later layers over earlier ones
// without a depth buffer.
package tilemap
