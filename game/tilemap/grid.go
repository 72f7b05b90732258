package tilemap

import "fmt"

// Grid is a stack of equally sized layers of tile ids, indexed
// [layer][row][col]. Its dimensions are always read from the nested
// slices themselves.
type Grid struct {
	layers [][][]TileID
}

// NewGrid creates an empty grid. All dimensions must be positive.
func NewGrid(layers, rows, cols int) (*Grid, error) {
	if layers <= 0 || rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrInvalidDimensions, layers, rows, cols)
	}

	g := &Grid{layers: make([][][]TileID, layers)}
	for l := range g.layers {
		g.layers[l] = emptyLayer(rows, cols)
	}
	return g, nil
}

// NewGridFromTiles copies tiles into a new grid after checking that it is
// non-empty and rectangular.
func NewGridFromTiles(tiles [][][]TileID) (*Grid, error) {
	if len(tiles) == 0 || len(tiles[0]) == 0 || len(tiles[0][0]) == 0 {
		return nil, ErrInvalidDimensions
	}

	rows, cols := len(tiles[0]), len(tiles[0][0])
	for l, layer := range tiles {
		if len(layer) != rows {
			return nil, &RectangularityError{Layer: l, Row: -1, Want: rows, Got: len(layer)}
		}
		for r, row := range layer {
			if len(row) != cols {
				return nil, &RectangularityError{Layer: l, Row: r, Want: cols, Got: len(row)}
			}
		}
	}

	return &Grid{layers: copyLayers(tiles)}, nil
}

// Set overwrites one cell. Out of range coordinates panic.
func (g *Grid) Set(layer, row, col int, value TileID) {
	g.layers[layer][row][col] = value
}

// Get returns one cell. Out of range coordinates panic.
func (g *Grid) Get(layer, row, col int) TileID {
	return g.layers[layer][row][col]
}

// Dimensions returns the layer, row and column counts
func (g *Grid) Dimensions() Dimensions {
	rows, cols := g.LayerDimensions(0)
	return Dimensions{Layers: len(g.layers), Rows: rows, Cols: cols}
}

// LayerDimensions returns the row and column counts of a single layer
func (g *Grid) LayerDimensions(layer int) (rows, cols int) {
	rows = len(g.layers[layer])
	if rows > 0 {
		cols = len(g.layers[layer][0])
	}
	return rows, cols
}

// LayerCount returns the number of layers
func (g *Grid) LayerCount() int {
	return len(g.layers)
}

// InBounds reports whether the cell exists
func (g *Grid) InBounds(layer, row, col int) bool {
	if layer < 0 || layer >= len(g.layers) {
		return false
	}
	rows, cols := g.LayerDimensions(layer)
	return row >= 0 && row < rows && col >= 0 && col < cols
}

// Tiles returns a deep copy of all layers
func (g *Grid) Tiles() [][][]TileID {
	return copyLayers(g.layers)
}

// Layer returns a deep copy of one layer
func (g *Grid) Layer(layer int) [][]TileID {
	return copyLayer(g.layers[layer])
}

// Clone returns an independent copy of the grid
func (g *Grid) Clone() *Grid {
	return &Grid{layers: copyLayers(g.layers)}
}

// AddLayer appends an empty layer with the grid's shape and returns its index
func (g *Grid) AddLayer() int {
	rows, cols := g.LayerDimensions(0)
	g.layers = append(g.layers, emptyLayer(rows, cols))
	return len(g.layers) - 1
}

// RemoveLayer deletes a layer. The last remaining layer cannot be removed.
func (g *Grid) RemoveLayer(layer int) error {
	if layer < 0 || layer >= len(g.layers) {
		return fmt.Errorf("%w: %d", ErrLayerOutOfRange, layer)
	}
	if len(g.layers) == 1 {
		return ErrLastLayer
	}
	g.layers = append(g.layers[:layer], g.layers[layer+1:]...)
	return nil
}

// Clear empties every cell of a layer
func (g *Grid) Clear(layer int) {
	for _, row := range g.layers[layer] {
		clear(row)
	}
}

// Count returns the number of non-empty cells across all layers
func (g *Grid) Count() int {
	n := 0
	for _, layer := range g.layers {
		for _, row := range layer {
			for _, id := range row {
				if id != Empty {
					n++
				}
			}
		}
	}
	return n
}

func emptyLayer(rows, cols int) [][]TileID {
	layer := make([][]TileID, rows)
	for r := range layer {
		layer[r] = make([]TileID, cols)
	}
	return layer
}

func copyLayer(src [][]TileID) [][]TileID {
	dst := make([][]TileID, len(src))
	for r, row := range src {
		dst[r] = append([]TileID(nil), row...)
	}
	return dst
}

func copyLayers(src [][][]TileID) [][][]TileID {
	dst := make([][][]TileID, len(src))
	for l, layer := range src {
		dst[l] = copyLayer(layer)
	}
	return dst
}
