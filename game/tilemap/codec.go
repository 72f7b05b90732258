package tilemap

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	headerQuote = '"'
	layerSep    = "~"
	rowSep      = "/"
	tileSep     = ","
)

const (
	// DefaultPath is the map file the editor opens when none is given
	DefaultPath = "current.tilemap"
	// DefaultTileset is the tileset used for freshly created maps
	DefaultTileset = "tileset.png"
)

// ImageSizer reports the pixel size of an image resource
type ImageSizer interface {
	ImageSize(path string) (width, height int, err error)
}

// Map is a grid together with the tileset it is drawn from
type Map struct {
	TilesetPath  string `json:"tileset_path"`
	TileSize     int    `json:"tile_size"`
	TilesetWidth int    `json:"tileset_width"`
	Grid         *Grid  `json:"-"`
}

// TilesetColumns returns how many tiles the tileset strip holds, at least 1
func (m *Map) TilesetColumns() int {
	if m.TileSize <= 0 {
		return 1
	}
	return max(int(math.Round(float64(m.TilesetWidth)/float64(m.TileSize))), 1)
}

// Encode renders the map in .tilemap text form
func Encode(m *Map) string {
	return EncodeGrid(m.TilesetPath, m.Grid)
}

// EncodeGrid renders a grid with the given tileset path header
func EncodeGrid(tilesetPath string, g *Grid) string {
	var b strings.Builder
	b.WriteByte(headerQuote)
	b.WriteString(tilesetPath)
	b.WriteByte(headerQuote)

	var buf []byte
	for l, layer := range g.layers {
		if l > 0 {
			b.WriteString(layerSep)
		}
		for r, row := range layer {
			if r > 0 {
				b.WriteString(rowSep)
			}
			for c, id := range row {
				if c > 0 {
					b.WriteString(tileSep)
				}
				buf = strconv.AppendUint(buf[:0], uint64(id), 10)
				b.Write(buf)
			}
		}
	}
	return b.String()
}

// Parse decodes .tilemap text into its tileset path and grid without
// touching the tileset image. Trailing whitespace is ignored.
func Parse(text string) (string, *Grid, error) {
	text = strings.TrimRightFunc(text, unicode.IsSpace)
	if text == "" {
		return "", nil, ErrEmptyInput
	}

	path, body, err := splitHeader(text)
	if err != nil {
		return "", nil, err
	}

	layerTexts := strings.Split(body, layerSep)
	layers := make([][][]TileID, len(layerTexts))
	rows, cols := -1, -1

	for l, layerText := range layerTexts {
		rowTexts := strings.Split(layerText, rowSep)
		layer := make([][]TileID, len(rowTexts))

		for r, rowText := range rowTexts {
			tokens := strings.Split(rowText, tileSep)
			row := make([]TileID, len(tokens))
			for c, token := range tokens {
				v, err := strconv.ParseUint(token, 10, 16)
				if err != nil {
					return "", nil, &MalformedIntegerError{Layer: l, Row: r, Col: c, Token: token, Err: err}
				}
				row[c] = TileID(v)
			}

			if cols < 0 {
				cols = len(row)
			} else if len(row) != cols {
				return "", nil, &RectangularityError{Layer: l, Row: r, Want: cols, Got: len(row)}
			}
			layer[r] = row
		}

		if rows < 0 {
			rows = len(layer)
		} else if len(layer) != rows {
			return "", nil, &RectangularityError{Layer: l, Row: -1, Want: rows, Got: len(layer)}
		}
		layers[l] = layer
	}

	return path, &Grid{layers: layers}, nil
}

// Decode parses .tilemap text and resolves the tile size from the
// tileset image height.
func Decode(text string, images ImageSizer) (*Map, error) {
	path, grid, err := Parse(text)
	if err != nil {
		return nil, err
	}

	width, height, err := images.ImageSize(path)
	if err != nil {
		return nil, &ResourceLoadError{Path: path, Err: err}
	}
	if width <= 0 || height <= 0 {
		return nil, &ResourceLoadError{Path: path, Err: fmt.Errorf("tileset has empty size %dx%d", width, height)}
	}

	return &Map{
		TilesetPath:  path,
		TileSize:     height,
		TilesetWidth: width,
		Grid:         grid,
	}, nil
}

func splitHeader(text string) (path, body string, err error) {
	if text[0] != headerQuote {
		return "", "", fmt.Errorf("%w: missing opening quote", ErrMalformedHeader)
	}
	end := strings.IndexByte(text[1:], headerQuote)
	if end < 0 {
		return "", "", fmt.Errorf("%w: missing closing quote", ErrMalformedHeader)
	}
	path = text[1 : 1+end]
	if path == "" {
		return "", "", fmt.Errorf("%w: empty tileset path", ErrMalformedHeader)
	}
	return path, text[2+end:], nil
}

// IsDecodeError reports whether err came from malformed map text rather
// than from I/O.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrMalformedHeader) ||
		errors.Is(err, ErrMalformedInteger) ||
		errors.Is(err, ErrRectangularity)
}
