// Package validate lints .tilemap files. It checks:
//   - the tileset header and tile data decode
//   - every layer has the same rows and columns
//   - the tileset image can be read and sized
//   - tile ids stay within the tileset's columns
//   - no layer is left completely empty
package validate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/tilemap-editor/game/tilemap"
)

// ValidationResult captures the outcome of validating a single map.
// Errors make the map unusable; Warnings flag content the editor will
// still open. Info holds a short summary of valid maps.
type ValidationResult struct {
	File     string   `json:"file,omitempty"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Info     []string `json:"info"`
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Text validates map text. images may be nil, in which case only the text
// itself is checked.
func Text(text string, images tilemap.ImageSizer) ValidationResult {
	result := ValidationResult{
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
		Info:     []string{},
	}

	path, grid, err := tilemap.Parse(text)
	if err != nil {
		result.fail("%s", describe(err))
		return result
	}

	d := grid.Dimensions()
	columns := 0
	tileSize := 0
	if images != nil {
		w, h, err := images.ImageSize(path)
		switch {
		case err != nil:
			result.fail("Tileset %q cannot be loaded: %v", path, err)
		case w <= 0 || h <= 0:
			result.fail("Tileset %q has empty size %dx%d", path, w, h)
		default:
			m := tilemap.Map{TilesetPath: path, TileSize: h, TilesetWidth: w, Grid: grid}
			columns = m.TilesetColumns()
			tileSize = h
		}
	}

	for l := 0; l < d.Layers; l++ {
		checkLayer(&result, grid.Layer(l), l, columns)
	}

	if result.Valid {
		result.Info = append(result.Info, fmt.Sprintf("✓ Tileset: %s", path))
		if tileSize > 0 {
			result.Info = append(result.Info, fmt.Sprintf("✓ Tiles: %dpx, %d columns", tileSize, columns))
		}
		result.Info = append(result.Info, fmt.Sprintf("✓ Grid: %d layers of %dx%d", d.Layers, d.Rows, d.Cols))
		result.Info = append(result.Info, fmt.Sprintf("✓ Painted cells: %d", grid.Count()))
	}

	return result
}

// checkLayer reports empty layers and ids past the tileset. columns of 0
// skips the id check.
func checkLayer(result *ValidationResult, layer [][]tilemap.TileID, l, columns int) {
	painted := 0
	outside := 0
	var first tilemap.Position
	var highest tilemap.TileID

	for r, row := range layer {
		for c, id := range row {
			if id == tilemap.Empty {
				continue
			}
			painted++
			if columns > 0 && int(id) > columns {
				if outside == 0 {
					first = tilemap.Position{X: c, Y: r}
				}
				outside++
				highest = max(highest, id)
			}
		}
	}

	if painted == 0 {
		result.warn("Layer %d is empty", l)
	}
	if outside > 0 {
		result.warn("Layer %d: %d cells use tile ids past the tileset's %d columns (highest %d, first at row %d, column %d)",
			l, outside, columns, highest, first.Y, first.X)
	}
}

// describe turns decode errors into messages with their location
func describe(err error) string {
	var intErr *tilemap.MalformedIntegerError
	var rectErr *tilemap.RectangularityError

	switch {
	case errors.As(err, &intErr):
		return fmt.Sprintf("Invalid tile %q at layer %d, row %d, column %d", intErr.Token, intErr.Layer, intErr.Row, intErr.Col)
	case errors.As(err, &rectErr) && rectErr.Row < 0:
		return fmt.Sprintf("Inconsistent row count in layer %d: expected %d, got %d", rectErr.Layer, rectErr.Want, rectErr.Got)
	case errors.As(err, &rectErr):
		return fmt.Sprintf("Inconsistent row width at layer %d, row %d: expected %d, got %d", rectErr.Layer, rectErr.Row, rectErr.Want, rectErr.Got)
	case errors.Is(err, tilemap.ErrEmptyInput):
		return "File is empty"
	case errors.Is(err, tilemap.ErrMalformedHeader):
		return fmt.Sprintf("Bad tileset header: %v", err)
	}
	return err.Error()
}

// File reads and validates a map file
func File(path string, images tilemap.ImageSizer) ValidationResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ValidationResult{
			File:     filepath.Base(path),
			Errors:   []string{fmt.Sprintf("Failed to read file: %v", err)},
			Warnings: []string{},
			Info:     []string{},
		}
	}

	result := Text(string(data), images)
	result.File = filepath.Base(path)
	return result
}

// Print writes a concise report for each result and returns whether all
// of them were valid.
func Print(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(w, "  ⚠ "+warning)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All maps are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some maps have errors")
	}
	return allValid
}
