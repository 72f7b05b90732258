package validate

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type stubImages map[string][2]int

func (s stubImages) ImageSize(path string) (int, int, error) {
	size, ok := s[path]
	if !ok {
		return 0, 0, errors.New("not found")
	}
	return size[0], size[1], nil
}

var images = stubImages{
	"tileset.png": {64, 16},
	"blank.png":   {0, 16},
}

func TestText_Valid(t *testing.T) {
	result := Text(`"tileset.png"1,2/3,4~0,1/0,0`, images)

	if !result.Valid {
		t.Fatalf("Expected valid map, got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", result.Warnings)
	}

	want := []string{
		"✓ Tileset: tileset.png",
		"✓ Tiles: 16px, 4 columns",
		"✓ Grid: 2 layers of 2x2",
		"✓ Painted cells: 5",
	}
	if strings.Join(result.Info, "|") != strings.Join(want, "|") {
		t.Errorf("Expected info %v, got %v", want, result.Info)
	}
}

func TestText_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "  \n", "File is empty"},
		{"header", `tileset.png"1`, "Bad tileset header"},
		{"integer", `"tileset.png"1,2/3,x`, `Invalid tile "x" at layer 0, row 1, column 1`},
		{"row width", `"tileset.png"1,2/3`, "Inconsistent row width at layer 0, row 1: expected 2, got 1"},
		{"row count", `"tileset.png"1/2~3`, "Inconsistent row count in layer 1: expected 2, got 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Text(tt.text, images)
			if result.Valid {
				t.Fatal("Expected invalid map")
			}
			if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestText_Tileset(t *testing.T) {
	t.Run("missing image", func(t *testing.T) {
		result := Text(`"nope.png"1`, images)
		if result.Valid {
			t.Fatal("Expected invalid map")
		}
		if !strings.Contains(result.Errors[0], `Tileset "nope.png" cannot be loaded`) {
			t.Errorf("Unexpected error: %v", result.Errors)
		}
	})

	t.Run("empty image", func(t *testing.T) {
		result := Text(`"blank.png"1`, images)
		if result.Valid {
			t.Fatal("Expected invalid map")
		}
	})

	t.Run("no sizer skips tileset checks", func(t *testing.T) {
		result := Text(`"nope.png"9`, nil)
		if !result.Valid {
			t.Fatalf("Expected valid map, got %v", result.Errors)
		}
		if len(result.Warnings) != 0 {
			t.Errorf("Expected no warnings, got %v", result.Warnings)
		}
	})
}

func TestText_Warnings(t *testing.T) {
	result := Text(`"tileset.png"0,7/5,1~0,0/0,0`, images)
	if !result.Valid {
		t.Fatalf("Warnings should not invalidate the map: %v", result.Errors)
	}

	want := []string{
		"Layer 0: 2 cells use tile ids past the tileset's 4 columns (highest 7, first at row 0, column 1)",
		"Layer 1 is empty",
	}
	if strings.Join(result.Warnings, "|") != strings.Join(want, "|") {
		t.Errorf("Expected warnings %v, got %v", want, result.Warnings)
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "level.tilemap")
	if err := os.WriteFile(path, []byte("\"tileset.png\"1,0\n"), 0644); err != nil {
		t.Fatalf("Failed to write map: %v", err)
	}

	result := File(path, images)
	if !result.Valid {
		t.Fatalf("Expected valid map, got %v", result.Errors)
	}
	if result.File != "level.tilemap" {
		t.Errorf("Expected file name level.tilemap, got %s", result.File)
	}

	missing := File(filepath.Join(dir, "missing.tilemap"), images)
	if missing.Valid || !strings.HasPrefix(missing.Errors[0], "Failed to read file") {
		t.Errorf("Expected read failure, got %+v", missing)
	}
}

func TestPrint(t *testing.T) {
	good := Text(`"tileset.png"1`, images)
	good.File = "good.tilemap"
	bad := Text(`"tileset.png"x`, images)
	bad.File = "bad.tilemap"

	var buf bytes.Buffer
	if Print(&buf, []ValidationResult{good}) != true {
		t.Error("Expected all valid")
	}
	if !strings.Contains(buf.String(), "✅ All maps are valid!") {
		t.Errorf("Unexpected output: %s", buf.String())
	}

	buf.Reset()
	if Print(&buf, []ValidationResult{good, bad}) {
		t.Error("Expected invalid result")
	}
	out := buf.String()
	if !strings.Contains(out, "❌ INVALID") || !strings.Contains(out, "bad.tilemap") {
		t.Errorf("Unexpected output: %s", out)
	}
}
