package tileset

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/tilemap-editor/game/tilemap"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewNRGBA(image.Rect(0, 0, w, h))))
}

func TestImageSize(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "strip.png"), 64, 16)

	inspector, err := NewInspector(dir)
	require.NoError(t, err)
	defer inspector.Close()

	w, h, err := inspector.ImageSize("strip.png")
	require.NoError(t, err)
	assert.Equal(t, 64, w)
	assert.Equal(t, 16, h)

	_, _, err = inspector.ImageSize("missing.png")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestImageSizeNotAnImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not a png"), 0644))

	inspector, err := NewInspector(dir)
	require.NoError(t, err)
	defer inspector.Close()

	_, _, err = inspector.ImageSize("bad.png")
	assert.Error(t, err)
}

func TestForget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strip.png")
	writePNG(t, path, 32, 16)

	inspector, err := NewInspector("")
	require.NoError(t, err)
	defer inspector.Close()

	_, _, err = inspector.ImageSize(path)
	require.NoError(t, err)

	writePNG(t, path, 48, 16)
	inspector.Forget(path)
	w, _, err := inspector.ImageSize(path)
	require.NoError(t, err)
	assert.Equal(t, 48, w)
}

func TestDecodeWithInspector(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "t.png"), 80, 16)

	inspector, err := NewInspector(dir)
	require.NoError(t, err)
	defer inspector.Close()

	m, err := tilemap.Decode(`"t.png"5,0/1,2`, inspector)
	require.NoError(t, err)
	assert.Equal(t, 16, m.TileSize)
	assert.Equal(t, 5, m.TilesetColumns())

	_, err = tilemap.Decode(`"gone.png"1`, inspector)
	assert.ErrorIs(t, err, tilemap.ErrResourceLoad)
}

func TestResolve(t *testing.T) {
	inspector, err := NewInspector("/assets")
	require.NoError(t, err)
	defer inspector.Close()

	assert.Equal(t, filepath.Join("/assets", "a.png"), inspector.Resolve("a.png"))
	assert.Equal(t, "/abs/b.png", inspector.Resolve("/abs/b.png"))
}
