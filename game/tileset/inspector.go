// Package tileset reads tileset image metadata for the tile-map codec.
//
// A tileset is one horizontal strip of square tiles, so its pixel height
// is the tile size and its width divided by the height is the number of
// tiles it holds. Inspector implements tilemap.ImageSizer by decoding
// only the image header and caching the result per path.
package tileset

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/dgraph-io/ristretto/v2"
)

// Size is the pixel size of a tileset image
type Size struct {
	Width  int
	Height int
}

// Inspector resolves tileset paths against a root directory and reports
// their pixel size.
type Inspector struct {
	root  string
	cache *ristretto.Cache[string, Size]
}

// NewInspector creates an inspector. Relative tileset paths are resolved
// against root; an empty root means the working directory.
func NewInspector(root string) (*Inspector, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, Size]{
		NumCounters: 10000,
		MaxCost:     1000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tileset cache: %w", err)
	}

	return &Inspector{root: root, cache: cache}, nil
}

// ImageSize returns the width and height of the image at path
func (i *Inspector) ImageSize(path string) (int, int, error) {
	full := i.Resolve(path)
	if size, ok := i.cache.Get(full); ok {
		return size.Width, size.Height, nil
	}

	f, err := os.Open(full)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image header: %w", err)
	}

	size := Size{Width: cfg.Width, Height: cfg.Height}
	i.cache.Set(full, size, 1)
	i.cache.Wait()
	return size.Width, size.Height, nil
}

// Resolve returns the filesystem path of a tileset
func (i *Inspector) Resolve(path string) string {
	if i.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(i.root, path)
}

// Forget drops a cached size, e.g. after the tileset file was replaced
func (i *Inspector) Forget(path string) {
	i.cache.Del(i.Resolve(path))
}

// Close releases the cache
func (i *Inspector) Close() {
	i.cache.Close()
}
