package tilemap

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput        = errors.New("empty tilemap input")
	ErrMalformedHeader   = errors.New("malformed tileset header")
	ErrMalformedInteger  = errors.New("malformed tile id")
	ErrRectangularity    = errors.New("tile grid is not rectangular")
	ErrResourceLoad      = errors.New("failed to load resource")
	ErrInvalidDimensions = errors.New("grid dimensions must be positive")
	ErrLastLayer         = errors.New("cannot remove the last layer")
	ErrLayerOutOfRange   = errors.New("layer out of range")
)

// MalformedIntegerError reports a tile token that is not an unsigned
// 16-bit decimal integer, with its location in the file.
type MalformedIntegerError struct {
	Layer int
	Row   int
	Col   int
	Token string
	Err   error
}

func (e *MalformedIntegerError) Error() string {
	return fmt.Sprintf("layer %d row %d column %d: malformed tile id %q: %v", e.Layer, e.Row, e.Col, e.Token, e.Err)
}

func (e *MalformedIntegerError) Unwrap() error { return e.Err }

func (e *MalformedIntegerError) Is(target error) bool { return target == ErrMalformedInteger }

// RectangularityError reports a row or layer whose length differs from
// the first one. Row is -1 when a whole layer has the wrong row count.
type RectangularityError struct {
	Layer int
	Row   int
	Want  int
	Got   int
}

func (e *RectangularityError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("layer %d has %d rows, want %d", e.Layer, e.Got, e.Want)
	}
	return fmt.Sprintf("layer %d row %d has %d tiles, want %d", e.Layer, e.Row, e.Got, e.Want)
}

func (e *RectangularityError) Is(target error) bool { return target == ErrRectangularity }

// ResourceLoadError wraps a failure to read a tileset image or map file
type ResourceLoadError struct {
	Path string
	Err  error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *ResourceLoadError) Unwrap() error { return e.Err }

func (e *ResourceLoadError) Is(target error) bool { return target == ErrResourceLoad }
