package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"

	"github.com/wricardo/tilemap-editor/game/tilemap"
)

// Settings configures the desktop editor
type Settings struct {
	MapPath      string  `mapstructure:"map_path"`
	TilesetPath  string  `mapstructure:"tileset_path"`
	Layers       int     `mapstructure:"layers"`
	Rows         int     `mapstructure:"rows"`
	Cols         int     `mapstructure:"cols"`
	WindowWidth  int     `mapstructure:"window_width"`
	WindowHeight int     `mapstructure:"window_height"`
	Zoom         float64 `mapstructure:"zoom"`
}

// DefaultSettings returns the editor's built-in settings
func DefaultSettings() Settings {
	return Settings{
		MapPath:      tilemap.DefaultPath,
		TilesetPath:  tilemap.DefaultTileset,
		Layers:       1,
		Rows:         16,
		Cols:         16,
		WindowWidth:  960,
		WindowHeight: 600,
		Zoom:         2,
	}
}

// LoadSettings reads settings from path, falling back to defaults for
// anything unset. A missing file is not an error. TILEMAP_* environment
// variables override both.
func LoadSettings(path string) (Settings, error) {
	def := DefaultSettings()

	v := viper.New()
	v.SetDefault("map_path", def.MapPath)
	v.SetDefault("tileset_path", def.TilesetPath)
	v.SetDefault("layers", def.Layers)
	v.SetDefault("rows", def.Rows)
	v.SetDefault("cols", def.Cols)
	v.SetDefault("window_width", def.WindowWidth)
	v.SetDefault("window_height", def.WindowHeight)
	v.SetDefault("zoom", def.Zoom)

	v.SetEnvPrefix("TILEMAP")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Settings{}, fmt.Errorf("failed to read settings: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects settings that cannot open a window or shape a map
func (s Settings) Validate() error {
	if s.Layers < 1 || s.Rows < 1 || s.Cols < 1 {
		return fmt.Errorf("%w: %dx%dx%d", tilemap.ErrInvalidDimensions, s.Layers, s.Rows, s.Cols)
	}
	if s.WindowWidth < 1 || s.WindowHeight < 1 {
		return fmt.Errorf("window size must be positive, got %dx%d", s.WindowWidth, s.WindowHeight)
	}
	if s.Zoom <= 0 {
		return fmt.Errorf("zoom must be positive, got %v", s.Zoom)
	}
	return nil
}

// Viewport is the logical screen size the editor lays out
func (s Settings) Viewport() tilemap.Vec2 {
	return tilemap.Vec2{
		X: float64(s.WindowWidth) / s.Zoom,
		Y: float64(s.WindowHeight) / s.Zoom,
	}
}
