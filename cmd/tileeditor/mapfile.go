package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/wricardo/tilemap-editor/game/config"
	"github.com/wricardo/tilemap-editor/game/editor"
	"github.com/wricardo/tilemap-editor/game/service"
	"github.com/wricardo/tilemap-editor/game/tilemap"
)

// loadMap opens the map at path. A missing or empty file yields a fresh
// grid shaped by settings; any other decode failure is returned.
func loadMap(path string, settings config.Settings, images tilemap.ImageSizer) (*tilemap.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read map: %w", err)
	}

	if err == nil {
		m, err := tilemap.Decode(string(data), images)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, tilemap.ErrEmptyInput) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	log.WithField("path", path).Infof("Starting a new %dx%dx%d map", settings.Layers, settings.Cols, settings.Rows)
	return service.NewMapFromPreset(&service.Preset{
		Name:        path,
		TilesetPath: settings.TilesetPath,
		Layers:      settings.Layers,
		Rows:        settings.Rows,
		Cols:        settings.Cols,
	}, images)
}

// saveMap writes the session's map in .tilemap text form
func saveMap(path string, s *editor.Session) error {
	text := tilemap.Encode(s.Map())
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to save map: %w", err)
	}
	log.WithFields(log.Fields{"path": path, "tiles": s.Grid().Count()}).Info("Map saved")
	return nil
}
