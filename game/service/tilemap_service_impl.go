package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/tilemap-editor/game/editor"
	"github.com/wricardo/tilemap-editor/game/tilemap"
)

var ErrPresetNotFound = errors.New("preset not found")

// tilemapServiceImpl implements the TilemapService interface
type tilemapServiceImpl struct {
	sessions SessionManager
	presets  PresetManager
	images   tilemap.ImageSizer
	mu       sync.RWMutex
}

// NewTilemapService creates a new tile-map service instance
func NewTilemapService(sessions SessionManager, presets PresetManager, images tilemap.ImageSizer) TilemapService {
	return &tilemapServiceImpl{
		sessions: sessions,
		presets:  presets,
		images:   images,
	}
}

// CreateSession creates a new map from a preset, or the default preset
// when presetName is empty.
func (s *tilemapServiceImpl) CreateSession(ctx context.Context, presetName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var preset *Preset
	var err error
	if presetName != "" {
		preset, err = s.presets.LoadPreset(presetName)
		if err != nil {
			if errors.Is(err, ErrPresetNotFound) {
				return nil, s.presetNotFound(presetName)
			}
			return nil, fmt.Errorf("failed to load preset %s: %w", presetName, err)
		}
	} else {
		preset = s.presets.GetDefault()
		presetName = "default"
	}

	m, err := NewMapFromPreset(preset, s.images)
	if err != nil {
		return nil, err
	}

	ed, err := editor.New(m, editor.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create editor: %w", err)
	}

	session, err := s.sessions.Create("", ed, presetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return newSessionInfo(session, true), nil
}

// presetNotFound lists the available preset ids in the error
func (s *tilemapServiceImpl) presetNotFound(name string) error {
	available, err := s.presets.ListPresets()
	if err == nil && len(available) > 0 {
		ids := make([]string, 0, len(available))
		for _, p := range available {
			ids = append(ids, p.PresetID)
		}
		return fmt.Errorf("%w: '%s'. Available presets: %v", ErrPresetNotFound, name, ids)
	}
	return fmt.Errorf("%w: '%s'. Use /api/presets to list available presets", ErrPresetNotFound, name)
}

// GetSession retrieves session information including all tiles
func (s *tilemapServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return newSessionInfo(session, true), nil
}

// ListSessions returns a summary of all open sessions, without tiles
func (s *tilemapServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, newSessionInfo(sess, false))
	}
	return result, nil
}

// DeleteSession closes a session and removes its files
func (s *tilemapServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Paint writes a tile, clamping the target cell into the layer
func (s *tilemapServiceImpl) Paint(ctx context.Context, sessionID string, req PaintRequest) (*CellUpdate, error) {
	if req.Tile == tilemap.Empty {
		return nil, fmt.Errorf("tile id must be at least 1, use erase to clear a cell")
	}
	return s.write(sessionID, req)
}

// Erase clears a cell, clamping the target into the layer
func (s *tilemapServiceImpl) Erase(ctx context.Context, sessionID string, req PaintRequest) (*CellUpdate, error) {
	req.Tile = tilemap.Empty
	return s.write(sessionID, req)
}

func (s *tilemapServiceImpl) write(sessionID string, req PaintRequest) (*CellUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	ed := sess.Editor
	if req.Layer != nil {
		ed.SelectLayer(*req.Layer)
	}
	if req.Tile != tilemap.Empty {
		ed.SelectTile(req.Tile)
	}

	target := tilemap.Position{X: req.X, Y: req.Y}
	layer := ed.SelectedLayer()
	rows, cols := ed.Grid().LayerDimensions(layer)
	clampedTarget := tilemap.Position{X: max(0, min(req.X, cols-1)), Y: max(0, min(req.Y, rows-1))}
	previous := ed.Grid().Get(layer, clampedTarget.Y, clampedTarget.X)

	var pos tilemap.Position
	if req.Tile == tilemap.Empty {
		pos = ed.EraseAt(target)
	} else {
		pos = ed.PaintAt(target, req.Tile)
	}

	s.persist(sessionID)

	return &CellUpdate{
		Layer:     layer,
		X:         pos.X,
		Y:         pos.Y,
		Tile:      ed.Grid().Get(layer, pos.Y, pos.X),
		Previous:  previous,
		Clamped:   pos != target,
		Timestamp: time.Now(),
	}, nil
}

// AddLayer appends an empty layer and makes it active
func (s *tilemapServiceImpl) AddLayer(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	sess.Editor.AddLayer()
	s.persist(sessionID)
	return newSessionInfo(sess, false), nil
}

// RemoveLayer deletes a layer; the last layer cannot be removed
func (s *tilemapServiceImpl) RemoveLayer(ctx context.Context, sessionID string, layer int) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	if layer < 0 || layer >= sess.Editor.Grid().LayerCount() {
		return nil, fmt.Errorf("%w: %d", tilemap.ErrLayerOutOfRange, layer)
	}
	sess.Editor.SelectLayer(layer)
	if err := sess.Editor.RemoveLayer(); err != nil {
		return nil, err
	}

	s.persist(sessionID)
	return newSessionInfo(sess, false), nil
}

// Visible returns the draw directives for a selection
func (s *tilemapServiceImpl) Visible(ctx context.Context, sessionID string, sel tilemap.Selection) (*VisibleResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	m := sess.Editor.Map()
	directives := tilemap.Select(m.Grid, m.TileSize, sel)
	if directives == nil {
		directives = []tilemap.Directive{}
	}
	return &VisibleResult{
		Selection:  sel,
		Count:      len(directives),
		Directives: directives,
	}, nil
}

// ExportMap returns the session's map in .tilemap text form
func (s *tilemapServiceImpl) ExportMap(ctx context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return "", fmt.Errorf("session not found: %w", err)
	}
	return tilemap.Encode(sess.Editor.Map()), nil
}

// ImportMap replaces the session's map with decoded text. Nothing changes
// if the text does not decode.
func (s *tilemapServiceImpl) ImportMap(ctx context.Context, sessionID string, text string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	m, err := tilemap.Decode(text, s.images)
	if err != nil {
		return nil, err
	}

	ed, err := editor.New(m, editor.DefaultOptions())
	if err != nil {
		return nil, err
	}
	ed.SelectLayer(sess.Editor.SelectedLayer())
	ed.SelectTile(sess.Editor.SelectedTile())
	ed.SetCamera(sess.Editor.Camera())
	ed.SetShowGrid(sess.Editor.ShowGrid())
	sess.Editor = ed

	s.persist(sessionID)
	return newSessionInfo(sess, true), nil
}

// SaveSession forces a write of the session to storage
func (s *tilemapServiceImpl) SaveSession(ctx context.Context, sessionID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sessions.Save(sessionID)
}

// ListPresets returns the available presets
func (s *tilemapServiceImpl) ListPresets(ctx context.Context) ([]*PresetInfo, error) {
	return s.presets.ListPresets()
}

// LoadPreset loads a preset by name
func (s *tilemapServiceImpl) LoadPreset(ctx context.Context, name string) (*Preset, error) {
	return s.presets.LoadPreset(name)
}

// SavePreset stores a preset
func (s *tilemapServiceImpl) SavePreset(ctx context.Context, name string, preset *Preset) error {
	return s.presets.SavePreset(name, preset)
}

// persist saves a session after a mutation, logging rather than failing
func (s *tilemapServiceImpl) persist(sessionID string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.WithField("session", sessionID).Warnf("Failed to persist session: %v", err)
	}
}

// NewMapFromPreset creates an empty map shaped by the preset, reading the
// tile size from the preset's tileset.
func NewMapFromPreset(p *Preset, images tilemap.ImageSizer) (*tilemap.Map, error) {
	if p == nil {
		return nil, fmt.Errorf("preset cannot be nil")
	}

	grid, err := tilemap.NewGrid(p.Layers, p.Rows, p.Cols)
	if err != nil {
		return nil, fmt.Errorf("invalid preset %s: %w", p.Name, err)
	}

	width, height, err := images.ImageSize(p.TilesetPath)
	if err != nil {
		return nil, &tilemap.ResourceLoadError{Path: p.TilesetPath, Err: err}
	}
	if width <= 0 || height <= 0 {
		return nil, &tilemap.ResourceLoadError{Path: p.TilesetPath, Err: fmt.Errorf("tileset has empty size %dx%d", width, height)}
	}

	return &tilemap.Map{
		TilesetPath:  p.TilesetPath,
		TileSize:     height,
		TilesetWidth: width,
		Grid:         grid,
	}, nil
}

func newSessionInfo(sess *Session, withTiles bool) *SessionInfo {
	m := sess.Editor.Map()
	info := &SessionInfo{
		ID:             sess.ID,
		Preset:         strings.TrimSuffix(sess.Preset, ".json"),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		TilesetPath:    m.TilesetPath,
		TileSize:       m.TileSize,
		TilesetColumns: m.TilesetColumns(),
		Dimensions:     m.Grid.Dimensions(),
		SelectedLayer:  sess.Editor.SelectedLayer(),
		SelectedTile:   sess.Editor.SelectedTile(),
		TileCount:      m.Grid.Count(),
	}
	if withTiles {
		info.Tiles = m.Grid.Tiles()
	}
	return info
}
