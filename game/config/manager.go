package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/wricardo/tilemap-editor/game/service"
	"github.com/wricardo/tilemap-editor/game/tilemap"
)

var (
	ErrPresetNotFound = service.ErrPresetNotFound
	ErrInvalidPreset  = errors.New("invalid preset")
)

// presetExtensions are tried in order when resolving a preset name
var presetExtensions = []string{".json", ".yaml", ".yml"}

// Manager handles map preset loading and caching
type Manager struct {
	presetDir     string
	defaultPreset *service.Preset
	presets       map[string]*service.Preset
	mu            sync.RWMutex
}

// NewManager creates a new preset manager
func NewManager(presetDir string) (*Manager, error) {
	if _, err := os.Stat(presetDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("preset directory does not exist: %s", presetDir)
	}

	m := &Manager{
		presetDir: presetDir,
		presets:   make(map[string]*service.Preset),
	}

	if err := m.loadDefaultPreset(); err != nil {
		return nil, fmt.Errorf("failed to load default preset: %w", err)
	}

	return m, nil
}

// LoadPreset loads a preset by name, with or without its file extension
func (m *Manager) LoadPreset(name string) (*service.Preset, error) {
	id := presetID(name)

	m.mu.RLock()
	if preset, exists := m.presets[id]; exists {
		m.mu.RUnlock()
		return preset, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if preset, exists := m.presets[id]; exists {
		return preset, nil
	}

	path, err := m.findPresetFile(name)
	if err != nil {
		return nil, err
	}

	preset, err := readPreset(path)
	if err != nil {
		return nil, err
	}

	m.presets[id] = preset
	return preset, nil
}

// ListPresets returns information about every valid preset file
func (m *Manager) ListPresets() ([]*service.PresetInfo, error) {
	entries, err := os.ReadDir(m.presetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset directory: %w", err)
	}

	var presets []*service.PresetInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !isPresetFile(entry.Name()) {
			continue
		}

		id := presetID(entry.Name())
		if seen[id] {
			continue
		}

		preset, err := m.LoadPreset(entry.Name())
		if err != nil {
			// Skip invalid presets
			continue
		}
		seen[id] = true

		presets = append(presets, &service.PresetInfo{
			Filename:    entry.Name(),
			PresetID:    id,
			Name:        preset.Name,
			Description: preset.Description,
			TilesetPath: preset.TilesetPath,
			Layers:      preset.Layers,
			Rows:        preset.Rows,
			Cols:        preset.Cols,
		})
	}

	sort.Slice(presets, func(i, j int) bool { return presets[i].PresetID < presets[j].PresetID })
	return presets, nil
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *service.Preset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultPreset
}

// SetDefault sets the default preset by name
func (m *Manager) SetDefault(name string) error {
	preset, err := m.LoadPreset(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultPreset = preset
	return nil
}

// RefreshCache drops cached presets and reloads the default from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.presets = make(map[string]*service.Preset)
	m.mu.Unlock()

	return m.loadDefaultPreset()
}

// SavePreset writes a preset to disk as JSON
func (m *Manager) SavePreset(name string, preset *service.Preset) error {
	if err := ValidatePreset(preset); err != nil {
		return err
	}

	id := presetID(name)
	if id == "" || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: bad preset name %q", ErrInvalidPreset, name)
	}

	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}

	presetPath := filepath.Join(m.presetDir, id+".json")
	if err := os.WriteFile(presetPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}

	m.mu.Lock()
	m.presets[id] = preset
	m.mu.Unlock()

	return nil
}

// ValidatePreset checks that a preset describes a usable map
func ValidatePreset(p *service.Preset) error {
	if p == nil {
		return fmt.Errorf("%w: preset is nil", ErrInvalidPreset)
	}
	if strings.TrimSpace(p.TilesetPath) == "" {
		return fmt.Errorf("%w: tileset_path is required", ErrInvalidPreset)
	}
	if strings.Contains(p.TilesetPath, `"`) {
		return fmt.Errorf("%w: tileset_path cannot contain a double quote", ErrInvalidPreset)
	}
	if p.Layers < 1 || p.Rows < 1 || p.Cols < 1 {
		return fmt.Errorf("%w: %w: %dx%dx%d", ErrInvalidPreset, tilemap.ErrInvalidDimensions, p.Layers, p.Rows, p.Cols)
	}
	return nil
}

// loadDefaultPreset prefers default, then the first valid preset, then a
// built-in single layer 16x16 map.
func (m *Manager) loadDefaultPreset() error {
	preset, err := m.LoadPreset("default")
	if err != nil {
		presets, listErr := m.ListPresets()
		if listErr != nil || len(presets) == 0 {
			m.setDefault(createMinimalPreset())
			return nil
		}

		preset, err = m.LoadPreset(presets[0].Filename)
		if err != nil {
			m.setDefault(createMinimalPreset())
			return nil
		}
	}

	m.setDefault(preset)
	return nil
}

func (m *Manager) setDefault(p *service.Preset) {
	m.mu.Lock()
	m.defaultPreset = p
	m.mu.Unlock()
}

func (m *Manager) findPresetFile(name string) (string, error) {
	if isPresetFile(name) {
		path := filepath.Join(m.presetDir, name)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return "", ErrPresetNotFound
			}
			return "", fmt.Errorf("failed to stat preset file: %w", err)
		}
		return path, nil
	}

	for _, ext := range presetExtensions {
		path := filepath.Join(m.presetDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrPresetNotFound
}

// readPreset parses a JSON or YAML preset file
func readPreset(path string) (*service.Preset, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("layers", 1)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to parse preset: %w", err)
	}

	var preset service.Preset
	if err := v.Unmarshal(&preset); err != nil {
		return nil, fmt.Errorf("failed to decode preset: %w", err)
	}
	if preset.Name == "" {
		preset.Name = presetID(filepath.Base(path))
	}

	if err := ValidatePreset(&preset); err != nil {
		return nil, err
	}
	return &preset, nil
}

// createMinimalPreset creates the built-in default preset
func createMinimalPreset() *service.Preset {
	return &service.Preset{
		Name:        "default",
		Description: "Single layer 16x16 map",
		TilesetPath: tilemap.DefaultTileset,
		Layers:      1,
		Rows:        16,
		Cols:        16,
	}
}

func isPresetFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range presetExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func presetID(name string) string {
	if isPresetFile(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
