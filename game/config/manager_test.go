package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/tilemap-editor/game/service"
)

func createValidPreset() *service.Preset {
	return &service.Preset{
		Name:        "Test Preset",
		Description: "Test preset",
		TilesetPath: "tileset.png",
		Layers:      2,
		Rows:        8,
		Cols:        10,
	}
}

func writePresetFile(t *testing.T, dir, name string, preset *service.Preset) {
	t.Helper()
	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal preset: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write preset file: %v", err)
	}
}

func writeRaw(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		defaultPreset := createValidPreset()
		defaultPreset.Name = "Default"
		writePresetFile(t, dir, "default", defaultPreset)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if got := manager.GetDefault().Name; got != "Default" {
			t.Errorf("Expected default preset 'Default', got '%s'", got)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("missing default preset", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed without preset files, got: %v", err)
		}

		def := manager.GetDefault()
		if def == nil {
			t.Fatal("Expected default preset to be available")
		}
		if def.Layers != 1 || def.Rows != 16 || def.Cols != 16 || def.TilesetPath != "tileset.png" {
			t.Errorf("Unexpected minimal preset: %+v", def)
		}
	})

	t.Run("first preset becomes default", func(t *testing.T) {
		dir := t.TempDir()
		p := createValidPreset()
		p.Name = "Alpha"
		writePresetFile(t, dir, "alpha", p)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if got := manager.GetDefault().Name; got != "Alpha" {
			t.Errorf("Expected 'Alpha' as default, got '%s'", got)
		}
	})
}

func TestManager_LoadPreset(t *testing.T) {
	dir := t.TempDir()
	writePresetFile(t, dir, "default", createValidPreset())

	big := createValidPreset()
	big.Name = "Big"
	big.Rows = 64
	writePresetFile(t, dir, "big", big)

	writeRaw(t, dir, "cave.yaml", "name: Cave\ntileset_path: cave.png\nrows: 12\ncols: 20\n")
	writeRaw(t, dir, "broken.json", "{not json")
	writeRaw(t, dir, "flat.json", `{"name":"Flat","tileset_path":"t.png","layers":1,"rows":0,"cols":4}`)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing preset", func(t *testing.T) {
		p, err := manager.LoadPreset("big")
		if err != nil {
			t.Fatalf("Failed to load preset: %v", err)
		}
		if p.Name != "Big" || p.Rows != 64 {
			t.Errorf("Unexpected preset: %+v", p)
		}
	})

	t.Run("load with extension", func(t *testing.T) {
		p, err := manager.LoadPreset("big.json")
		if err != nil {
			t.Fatalf("Failed to load preset with extension: %v", err)
		}
		if p.Name != "Big" {
			t.Errorf("Expected preset name 'Big', got '%s'", p.Name)
		}
	})

	t.Run("load yaml with defaults", func(t *testing.T) {
		p, err := manager.LoadPreset("cave")
		if err != nil {
			t.Fatalf("Failed to load yaml preset: %v", err)
		}
		if p.TilesetPath != "cave.png" || p.Rows != 12 || p.Cols != 20 {
			t.Errorf("Unexpected preset: %+v", p)
		}
		if p.Layers != 1 {
			t.Errorf("Expected layers to default to 1, got %d", p.Layers)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		p1, _ := manager.LoadPreset("big")
		p2, err := manager.LoadPreset("big")
		if err != nil {
			t.Fatalf("Failed to load preset from cache: %v", err)
		}
		if p1 != p2 {
			t.Error("Expected preset to be loaded from cache")
		}
	})

	t.Run("load non-existent preset", func(t *testing.T) {
		_, err := manager.LoadPreset("non-existent")
		if !errors.Is(err, ErrPresetNotFound) {
			t.Errorf("Expected ErrPresetNotFound, got %v", err)
		}
	})

	t.Run("load malformed preset", func(t *testing.T) {
		if _, err := manager.LoadPreset("broken"); err == nil {
			t.Error("Expected error for malformed preset")
		}
	})

	t.Run("load invalid preset", func(t *testing.T) {
		_, err := manager.LoadPreset("flat")
		if !errors.Is(err, ErrInvalidPreset) {
			t.Errorf("Expected ErrInvalidPreset, got %v", err)
		}
	})
}

func TestManager_ListPresets(t *testing.T) {
	dir := t.TempDir()
	writePresetFile(t, dir, "default", createValidPreset())
	writeRaw(t, dir, "cave.yml", "name: Cave\ntileset_path: cave.png\nlayers: 3\nrows: 4\ncols: 4\n")
	writeRaw(t, dir, "broken.json", "{")
	writeRaw(t, dir, "notes.txt", "ignored")

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	presets, err := manager.ListPresets()
	if err != nil {
		t.Fatalf("Failed to list presets: %v", err)
	}
	if len(presets) != 2 {
		t.Fatalf("Expected 2 presets, got %d", len(presets))
	}

	if presets[0].PresetID != "cave" || presets[0].Filename != "cave.yml" || presets[0].Layers != 3 {
		t.Errorf("Unexpected first preset: %+v", presets[0])
	}
	if presets[1].PresetID != "default" || presets[1].Name != "Test Preset" {
		t.Errorf("Unexpected second preset: %+v", presets[1])
	}
}

func TestManager_SavePreset(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	p := createValidPreset()
	p.Name = "Saved"
	if err := manager.SavePreset("saved", p); err != nil {
		t.Fatalf("Failed to save preset: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
		t.Fatalf("Expected preset file on disk: %v", err)
	}

	// A fresh manager reads it back from disk
	other, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	loaded, err := other.LoadPreset("saved")
	if err != nil {
		t.Fatalf("Failed to load saved preset: %v", err)
	}
	if *loaded != *p {
		t.Errorf("Expected %+v, got %+v", p, loaded)
	}

	t.Run("rejects invalid preset", func(t *testing.T) {
		bad := createValidPreset()
		bad.Cols = 0
		if err := manager.SavePreset("bad", bad); !errors.Is(err, ErrInvalidPreset) {
			t.Errorf("Expected ErrInvalidPreset, got %v", err)
		}
	})

	t.Run("rejects path names", func(t *testing.T) {
		if err := manager.SavePreset("../escape", createValidPreset()); !errors.Is(err, ErrInvalidPreset) {
			t.Errorf("Expected ErrInvalidPreset, got %v", err)
		}
	})
}

func TestManager_SetDefaultAndRefresh(t *testing.T) {
	dir := t.TempDir()
	writePresetFile(t, dir, "default", createValidPreset())
	other := createValidPreset()
	other.Name = "Other"
	writePresetFile(t, dir, "other", other)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SetDefault("other"); err != nil {
		t.Fatalf("Failed to set default: %v", err)
	}
	if got := manager.GetDefault().Name; got != "Other" {
		t.Errorf("Expected 'Other', got '%s'", got)
	}

	if err := manager.SetDefault("missing"); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("Expected ErrPresetNotFound, got %v", err)
	}

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh cache: %v", err)
	}
	if got := manager.GetDefault().Name; got != "Test Preset" {
		t.Errorf("Expected default to reload from default.json, got '%s'", got)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	writePresetFile(t, dir, "default", createValidPreset())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := manager.LoadPreset("default"); err != nil {
					t.Errorf("Failed to load preset: %v", err)
					return
				}
				_ = manager.GetDefault()
			}
		}()
	}
	wg.Wait()
}

func TestValidatePreset(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*service.Preset)
		wantErr bool
	}{
		{"valid", func(p *service.Preset) {}, false},
		{"missing tileset", func(p *service.Preset) { p.TilesetPath = " " }, true},
		{"quoted tileset", func(p *service.Preset) { p.TilesetPath = `a"b.png` }, true},
		{"zero layers", func(p *service.Preset) { p.Layers = 0 }, true},
		{"negative rows", func(p *service.Preset) { p.Rows = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := createValidPreset()
			tt.mutate(p)
			err := ValidatePreset(p)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePreset() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := ValidatePreset(nil); err == nil {
		t.Error("Expected error for nil preset")
	}
}
