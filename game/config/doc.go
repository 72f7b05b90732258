// Package config loads map presets and desktop editor settings.
//
// Presets are JSON or YAML files in a preset directory. Each one names a
// tileset and the shape of a new, empty map:
//
//	{
//	  "name": "Overworld",
//	  "description": "Three layers for ground, props and roofs",
//	  "tileset_path": "tileset.png",
//	  "layers": 3,
//	  "rows": 32,
//	  "cols": 48
//	}
//
// The preset named "default" is used when a session is created without
// one. If no preset file exists a single layer 16x16 map over tileset.png
// is used.
//
// Usage:
//
//	manager, err := config.NewManager("presets")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	preset, err := manager.LoadPreset("overworld")
//	presets, err := manager.ListPresets()
//
// Settings for the desktop editor come from an optional file read with
// viper, with TILEMAP_* environment overrides:
//
//	settings, err := config.LoadSettings("editor.yaml")
package config
