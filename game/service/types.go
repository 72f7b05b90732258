package service

import (
	"time"

	"github.com/wricardo/tilemap-editor/game/tilemap"
)

// Preset describes how to create a fresh map
type Preset struct {
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
	TilesetPath string `json:"tileset_path" mapstructure:"tileset_path"`
	Layers      int    `json:"layers" mapstructure:"layers"`
	Rows        int    `json:"rows" mapstructure:"rows"`
	Cols        int    `json:"cols" mapstructure:"cols"`
}

// PresetInfo summarises a preset file
type PresetInfo struct {
	Filename    string `json:"filename"`
	PresetID    string `json:"preset_id"` // The identifier to use for session creation
	Name        string `json:"name"`
	Description string `json:"description"`
	TilesetPath string `json:"tileset_path"`
	Layers      int    `json:"layers"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
}

// SessionInfo provides information about an editing session
type SessionInfo struct {
	ID             string               `json:"id"`
	Preset         string               `json:"preset"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
	TilesetPath    string               `json:"tileset_path"`
	TileSize       int                  `json:"tile_size"`
	TilesetColumns int                  `json:"tileset_columns"`
	Dimensions     tilemap.Dimensions   `json:"dimensions"`
	SelectedLayer  int                  `json:"selected_layer"`
	SelectedTile   tilemap.TileID       `json:"selected_tile"`
	TileCount      int                  `json:"tile_count"`
	Tiles          [][][]tilemap.TileID `json:"tiles,omitempty"`
}

// PaintRequest targets one cell. A nil Layer paints on the session's
// active layer; otherwise that layer becomes active first.
type PaintRequest struct {
	Layer *int           `json:"layer,omitempty"`
	X     int            `json:"x"`
	Y     int            `json:"y"`
	Tile  tilemap.TileID `json:"tile,omitempty"`
}

// CellUpdate is the cell actually written after clamping
type CellUpdate struct {
	Layer     int            `json:"layer"`
	X         int            `json:"x"`
	Y         int            `json:"y"`
	Tile      tilemap.TileID `json:"tile"`
	Previous  tilemap.TileID `json:"previous"`
	Clamped   bool           `json:"clamped,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// VisibleResult lists draw directives for a selection
type VisibleResult struct {
	Selection  tilemap.Selection   `json:"selection"`
	Count      int                 `json:"count"`
	Directives []tilemap.Directive `json:"directives"`
}
