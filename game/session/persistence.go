package session

import (
	"time"

	"github.com/wricardo/tilemap-editor/game/service"
	"github.com/wricardo/tilemap-editor/game/tilemap"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the editor state stored next to a session's map.
// The map itself is kept in .tilemap text form.
type PersistedSessionData struct {
	ID             string         `json:"id"`
	Preset         string         `json:"preset"`
	CreatedAt      time.Time      `json:"created_at"`
	LastAccessedAt time.Time      `json:"last_accessed_at"`
	SelectedLayer  int            `json:"selected_layer"`
	SelectedTile   tilemap.TileID `json:"selected_tile"`
	Camera         tilemap.Vec2   `json:"camera"`
	ShowGrid       bool           `json:"show_grid"`
}
