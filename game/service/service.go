package service

import (
	"context"
	"time"

	"github.com/wricardo/tilemap-editor/game/editor"
	"github.com/wricardo/tilemap-editor/game/tilemap"
)

// TilemapService defines all map editing operations exposed to transports
type TilemapService interface {
	// Session Management
	CreateSession(ctx context.Context, presetName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Editing
	Paint(ctx context.Context, sessionID string, req PaintRequest) (*CellUpdate, error)
	Erase(ctx context.Context, sessionID string, req PaintRequest) (*CellUpdate, error)
	AddLayer(ctx context.Context, sessionID string) (*SessionInfo, error)
	RemoveLayer(ctx context.Context, sessionID string, layer int) (*SessionInfo, error)

	// Rendering
	Visible(ctx context.Context, sessionID string, sel tilemap.Selection) (*VisibleResult, error)

	// Persistence
	ExportMap(ctx context.Context, sessionID string) (string, error)
	ImportMap(ctx context.Context, sessionID string, text string) (*SessionInfo, error)
	SaveSession(ctx context.Context, sessionID string) error

	// Presets
	ListPresets(ctx context.Context) ([]*PresetInfo, error)
	LoadPreset(ctx context.Context, name string) (*Preset, error)
	SavePreset(ctx context.Context, name string, preset *Preset) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, ed *editor.Session, preset string) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// PresetManager handles map preset loading
type PresetManager interface {
	LoadPreset(name string) (*Preset, error)
	ListPresets() ([]*PresetInfo, error)
	GetDefault() *Preset
	SavePreset(name string, preset *Preset) error
}

// Session is one open map with its editor state
type Session struct {
	ID             string
	Editor         *editor.Session
	Preset         string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
