package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/tilemap-editor/game/editor"
	"github.com/wricardo/tilemap-editor/game/service"
	"github.com/wricardo/tilemap-editor/game/tilemap"
)

const (
	mapExt  = ".tilemap"
	metaExt = ".meta.json"
)

// FilePersistence stores each session as <id>.tilemap holding the map text
// and <id>.meta.json holding the editor state.
type FilePersistence struct {
	sessionsDir string
	images      tilemap.ImageSizer
}

// NewFilePersistence creates a new file-based session persistence layer.
// images resolves tileset sizes when maps are read back.
func NewFilePersistence(sessionsDir string, images tilemap.ImageSizer) (*FilePersistence, error) {
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	return &FilePersistence{
		sessionsDir: sessionsDir,
		images:      images,
	}, nil
}

// Save writes the session's map and editor state
func (fp *FilePersistence) Save(session *service.Session) error {
	if session == nil || session.Editor == nil {
		return fmt.Errorf("session cannot be nil")
	}

	ed := session.Editor
	data := PersistedSessionData{
		ID:             session.ID,
		Preset:         session.Preset,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		SelectedLayer:  ed.SelectedLayer(),
		SelectedTile:   ed.SelectedTile(),
		Camera:         ed.Camera(),
		ShowGrid:       ed.ShowGrid(),
	}

	meta, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	if err := writeFileAtomic(fp.mapPath(session.ID), []byte(tilemap.Encode(ed.Map()))); err != nil {
		return fmt.Errorf("failed to write map file: %w", err)
	}
	if err := writeFileAtomic(fp.metaPath(session.ID), meta); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load rebuilds a session from its files. A missing meta file is
// tolerated so hand-placed .tilemap files can be opened as sessions.
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	text, err := os.ReadFile(fp.mapPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}

	data := PersistedSessionData{ID: id, SelectedTile: 1, ShowGrid: true}
	if raw, err := os.ReadFile(fp.metaPath(id)); err == nil {
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	m, err := tilemap.Decode(string(text), fp.images)
	if err != nil {
		return nil, fmt.Errorf("failed to decode map: %w", err)
	}

	ed, err := editor.New(m, editor.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create editor: %w", err)
	}
	ed.SelectLayer(data.SelectedLayer)
	ed.SelectTile(data.SelectedTile)
	ed.SetCamera(data.Camera)
	ed.SetShowGrid(data.ShowGrid)

	return &service.Session{
		ID:             id,
		Editor:         ed,
		Preset:         data.Preset,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// Delete removes a session's files
func (fp *FilePersistence) Delete(id string) error {
	if !fp.Exists(id) {
		return ErrSessionNotFound
	}

	if err := os.Remove(fp.mapPath(id)); err != nil {
		return fmt.Errorf("failed to remove map file: %w", err)
	}
	if err := os.Remove(fp.metaPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	return nil
}

// ListAll returns all persisted session IDs
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if id, ok := strings.CutSuffix(entry.Name(), mapExt); ok && validSessionID(id) {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

// Exists checks if a session's map file exists
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.mapPath(id))
	return err == nil
}

func (fp *FilePersistence) mapPath(id string) string {
	return filepath.Join(fp.sessionsDir, id+mapExt)
}

func (fp *FilePersistence) metaPath(id string) string {
	return filepath.Join(fp.sessionsDir, id+metaExt)
}

// writeFileAtomic writes through a temp file so a crash never leaves a
// truncated map behind.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
