package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/tilemap-editor/game/service"
	"github.com/wricardo/tilemap-editor/game/session"
	"github.com/wricardo/tilemap-editor/game/tilemap"
)

type stubImages map[string][2]int

func (s stubImages) ImageSize(path string) (int, int, error) {
	size, ok := s[path]
	if !ok {
		return 0, 0, errors.New("not found")
	}
	return size[0], size[1], nil
}

type stubPresets struct {
	presets map[string]*service.Preset
}

func (p *stubPresets) LoadPreset(name string) (*service.Preset, error) {
	preset, ok := p.presets[name]
	if !ok {
		return nil, service.ErrPresetNotFound
	}
	return preset, nil
}

func (p *stubPresets) ListPresets() ([]*service.PresetInfo, error) {
	var out []*service.PresetInfo
	for id, preset := range p.presets {
		out = append(out, &service.PresetInfo{PresetID: id, Name: preset.Name})
	}
	return out, nil
}

func (p *stubPresets) GetDefault() *service.Preset {
	return &service.Preset{Name: "default", TilesetPath: "tileset.png", Layers: 1, Rows: 4, Cols: 5}
}

func (p *stubPresets) SavePreset(name string, preset *service.Preset) error {
	p.presets[name] = preset
	return nil
}

func newTestService(t *testing.T) service.TilemapService {
	t.Helper()
	images := stubImages{
		"tileset.png": {64, 16},
		"cave.png":    {96, 32},
	}
	presets := &stubPresets{presets: map[string]*service.Preset{
		"cave":   {Name: "Cave", TilesetPath: "cave.png", Layers: 2, Rows: 3, Cols: 3},
		"broken": {Name: "Broken", TilesetPath: "nope.png", Layers: 1, Rows: 1, Cols: 1},
	}}
	return service.NewTilemapService(session.NewManager(), presets, images)
}

func TestCreateSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("default preset", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "")
		require.NoError(t, err)
		assert.Len(t, info.ID, 8)
		assert.Equal(t, "default", info.Preset)
		assert.Equal(t, 16, info.TileSize)
		assert.Equal(t, 4, info.TilesetColumns)
		assert.Equal(t, tilemap.Dimensions{Layers: 1, Rows: 4, Cols: 5}, info.Dimensions)
		assert.Equal(t, tilemap.TileID(1), info.SelectedTile)
		assert.Zero(t, info.TileCount)
		assert.Len(t, info.Tiles, 1)
	})

	t.Run("named preset", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "cave")
		require.NoError(t, err)
		assert.Equal(t, 32, info.TileSize)
		assert.Equal(t, 3, info.TilesetColumns)
		assert.Equal(t, 2, info.Dimensions.Layers)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "space")
		assert.ErrorIs(t, err, service.ErrPresetNotFound)
		assert.Contains(t, err.Error(), "Available presets")
	})

	t.Run("missing tileset", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "broken")
		assert.ErrorIs(t, err, tilemap.ErrResourceLoad)
	})
}

func TestPaintAndErase(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "cave")
	require.NoError(t, err)

	layer := 1
	update, err := svc.Paint(ctx, info.ID, service.PaintRequest{Layer: &layer, X: 2, Y: 1, Tile: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, update.Layer)
	assert.Equal(t, 2, update.X)
	assert.Equal(t, 1, update.Y)
	assert.Equal(t, tilemap.TileID(3), update.Tile)
	assert.Equal(t, tilemap.Empty, update.Previous)
	assert.False(t, update.Clamped)

	t.Run("out of bounds clamps", func(t *testing.T) {
		update, err := svc.Paint(ctx, info.ID, service.PaintRequest{X: 10, Y: -4, Tile: 2})
		require.NoError(t, err)
		assert.True(t, update.Clamped)
		assert.Equal(t, 1, update.Layer, "layer stays selected")
		assert.Equal(t, 2, update.X)
		assert.Equal(t, 0, update.Y)
	})

	t.Run("erase", func(t *testing.T) {
		update, err := svc.Erase(ctx, info.ID, service.PaintRequest{Layer: &layer, X: 2, Y: 1})
		require.NoError(t, err)
		assert.Equal(t, tilemap.Empty, update.Tile)
		assert.Equal(t, tilemap.TileID(3), update.Previous)
	})

	t.Run("tile zero is rejected", func(t *testing.T) {
		_, err := svc.Paint(ctx, info.ID, service.PaintRequest{X: 0, Y: 0, Tile: 0})
		assert.Error(t, err)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.Paint(ctx, "nope", service.PaintRequest{Tile: 1})
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	got, err := svc.GetSession(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TileCount)
	assert.Equal(t, tilemap.TileID(2), got.Tiles[1][0][2])
}

func TestLayers(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	added, err := svc.AddLayer(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, added.Dimensions.Layers)
	assert.Equal(t, 1, added.SelectedLayer)

	removed, err := svc.RemoveLayer(ctx, info.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, removed.Dimensions.Layers)
	assert.Equal(t, 0, removed.SelectedLayer)

	_, err = svc.RemoveLayer(ctx, info.ID, 0)
	assert.ErrorIs(t, err, tilemap.ErrLastLayer)

	_, err = svc.RemoveLayer(ctx, info.ID, 7)
	assert.ErrorIs(t, err, tilemap.ErrLayerOutOfRange)
}

func TestVisible(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "cave")
	require.NoError(t, err)

	_, err = svc.Paint(ctx, info.ID, service.PaintRequest{X: 0, Y: 0, Tile: 1})
	require.NoError(t, err)
	layer := 1
	_, err = svc.Paint(ctx, info.ID, service.PaintRequest{Layer: &layer, X: 2, Y: 2, Tile: 2})
	require.NoError(t, err)

	res, err := svc.Visible(ctx, info.ID, tilemap.Selection{
		Min:         tilemap.Position{X: 0, Y: 0},
		Max:         tilemap.Position{X: 3, Y: 3},
		MinLayer:    0,
		MaxLayer:    2,
		ActiveLayer: 0,
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.Count)

	assert.Equal(t, 0, res.Directives[0].Layer)
	assert.Equal(t, tilemap.ActiveTint, res.Directives[0].Tint)
	assert.Equal(t, 1, res.Directives[1].Layer)
	assert.Equal(t, tilemap.DimmedTint, res.Directives[1].Tint)
	assert.Equal(t, tilemap.Vec2{X: 64, Y: 64}, res.Directives[1].Dest)
	assert.Equal(t, tilemap.Rect{X: 32, Y: 0, W: 32, H: 32}, res.Directives[1].Source)

	empty, err := svc.Visible(ctx, info.ID, tilemap.Selection{MinLayer: 0, MaxLayer: 0, Min: tilemap.Position{X: 1, Y: 1}, Max: tilemap.Position{X: 1, Y: 1}})
	require.NoError(t, err)
	assert.NotNil(t, empty.Directives)
	assert.Zero(t, empty.Count)
}

func TestExportImport(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	_, err = svc.Paint(ctx, info.ID, service.PaintRequest{X: 1, Y: 0, Tile: 4})
	require.NoError(t, err)

	text, err := svc.ExportMap(ctx, info.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, `"tileset.png"0,4,0,0,0/`))

	imported, err := svc.ImportMap(ctx, info.ID, `"cave.png"1,2~3,0`)
	require.NoError(t, err)
	assert.Equal(t, tilemap.Dimensions{Layers: 2, Rows: 1, Cols: 2}, imported.Dimensions)
	assert.Equal(t, 32, imported.TileSize)
	assert.Equal(t, tilemap.TileID(3), imported.SelectedTile, "selection clamps to the new tileset")

	_, err = svc.ImportMap(ctx, info.ID, `"cave.png"1,2/3`)
	assert.ErrorIs(t, err, tilemap.ErrRectangularity)

	after, err := svc.ExportMap(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, `"cave.png"1,2~3,0`, after, "failed import leaves the map untouched")
}

func TestListAndDeleteSessions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	_, err = svc.CreateSession(ctx, "cave")
	require.NoError(t, err)

	list, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, s := range list {
		assert.Nil(t, s.Tiles)
	}

	require.NoError(t, svc.DeleteSession(ctx, a.ID))
	_, err = svc.GetSession(ctx, a.ID)
	assert.Error(t, err)
	assert.NoError(t, svc.SaveSession(ctx, list[0].ID), "save without persistence is a no-op")
}

func TestPresets(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p := &service.Preset{Name: "New", TilesetPath: "tileset.png", Layers: 1, Rows: 2, Cols: 2}
	require.NoError(t, svc.SavePreset(ctx, "new", p))

	loaded, err := svc.LoadPreset(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, p, loaded)

	list, err := svc.ListPresets(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestNewMapFromPreset(t *testing.T) {
	images := stubImages{"tileset.png": {64, 16}, "zero.png": {0, 0}}

	m, err := service.NewMapFromPreset(&service.Preset{TilesetPath: "tileset.png", Layers: 2, Rows: 3, Cols: 4}, images)
	require.NoError(t, err)
	assert.Equal(t, 16, m.TileSize)
	assert.Equal(t, tilemap.Dimensions{Layers: 2, Rows: 3, Cols: 4}, m.Grid.Dimensions())

	_, err = service.NewMapFromPreset(nil, images)
	assert.Error(t, err)

	_, err = service.NewMapFromPreset(&service.Preset{TilesetPath: "tileset.png", Layers: 0, Rows: 3, Cols: 4}, images)
	assert.ErrorIs(t, err, tilemap.ErrInvalidDimensions)

	_, err = service.NewMapFromPreset(&service.Preset{TilesetPath: "zero.png", Layers: 1, Rows: 1, Cols: 1}, images)
	assert.ErrorIs(t, err, tilemap.ErrResourceLoad)
}
