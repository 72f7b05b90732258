// Package service defines the application layer of the tile-map editor
// server.
//
// TilemapService is the single entry point used by every transport (REST,
// WebSocket notifications, MCP). It ties together:
//   - SessionManager, which keeps open maps in memory and on disk
//   - PresetManager, which supplies the shape and tileset of new maps
//   - a tilemap.ImageSizer, which resolves tile sizes from tileset images
//
// All edits go through editor.Session, so paint and erase requests clamp
// out-of-range coordinates instead of failing. Each mutation is persisted
// before the call returns.
//
// Usage:
//
//	svc := service.NewTilemapService(sessions, presets, inspector)
//
//	info, err := svc.CreateSession(ctx, "dungeon")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	layer := 0
//	_, err = svc.Paint(ctx, info.ID, service.PaintRequest{Layer: &layer, X: 3, Y: 4, Tile: 2})
//	text, err := svc.ExportMap(ctx, info.ID)
package service
