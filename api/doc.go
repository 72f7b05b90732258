// Package api provides the HTTP REST API of the tile-map editor server.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session from a preset ({"preset": "cave"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Session details including all tiles
//   - DELETE /api/sessions/{id} - Close a session and remove its files
//
// Map Text:
//   - GET /api/sessions/{id}/map - The map in .tilemap form (text/plain)
//   - PUT /api/sessions/{id}/map - Replace the map with .tilemap text
//   - POST /api/sessions/{id}/save - Write the session to disk now
//
// Editing:
//   - POST /api/sessions/{id}/paint - {"layer": 0, "x": 3, "y": 4, "tile": 2}
//   - POST /api/sessions/{id}/erase - {"layer": 0, "x": 3, "y": 4}
//   - POST /api/sessions/{id}/layers - Append an empty layer
//   - DELETE /api/sessions/{id}/layers/{layer} - Remove a layer
//
// The layer field is optional and defaults to the session's selected
// layer. Coordinates outside the layer are clamped to the nearest cell and
// the response reports "clamped": true.
//
// Rendering:
//   - GET /api/sessions/{id}/visible - Draw directives for a tile rectangle
//     (?min_x&min_y&max_x&max_y&min_layer&max_layer&active, max bounds
//     exclusive, all optional)
//
// Presets:
//   - GET /api/presets - List presets
//   - GET /api/presets/{name} - One preset
//   - POST /api/presets - Save a preset
//
// Other:
//   - POST /api/validate - Lint .tilemap text sent as the request body
//   - GET /health - Liveness probe
//   - GET /metrics - Prometheus metrics
//   - GET /ws?session={id} - WebSocket stream of map changes
//
// Usage:
//
//	server := api.NewServer(svc, hub, inspector)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status derived from the cause:
// 404 for unknown sessions and presets, 400 for malformed map text and
// invalid layer operations, 422 when a tileset image cannot be read.
//
//	{
//	  "error": "layer 0 row 1 column 2: malformed tile id \"x\": ..."
//	}
package api
