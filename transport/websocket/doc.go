// Package websocket pushes map changes to browsers and other viewers.
//
// A central Hub owns every connection. Clients attach to one session with
// the ?session=<id> query parameter and receive JSON messages whenever
// that session's map changes:
//
//	{"session_id": "3f2a9c1e", "event": "cell_update",
//	 "cell": {"layer": 0, "x": 4, "y": 2, "tile": 3, "previous": 0, ...}}
//
//	{"session_id": "3f2a9c1e", "event": "map_update",
//	 "map_text": "\"tileset.png\"1,0/0,2", "session": {...}}
//
// The socket is one-way. Edits go through the REST API or MCP tools, which
// call BroadcastCell or BroadcastMap after the service applies them.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Broadcasts are queued and never block the caller; when the queue is full
// the update is dropped and a warning is logged.
package websocket
