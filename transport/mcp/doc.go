// Package mcp exposes the tile-map editor to AI agents over the Model
// Context Protocol.
//
// The Client is a thin proxy: every tool call is translated into a request
// against the REST API served by package api, and the JSON response is
// rendered as text for the agent.
//
// MCP Tools:
//   - create_session, list_sessions, get_map
//   - paint, erase, add_layer, remove_layer
//   - visible_tiles
//   - export_map, import_map, save_map
//   - list_presets, validate_map
//
// Transport Modes:
//
// The same MCP server is served over stdio (server.ServeStdio) for local
// agents and over streamable HTTP at /mcp when the editor server runs.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
