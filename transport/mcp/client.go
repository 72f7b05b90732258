package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/tilemap-editor/game/service"
	"github.com/wricardo/tilemap-editor/game/tilemap"
	"github.com/wricardo/tilemap-editor/validate"
)

// maxPreviewCells bounds the ASCII layer preview returned by get_map
const maxPreviewCells = 4096

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Tilemap Editor",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Tilemap Editor - MCP Interface

This is a thin client that proxies all requests to the REST API server.

MAP MODEL:
A map is a stack of layers. Every layer is a grid of tile ids with the same
number of rows and columns. Tile id 0 is empty; id N draws column N-1 of the
tileset strip. Coordinates are (x, y) = (column, row), both 0-based.

AVAILABLE TOOLS:
- create_session: Open a new map from a preset
- list_sessions: List open maps
- get_map: Show a session's dimensions and an ASCII preview of one layer
- paint / erase: Write or clear a single cell (coordinates are clamped to the layer)
- add_layer / remove_layer: Change the layer stack
- visible_tiles: List draw directives for a tile rectangle
- export_map / import_map: Read or replace the whole map as .tilemap text
- save_map: Persist the session to disk
- list_presets: List presets usable with create_session
- validate_map: Check .tilemap text without opening it

TEXT FORMAT:
"<tileset path>" followed by layers separated by '~', rows by '/', tiles by ','.
Example: "tileset.png"1,0,2/0,0,0~0,3,0/0,0,0`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new map editing session from a preset",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Preset id to start from (optional, uses the default preset)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all open map sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_map",
		Description: "Get session details and an ASCII preview of one layer",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"layer": map[string]interface{}{
					"type":        "integer",
					"description": "Layer to preview (defaults to the selected layer)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetMap)

	// Editing
	cellProperties := func(withTile bool) map[string]interface{} {
		props := map[string]interface{}{
			"session_id": sessionIDProperty(),
			"x": map[string]interface{}{
				"type":        "integer",
				"description": "Column, 0-based",
			},
			"y": map[string]interface{}{
				"type":        "integer",
				"description": "Row, 0-based",
			},
			"layer": map[string]interface{}{
				"type":        "integer",
				"description": "Layer to edit (defaults to the selected layer)",
			},
		}
		if withTile {
			props["tile"] = map[string]interface{}{
				"type":        "integer",
				"description": "Tile id to paint, 1 or more (defaults to the selected tile)",
			}
		}
		return props
	}

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "paint",
		Description: "Paint a tile into one cell",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: cellProperties(true),
			Required:   []string{"session_id", "x", "y"},
		},
	}, c.handlePaint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "erase",
		Description: "Clear one cell",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: cellProperties(false),
			Required:   []string{"session_id", "x", "y"},
		},
	}, c.handleErase)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "add_layer",
		Description: "Append an empty layer on top of the stack",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleAddLayer)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "remove_layer",
		Description: "Remove a layer. The last remaining layer cannot be removed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"layer": map[string]interface{}{
					"type":        "integer",
					"description": "Layer index to remove",
				},
			},
			Required: []string{"session_id", "layer"},
		},
	}, c.handleRemoveLayer)

	// Rendering
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "visible_tiles",
		Description: "List draw directives for cells in [min_x,max_x) x [min_y,max_y) over [min_layer,max_layer)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"min_x":      map[string]interface{}{"type": "integer", "description": "First column"},
				"min_y":      map[string]interface{}{"type": "integer", "description": "First row"},
				"max_x":      map[string]interface{}{"type": "integer", "description": "Column past the end"},
				"max_y":      map[string]interface{}{"type": "integer", "description": "Row past the end"},
				"min_layer":  map[string]interface{}{"type": "integer", "description": "First layer"},
				"max_layer":  map[string]interface{}{"type": "integer", "description": "Layer past the end"},
				"active":     map[string]interface{}{"type": "integer", "description": "Layer drawn at full opacity"},
			},
			Required: []string{"session_id"},
		},
	}, c.handleVisibleTiles)

	// Persistence
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "export_map",
		Description: "Export the session's map as .tilemap text",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleExportMap)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "import_map",
		Description: "Replace the session's map with .tilemap text",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"map_text": map[string]interface{}{
					"type":        "string",
					"description": "Complete .tilemap text including the quoted tileset header",
				},
			},
			Required: []string{"session_id", "map_text"},
		},
	}, c.handleImportMap)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "save_map",
		Description: "Write the session's map to disk",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleSaveMap)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_presets",
		Description: "List presets available for create_session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPresets)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "validate_map",
		Description: "Check .tilemap text for format errors and suspicious tile ids",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_text": map[string]interface{}{
					"type":        "string",
					"description": "The .tilemap text to validate",
				},
			},
			Required: []string{"map_text"},
		},
	}, c.handleValidateMap)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall performs a JSON request against the REST API
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	resp, err := c.do(ctx, method, path, "application/json", reqBody)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// apiText performs a request whose request and response bodies are plain text
func (c *Client) apiText(ctx context.Context, method, path, body string) (string, error) {
	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	resp, err := c.do(ctx, method, path, "text/plain; charset=utf-8", reqBody)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return nil, fmt.Errorf("%s", msg)
		}
		return nil, fmt.Errorf("API error: %d", resp.StatusCode)
	}
	return resp, nil
}

// Argument helpers. JSON numbers arrive as float64.

func stringArg(args map[string]interface{}, key string) (string, bool) {
	v, ok := args[key].(string)
	return v, ok && v != ""
}

func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	}
	return 0, false
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(sessionID string, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	preset, _ := stringArg(args, "preset")

	var info service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", map[string]string{"preset": preset}, &info); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create session: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Session created!\n\n%s", formatSessionInfo(&info))), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &result); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list sessions: %v", err)), nil
	}

	if len(result.Sessions) == 0 {
		return mcp.NewToolResultText("No open sessions. Use create_session to start one."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Open sessions (%d):\n", len(result.Sessions)))
	for _, s := range result.Sessions {
		d := s.Dimensions
		sb.WriteString(fmt.Sprintf("- %s  preset=%s  %d layer(s) %dx%d  tiles=%d  last used %s\n",
			s.ID, s.Preset, d.Layers, d.Cols, d.Rows, s.TileCount, s.LastAccessedAt.Format(time.RFC3339)))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleGetMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, ok := stringArg(args, "session_id")
	if !ok {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &info); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get session: %v", err)), nil
	}

	layer := info.SelectedLayer
	if l, ok := intArg(args, "layer"); ok {
		layer = l
	}
	if layer < 0 || layer >= len(info.Tiles) {
		return mcp.NewToolResultError(fmt.Sprintf("layer %d out of range (map has %d layers)", layer, len(info.Tiles))), nil
	}

	var sb strings.Builder
	sb.WriteString(formatSessionInfo(&info))
	sb.WriteString("\n\n")
	sb.WriteString(formatLayer(layer, info.Tiles[layer]))
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handlePaint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.editCell(ctx, request, "paint")
}

func (c *Client) handleErase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.editCell(ctx, request, "erase")
}

func (c *Client) editCell(ctx context.Context, request mcp.CallToolRequest, op string) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, ok := stringArg(args, "session_id")
	if !ok {
		return mcp.NewToolResultError("session_id is required"), nil
	}
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required"), nil
	}

	body := map[string]interface{}{"x": x, "y": y}
	if layer, ok := intArg(args, "layer"); ok {
		body["layer"] = layer
	}
	if op == "paint" {
		tile, ok := intArg(args, "tile")
		if !ok {
			var info service.SessionInfo
			if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &info); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get session: %v", err)), nil
			}
			tile = int(info.SelectedTile)
		}
		if tile < 1 || tile > int(^tilemap.TileID(0)) {
			return mcp.NewToolResultError(fmt.Sprintf("tile must be between 1 and %d", ^tilemap.TileID(0))), nil
		}
		body["tile"] = tile
	}

	var update service.CellUpdate
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/"+op), body, &update); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", op, err)), nil
	}

	return mcp.NewToolResultText(formatCellUpdate(op, &update)), nil
}

func (c *Client) handleAddLayer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, ok := stringArg(args, "session_id")
	if !ok {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/layers"), nil, &info); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to add layer: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Layer added. Map now has %d layers; layer %d is selected.",
		info.Dimensions.Layers, info.SelectedLayer)), nil
}

func (c *Client) handleRemoveLayer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, ok := stringArg(args, "session_id")
	if !ok {
		return mcp.NewToolResultError("session_id is required"), nil
	}
	layer, ok := intArg(args, "layer")
	if !ok || layer < 0 {
		return mcp.NewToolResultError("layer must be a non-negative integer"), nil
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "DELETE", sessionPath(sessionID, fmt.Sprintf("/layers/%d", layer)), nil, &info); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to remove layer: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Layer %d removed. Map now has %d layers; layer %d is selected.",
		layer, info.Dimensions.Layers, info.SelectedLayer)), nil
}

func (c *Client) handleVisibleTiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, ok := stringArg(args, "session_id")
	if !ok {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	query := url.Values{}
	for _, key := range []string{"min_x", "min_y", "max_x", "max_y", "min_layer", "max_layer", "active"} {
		if v, ok := intArg(args, key); ok {
			query.Set(key, strconv.Itoa(v))
		}
	}
	path := sessionPath(sessionID, "/visible")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var result service.VisibleResult
	if err := c.apiCall(ctx, "GET", path, nil, &result); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to select tiles: %v", err)), nil
	}

	return mcp.NewToolResultText(formatVisible(&result)), nil
}

func (c *Client) handleExportMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, ok := stringArg(args, "session_id")
	if !ok {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	text, err := c.apiText(ctx, "GET", sessionPath(sessionID, "/map"), "")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to export map: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleImportMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, ok := stringArg(args, "session_id")
	if !ok {
		return mcp.NewToolResultError("session_id is required"), nil
	}
	text, ok := stringArg(args, "map_text")
	if !ok {
		return mcp.NewToolResultError("map_text is required"), nil
	}

	raw, err := c.apiText(ctx, "PUT", sessionPath(sessionID, "/map"), text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to import map: %v", err)), nil
	}

	var info service.SessionInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read import response: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Map imported.\n\n%s", formatSessionInfo(&info))), nil
}

func (c *Client) handleSaveMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, ok := stringArg(args, "session_id")
	if !ok {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	var result map[string]string
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/save"), nil, &result); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to save map: %v", err)), nil
	}
	return mcp.NewToolResultText(result["message"]), nil
}

func (c *Client) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var presets []*service.PresetInfo
	if err := c.apiCall(ctx, "GET", "/api/presets", nil, &presets); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list presets: %v", err)), nil
	}

	if len(presets) == 0 {
		return mcp.NewToolResultText("No presets found. create_session will use the built-in default."), nil
	}

	var sb strings.Builder
	sb.WriteString("Available presets:\n")
	for _, p := range presets {
		sb.WriteString(fmt.Sprintf("- %s: %s (%d layer(s) %dx%d, tileset %s)\n",
			p.PresetID, p.Name, p.Layers, p.Cols, p.Rows, p.TilesetPath))
		if p.Description != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", p.Description))
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleValidateMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	text, ok := stringArg(args, "map_text")
	if !ok {
		return mcp.NewToolResultError("map_text is required"), nil
	}

	raw, err := c.apiText(ctx, "POST", "/api/validate", text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to validate map: %v", err)), nil
	}

	var result validate.ValidationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read validation response: %v", err)), nil
	}
	return mcp.NewToolResultText(formatValidation(&result)), nil
}

// Formatting

func formatSessionInfo(info *service.SessionInfo) string {
	d := info.Dimensions
	return fmt.Sprintf(`Session ID: %s
Preset: %s
Tileset: %s (%d tiles of %dpx)
Dimensions: %d layer(s), %d cols x %d rows
Selected: layer %d, tile %d
Painted cells: %d`,
		info.ID, info.Preset,
		info.TilesetPath, info.TilesetColumns, info.TileSize,
		d.Layers, d.Cols, d.Rows,
		info.SelectedLayer, info.SelectedTile,
		info.TileCount)
}

// formatLayer draws a layer as a grid of ids, '.' for empty cells. Large
// layers are cut off after maxPreviewCells cells.
func formatLayer(layer int, rows [][]tilemap.TileID) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Layer %d:\n", layer))
	if len(rows) == 0 {
		return sb.String()
	}

	width := 1
	for _, row := range rows {
		for _, id := range row {
			width = max(width, len(strconv.Itoa(int(id))))
		}
	}

	cells := 0
	for y, row := range rows {
		if cells+len(row) > maxPreviewCells {
			sb.WriteString(fmt.Sprintf("... %d more rows\n", len(rows)-y))
			break
		}
		for x, id := range row {
			if x > 0 {
				sb.WriteByte(' ')
			}
			cell := "."
			if id != tilemap.Empty {
				cell = strconv.Itoa(int(id))
			}
			sb.WriteString(fmt.Sprintf("%*s", width, cell))
		}
		sb.WriteByte('\n')
		cells += len(row)
	}
	return sb.String()
}

func formatCellUpdate(op string, u *service.CellUpdate) string {
	var sb strings.Builder
	if op == "erase" {
		sb.WriteString(fmt.Sprintf("Erased layer %d (%d,%d), was tile %d", u.Layer, u.X, u.Y, u.Previous))
	} else {
		sb.WriteString(fmt.Sprintf("Painted tile %d at layer %d (%d,%d), was tile %d", u.Tile, u.Layer, u.X, u.Y, u.Previous))
	}
	if u.Clamped {
		sb.WriteString("\nNote: the requested coordinates were outside the layer and were clamped to the nearest edge cell.")
	}
	return sb.String()
}

func formatVisible(result *service.VisibleResult) string {
	sel := result.Selection
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d tile(s) in cols [%d,%d) rows [%d,%d) layers [%d,%d), active layer %d\n",
		result.Count, sel.Min.X, sel.Max.X, sel.Min.Y, sel.Max.Y, sel.MinLayer, sel.MaxLayer, sel.ActiveLayer))
	for _, d := range result.Directives {
		state := "dimmed"
		if d.Tint == tilemap.ActiveTint {
			state = "active"
		}
		sb.WriteString(fmt.Sprintf("- layer %d (%d,%d) tile %d at %.0f,%.0f %s\n",
			d.Layer, d.Col, d.Row, d.Tile, d.Dest.X, d.Dest.Y, state))
	}
	return sb.String()
}

func formatValidation(r *validate.ValidationResult) string {
	var sb strings.Builder
	if r.Valid {
		sb.WriteString("Map is valid\n")
	} else {
		sb.WriteString("Map is invalid\n")
	}
	for _, e := range r.Errors {
		sb.WriteString(fmt.Sprintf("  ERROR: %s\n", e))
	}
	for _, w := range r.Warnings {
		sb.WriteString(fmt.Sprintf("  WARNING: %s\n", w))
	}
	for _, i := range r.Info {
		sb.WriteString(fmt.Sprintf("  %s\n", i))
	}
	return sb.String()
}
