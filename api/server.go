package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/tilemap-editor/game/config"
	"github.com/wricardo/tilemap-editor/game/service"
	"github.com/wricardo/tilemap-editor/game/session"
	"github.com/wricardo/tilemap-editor/game/tilemap"
	"github.com/wricardo/tilemap-editor/transport/websocket"
	"github.com/wricardo/tilemap-editor/validate"
)

// maxMapBytes bounds map text accepted in request bodies
const maxMapBytes = 8 << 20

// Server represents the REST API server
type Server struct {
	service service.TilemapService
	hub     *websocket.Hub
	images  tilemap.ImageSizer
	metrics *Metrics
	router  *mux.Router
}

// NewServer creates a new API server. hub and images may be nil; without
// images /api/validate only checks the map text.
func NewServer(svc service.TilemapService, hub *websocket.Hub, images tilemap.ImageSizer) *Server {
	s := &Server{
		service: svc,
		hub:     hub,
		images:  images,
		metrics: NewMetrics(),
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(s.metrics.Middleware)

	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Map text
	api.HandleFunc("/sessions/{id}/map", s.handleExportMap).Methods("GET")
	api.HandleFunc("/sessions/{id}/map", s.handleImportMap).Methods("PUT")
	api.HandleFunc("/sessions/{id}/save", s.handleSave).Methods("POST")

	// Editing
	api.HandleFunc("/sessions/{id}/paint", s.handlePaint).Methods("POST")
	api.HandleFunc("/sessions/{id}/erase", s.handleErase).Methods("POST")
	api.HandleFunc("/sessions/{id}/layers", s.handleAddLayer).Methods("POST")
	api.HandleFunc("/sessions/{id}/layers/{layer:[0-9]+}", s.handleRemoveLayer).Methods("DELETE")

	// Rendering
	api.HandleFunc("/sessions/{id}/visible", s.handleVisible).Methods("GET")

	// Presets
	api.HandleFunc("/presets", s.handleListPresets).Methods("GET")
	api.HandleFunc("/presets", s.handleCreatePreset).Methods("POST")
	api.HandleFunc("/presets/{name}", s.handleGetPreset).Methods("GET")

	api.HandleFunc("/validate", s.handleValidate).Methods("POST")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the mux so callers can mount extra handlers such as /mcp
func (s *Server) Router() *mux.Router {
	return s.router
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors to HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, service.ErrPresetNotFound):
		status = http.StatusNotFound
	case tilemap.IsDecodeError(err),
		errors.Is(err, tilemap.ErrLastLayer),
		errors.Is(err, tilemap.ErrLayerOutOfRange),
		errors.Is(err, tilemap.ErrInvalidDimensions),
		errors.Is(err, config.ErrInvalidPreset):
		status = http.StatusBadRequest
	case errors.Is(err, tilemap.ErrResourceLoad):
		status = http.StatusUnprocessableEntity
	}
	respondError(w, status, err.Error())
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Preset string `json:"preset,omitempty"`
	}

	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	info, err := s.service.CreateSession(r.Context(), req.Preset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	s.metrics.sessionsCreated.Inc()

	log.WithFields(log.Fields{"session": info.ID, "preset": info.Preset}).Info("Session created")
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Map Handlers

func (s *Server) handleExportMap(w http.ResponseWriter, r *http.Request) {
	text, err := s.service.ExportMap(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, text)
}

func (s *Server) handleImportMap(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMapBytes))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "Map text too large")
		return
	}

	info, err := s.service.ImportMap(r.Context(), sessionID, string(body))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastMap(r.Context(), sessionID, info)
	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.SaveSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s saved", sessionID),
	})
}

// Editing Handlers

type editRequest struct {
	Layer *int           `json:"layer,omitempty"`
	X     int            `json:"x"`
	Y     int            `json:"y"`
	Tile  tilemap.TileID `json:"tile"`
}

func (s *Server) handlePaint(w http.ResponseWriter, r *http.Request) {
	s.handleEdit(w, r, "paint", s.service.Paint)
}

func (s *Server) handleErase(w http.ResponseWriter, r *http.Request) {
	s.handleEdit(w, r, "erase", s.service.Erase)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request, op string,
	apply func(context.Context, string, service.PaintRequest) (*service.CellUpdate, error)) {
	sessionID := mux.Vars(r)["id"]

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if op == "paint" && req.Tile == tilemap.Empty {
		respondError(w, http.StatusBadRequest, "tile must be at least 1")
		return
	}

	update, err := apply(r.Context(), sessionID, service.PaintRequest{
		Layer: req.Layer,
		X:     req.X,
		Y:     req.Y,
		Tile:  req.Tile,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	s.metrics.cellEdits.WithLabelValues(op).Inc()

	if s.hub != nil {
		s.hub.BroadcastCell(sessionID, update)
	}

	log.WithFields(log.Fields{
		"session": sessionID,
		"layer":   update.Layer,
		"x":       update.X,
		"y":       update.Y,
		"tile":    update.Tile,
		"clamped": update.Clamped,
	}).Debugf("Cell %s", op)

	respondJSON(w, http.StatusOK, update)
}

func (s *Server) handleAddLayer(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	info, err := s.service.AddLayer(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastMap(r.Context(), sessionID, info)
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleRemoveLayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	layer, err := strconv.Atoi(vars["layer"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid layer")
		return
	}

	info, err := s.service.RemoveLayer(r.Context(), sessionID, layer)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastMap(r.Context(), sessionID, info)
	respondJSON(w, http.StatusOK, info)
}

// broadcastMap pushes the full map after structural changes
func (s *Server) broadcastMap(ctx context.Context, sessionID string, info *service.SessionInfo) {
	if s.hub == nil {
		return
	}
	text, err := s.service.ExportMap(ctx, sessionID)
	if err != nil {
		log.WithField("session", sessionID).Warnf("Failed to export map for broadcast: %v", err)
		return
	}
	s.hub.BroadcastMap(sessionID, text, info)
}

// Rendering Handlers

// handleVisible returns draw directives. Unset bounds default to the
// whole map with the session's selected layer active.
func (s *Server) handleVisible(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	sel := tilemap.Selection{
		Max:         tilemap.Position{X: info.Dimensions.Cols, Y: info.Dimensions.Rows},
		MaxLayer:    info.Dimensions.Layers,
		ActiveLayer: info.SelectedLayer,
	}

	query := r.URL.Query()
	fields := []struct {
		name string
		dst  *int
	}{
		{"min_x", &sel.Min.X},
		{"min_y", &sel.Min.Y},
		{"max_x", &sel.Max.X},
		{"max_y", &sel.Max.Y},
		{"min_layer", &sel.MinLayer},
		{"max_layer", &sel.MaxLayer},
		{"active", &sel.ActiveLayer},
	}
	for _, f := range fields {
		v := query.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %q", f.name, v))
			return
		}
		*f.dst = n
	}

	result, err := s.service.Visible(r.Context(), sessionID, sel)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Preset Handlers

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.service.ListPresets(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, presets)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	preset, err := s.service.LoadPreset(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, preset)
}

func (s *Server) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id,omitempty"`
		service.Preset
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := req.ID
	if id == "" {
		id = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(req.Name), " ", "_"))
	}
	if id == "" {
		respondError(w, http.StatusBadRequest, "Preset id or name is required")
		return
	}

	if err := s.service.SavePreset(r.Context(), id, &req.Preset); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Preset saved successfully",
		"preset_id": id,
	})
}

// Validation Handler

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMapBytes))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "Map text too large")
		return
	}

	respondJSON(w, http.StatusOK, validate.Text(string(body), s.images))
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "WebSocket updates are disabled", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
