// Command tilemap-editor starts the tile-map editor server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing the REST API, WebSocket updates, metrics, and an /mcp endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, data and preset directories, logging, and
// optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/tilemap-editor/api"
	"github.com/wricardo/tilemap-editor/game/config"
	"github.com/wricardo/tilemap-editor/game/service"
	"github.com/wricardo/tilemap-editor/game/session"
	"github.com/wricardo/tilemap-editor/game/tileset"
	"github.com/wricardo/tilemap-editor/internal/logging"
	"github.com/wricardo/tilemap-editor/transport/mcp"
	"github.com/wricardo/tilemap-editor/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Tilemap Editor Server"
)

const (
	sessionMaxAge   = 24 * time.Hour
	cleanupInterval = time.Hour
	syncInterval    = 5 * time.Second
)

// options holds the resolved command line configuration
type options struct {
	host        string
	port        int
	dataDir     string
	presetsDir  string
	assetsDir   string
	debug       bool
	logFile     string
	logJSON     bool
	apiURL      string
	ngrok       bool
	ngrokAuth   string
	ngrokDomain string
}

func (o options) addr() string {
	return fmt.Sprintf("%s:%d", o.host, o.port)
}

// services bundles everything the transports need
type services struct {
	tilemap  service.TilemapService
	sessions *session.Manager
	images   *tileset.Inspector
}

func (s *services) Close() {
	if err := s.sessions.SaveAllSessions(); err != nil {
		log.Warnf("Failed to save sessions on shutdown: %v", err)
	}
	s.images.Close()
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// newCommand builds the CLI. Running without a subcommand starts the HTTP server.
func newCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "HTTP server host",
			Sources: cli.EnvVars("TILEMAP_HOST"),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "HTTP server port",
			Sources: cli.EnvVars("TILEMAP_PORT", "PORT"),
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Value:   "sessions",
			Usage:   "Directory where session maps are persisted",
			Sources: cli.EnvVars("TILEMAP_DATA_DIR"),
		},
		&cli.StringFlag{
			Name:    "presets-dir",
			Value:   "presets",
			Usage:   "Directory containing map presets",
			Sources: cli.EnvVars("TILEMAP_PRESETS_DIR"),
		},
		&cli.StringFlag{
			Name:    "assets-dir",
			Value:   ".",
			Usage:   "Directory tileset paths are resolved against",
			Sources: cli.EnvVars("TILEMAP_ASSETS_DIR"),
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "Enable debug logging",
			Sources: cli.EnvVars("TILEMAP_DEBUG"),
		},
		&cli.StringFlag{
			Name:    "log-file",
			Usage:   "Also write logs to this file, rotated by size",
			Sources: cli.EnvVars("TILEMAP_LOG_FILE"),
		},
		&cli.BoolFlag{
			Name:    "log-json",
			Usage:   "Log JSON lines instead of text",
			Sources: cli.EnvVars("TILEMAP_LOG_JSON"),
		},
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "Enable ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Usage:   "Ngrok auth token",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Usage:   "Custom ngrok domain (optional)",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
		&cli.StringFlag{
			Name:    "api-url",
			Value:   "http://localhost:8080",
			Usage:   "External API server to proxy to when it is reachable",
			Sources: cli.EnvVars("TILEMAP_API_URL"),
		},
	}

	serverCmd := &cli.Command{
		Name:    "server",
		Aliases: []string{"http"},
		Usage:   "Run HTTP server with API, WebSocket, metrics, and MCP endpoint",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, optionsFrom(cmd), runHTTPServer)
		},
	}

	return &cli.Command{
		Name:    "tilemap-editor",
		Usage:   AppName,
		Version: Version,
		Flags:   flags,
		Commands: []*cli.Command{
			serverCmd,
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return run(ctx, optionsFrom(cmd), runStdioMCP)
				},
			},
		},
		Action: serverCmd.Action,
	}
}

func optionsFrom(cmd *cli.Command) options {
	return options{
		host:        cmd.String("host"),
		port:        int(cmd.Int("port")),
		dataDir:     cmd.String("data-dir"),
		presetsDir:  cmd.String("presets-dir"),
		assetsDir:   cmd.String("assets-dir"),
		debug:       cmd.Bool("debug"),
		logFile:     cmd.String("log-file"),
		logJSON:     cmd.Bool("log-json"),
		apiURL:      cmd.String("api-url"),
		ngrok:       cmd.Bool("ngrok"),
		ngrokAuth:   cmd.String("ngrok-auth"),
		ngrokDomain: cmd.String("ngrok-domain"),
	}
}

// run sets up logging and services, then hands over to the selected mode
func run(ctx context.Context, opts options, mode func(context.Context, options, *services) error) error {
	// stdout carries the MCP protocol in stdio mode
	closer, err := logging.Setup(logging.Options{
		Debug:  opts.debug,
		File:   opts.logFile,
		JSON:   opts.logJSON,
		Output: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closer.Close()

	log.Infof("Starting %s v%s", AppName, Version)

	svcs, err := initializeServices(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svcs.Close()

	return mode(ctx, opts, svcs)
}

// initializeServices wires the preset and session managers into the tilemap service.
// It also starts background routines that prune stale sessions.
func initializeServices(ctx context.Context, opts options) (*services, error) {
	if err := os.MkdirAll(opts.presetsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create presets directory: %w", err)
	}

	images, err := tileset.NewInspector(opts.assetsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create tileset inspector: %w", err)
	}

	presets, err := config.NewManager(opts.presetsDir)
	if err != nil {
		images.Close()
		return nil, fmt.Errorf("failed to create preset manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(opts.dataDir, images)
	if err != nil {
		images.Close()
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessions := session.NewManagerWithPersistence(persistence)
	if err := sessions.LoadPersistedSessions(); err != nil {
		log.Warnf("Failed to load persisted sessions: %v", err)
	}

	go sessionCleanupRoutine(ctx, sessions)
	go filesystemSyncRoutine(ctx, sessions, persistence)

	return &services{
		tilemap:  service.NewTilemapService(sessions, presets, images),
		sessions: sessions,
		images:   images,
	}, nil
}

// newHandler combines the REST API with the MCP endpoint
func newHandler(ctx context.Context, svcs *services, baseURL string) http.Handler {
	hub := websocket.NewHub()
	go hub.Run(ctx)

	apiServer := api.NewServer(svcs.tilemap, hub, svcs.images)
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.Handle("/mcp", server.NewStreamableHTTPServer(mcpClient.GetMCPServer()))
	return mainRouter
}

// runHTTPServer serves the API until ctx is cancelled. If ngrok is enabled
// it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, opts options, svcs *services) error {
	addr := opts.addr()
	handler := newHandler(ctx, svcs, "http://"+addr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Infof("HTTP server listening on %s", addr)
		log.Infof("REST API: http://%s/api", addr)
		log.Infof("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Infof("Metrics: http://%s/metrics", addr)
		log.Infof("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if opts.ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveNgrok(ctx, opts, handler)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down...")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Info("Server stopped")
	return runErr
}

func serveNgrok(ctx context.Context, opts options, handler http.Handler) {
	if opts.ngrokAuth == "" {
		log.Warn("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Info("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if opts.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.ngrokDomain))
		log.Infof("Using custom ngrok domain: %s", opts.ngrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.ngrokAuth))
	if err != nil {
		log.Errorf("Failed to start ngrok tunnel: %v", err)
		return
	}

	ngrokURL := tun.URL()
	log.Infof("Ngrok tunnel established: %s", ngrokURL)
	log.Infof("  REST API (ngrok): %s/api", ngrokURL)
	log.Infof("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Errorf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		log.Errorf("Ngrok server error: %v", err)
	}
	log.Info("Ngrok tunnel closed")
}

// sessionCleanupRoutine periodically drops sessions from memory that have
// not been accessed within sessionMaxAge. Their files stay on disk.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				log.Infof("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// filesystemSyncRoutine removes sessions from memory when their map file is deleted
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence) {
	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruneOrphans(manager, persistence)
		}
	}
}

func pruneOrphans(manager *session.Manager, persistence session.SessionPersistence) int {
	pruned := 0
	for _, s := range manager.List() {
		if persistence.Exists(s.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(s.ID); err == nil {
			pruned++
			log.WithField("session", s.ID).Info("Pruned session from memory (file deleted)")
		}
	}
	return pruned
}

// runStdioMCP runs an MCP stdio server. It reuses the external API at
// opts.apiURL when reachable; otherwise it starts an internal HTTP API on
// a random loopback port and targets that.
func runStdioMCP(ctx context.Context, opts options, svcs *services) error {
	baseURL := opts.apiURL
	log.Infof("Checking for external API server at %s...", baseURL)

	if !apiReachable(ctx, baseURL) {
		log.Info("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()

		httpServer := &http.Server{Handler: newHandler(ctx, svcs, baseURL)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Errorf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		log.Infof("Internal HTTP server on %s", baseURL)
	} else {
		log.Infof("External API server found at %s, using it for MCP", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info("MCP stdio server ready")

	stdio := server.NewStdioServer(mcpClient.GetMCPServer())
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

func apiReachable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}
