// Package server hosts the documentation shell over HTTP: it matches URLs
// against the route table, drives the lazy loader, renders the layout shell
// around the active route, and pushes reload and toast events to connected
// browsers over WebSocket.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/docshell/internal/catalog"
	"github.com/conneroisu/docshell/internal/config"
	"github.com/conneroisu/docshell/internal/loader"
	"github.com/conneroisu/docshell/internal/logging"
	"github.com/conneroisu/docshell/internal/routes"
	"github.com/conneroisu/docshell/internal/shell"
	"github.com/conneroisu/docshell/internal/watcher"
)

const watchDebounce = 300 * time.Millisecond

// DocServer serves the documentation catalog with lazy-loaded content and
// live reload.
type DocServer struct {
	config   *config.Config
	logger   logging.Logger
	catalog  *catalog.Catalog
	table    *routes.Table
	registry *loader.Registry
	renderer *shell.Renderer
	nav      *shell.NavState
	scroll   *shell.ScrollCoordinator
	notifier *Notifier
	watcher  *watcher.FileWatcher

	httpServer  *http.Server
	serverMutex sync.RWMutex

	clients      map[*websocket.Conn]*client
	clientsMutex sync.RWMutex
	broadcast    chan []byte
	register     chan *client
	unregister   chan *websocket.Conn

	shutdownOnce sync.Once
}

// New wires the catalog, route table, loader, shell, and watcher into a
// ready-to-start server.
func New(cfg *config.Config, logger logging.Logger) (*DocServer, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	table, err := routes.Build(cat)
	if err != nil {
		return nil, fmt.Errorf("build route table: %w", err)
	}

	renderer, err := shell.NewRenderer(cat)
	if err != nil {
		return nil, err
	}

	fetcher := loader.NewDiskFetcher(cfg.Content.Dir)
	registry := loader.NewRegistry(fetcher.Fetch, logger)

	s := &DocServer{
		config:     cfg,
		logger:     logger.WithComponent("server"),
		catalog:    cat,
		table:      table,
		registry:   registry,
		renderer:   renderer,
		nav:        shell.NewNavState(),
		scroll:     shell.NewScrollCoordinator(),
		clients:    make(map[*websocket.Conn]*client),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *websocket.Conn),
	}
	s.notifier = NewNotifier(s, cfg.Development.Toasts)
	registry.OnFailure(func(slug string, err error) {
		s.notifier.Enqueue(fmt.Sprintf("Couldn't load %s", slug), Options{Level: "error", Sticky: true})
	})

	if cfg.Development.HotReload {
		fw, err := watcher.NewFileWatcher(watchDebounce, logger)
		if err != nil {
			return nil, fmt.Errorf("create file watcher: %w", err)
		}
		fw.AddFilter(watcher.ContentFilter)
		fw.AddHandler(s.handleContentChanges)
		s.watcher = fw
	}

	return s, nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Content.Catalog != "" {
		return catalog.LoadManifest(cfg.Content.Catalog)
	}
	return catalog.Default(), nil
}

// Catalog exposes the catalog the server was built from.
func (s *DocServer) Catalog() *catalog.Catalog {
	return s.catalog
}

// Table exposes the route table, primarily for the routes command and tests.
func (s *DocServer) Table() *routes.Table {
	return s.table
}

// Handler builds the HTTP handler with all routes and middleware attached.
func (s *DocServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/static/", s.handleStatic)
	mux.HandleFunc("/api/routes", s.handleAPIRoutes)
	mux.HandleFunc("/api/content/", s.handleAPIContent)
	mux.HandleFunc("/api/nav/toggle", s.handleNavToggle)
	mux.HandleFunc("/", s.handleRoute)
	return s.withMiddleware(mux)
}

// Start runs the server until ctx is canceled or the listener fails.
func (s *DocServer) Start(ctx context.Context) error {
	if s.watcher != nil {
		if err := s.watcher.AddRecursive(s.config.Content.Dir); err != nil {
			s.logger.Warn(ctx, err, "content directory not watchable",
				"dir", s.config.Content.Dir)
		} else {
			s.watcher.Start(ctx)
		}
	}

	go s.runHub(ctx)

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.serverMutex.Unlock()

	s.logger.Info(ctx, "server listening", "addr", s.config.Addr())

	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the HTTP server and closes every WebSocket client.
func (s *DocServer) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.watcher != nil {
			if stopErr := s.watcher.Stop(); stopErr != nil {
				s.logger.Warn(ctx, stopErr, "watcher stop failed")
			}
		}

		s.clientsMutex.Lock()
		for conn := range s.clients {
			conn.Close(websocket.StatusGoingAway, "server shutting down")
		}
		s.clients = make(map[*websocket.Conn]*client)
		s.clientsMutex.Unlock()

		s.serverMutex.RLock()
		srv := s.httpServer
		s.serverMutex.RUnlock()
		if srv != nil {
			err = srv.Shutdown(ctx)
		}
	})
	return err
}

// handleContentChanges invalidates the handles for changed fragments and
// tells connected clients to reload. Invalidation is the explicit remount
// path: handles themselves never return to pending.
func (s *DocServer) handleContentChanges(events []watcher.ChangeEvent) {
	ctx := context.Background()

	changed := make(map[string]bool)
	fetcher := loader.NewDiskFetcher(s.config.Content.Dir)
	for _, slug := range s.table.Slugs() {
		path, err := fetcher.Path(slug)
		if err != nil {
			continue
		}
		for _, event := range events {
			if samePath(path, event.Path) {
				changed[slug] = true
			}
		}
	}

	for slug := range changed {
		if s.registry.Invalidate(slug) {
			s.logger.Info(ctx, "content module invalidated", "slug", slug)
		}
		s.broadcastEvent(ctx, event{Type: "reload", Slug: slug})
	}

	if len(changed) > 0 {
		s.notifier.Enqueue("Content updated, reloading", Options{Level: "info"})
	}
}
