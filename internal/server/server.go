// Package server exposes visibility queries over HTTP and WebSocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"chosenoffset.com/sightline/internal/config"
	"chosenoffset.com/sightline/internal/world/scene"
)

// Server serves the visibility API
type Server struct {
	cfg      config.ServerConfig
	scenes   map[string]*scene.Scene
	logger   *slog.Logger
	router   *mux.Router
	server   *http.Server
	upgrader websocket.Upgrader
}

// New creates a server for the given scenes. A nil logger uses slog.Default.
func New(cfg config.ServerConfig, scenes map[string]*scene.Scene, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if scenes == nil {
		scenes = map[string]*scene.Scene{}
	}

	s := &Server{
		cfg:    cfg,
		scenes: scenes,
		logger: logger,
		router: mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.routes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout.Std(),
		WriteTimeout: cfg.WriteTimeout.Std(),
		IdleTimeout:  cfg.IdleTimeout.Std(),
	}
	return s
}

func (s *Server) routes() {
	s.router.Use(s.requestID, s.accessLog)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	// Routes stay on the root router: a subrouter reports a method
	// mismatch as not found.
	s.router.HandleFunc("/v1/visibility", s.handleVisibility).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/segments", s.handleSegments).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/contains", s.handleContains).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/scenes", s.handleScenes).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/scenes/{name}", s.handleScene).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/scenes/{name}/visibility", s.handleSceneVisibility).Methods(http.MethodGet)

	s.router.HandleFunc("/ws/visibility", s.handleStream)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", "addr", s.cfg.Addr, "scenes", len(s.scenes))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
