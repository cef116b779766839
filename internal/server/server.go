//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pupkingeorgij/artmarket/internal/storage"
)

type ExecutorService interface {
	GetExecutor(ctx context.Context, id string) (*storage.ExecutorOut, error)
	ListExecutors(ctx context.Context, limit int) (*storage.ExecutorsListOut, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

type Options struct {
	// StaticDir is served under /image/. Empty disables the mount.
	StaticDir string
	Logger    *zap.Logger
	// Audit is optional; without it requests are not audited.
	Audit *AuditManager
}

type Server struct {
	executors ExecutorService
	health    HealthChecker
	renderer  Renderer
	staticDir string
	logger    *zap.Logger
	audit     *AuditManager
	server    *http.Server
}

func New(executors ExecutorService, health HealthChecker, renderer Renderer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		executors: executors,
		health:    health,
		renderer:  renderer,
		staticDir: opts.StaticDir,
		logger:    logger,
		audit:     opts.Audit,
	}
	s.server = &http.Server{
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Run blocks until the listener fails or Shutdown is called.
func (s *Server) Run(ctx context.Context, port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", port, err)
	}
	return s.Serve(ctx, lis)
}

// Serve handles requests on lis. Request contexts carry the values of ctx but
// not its cancellation: in-flight requests are only stopped by Shutdown.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	base := context.WithoutCancel(ctx)
	s.server.BaseContext = func(net.Listener) context.Context {
		return base
	}

	if s.audit != nil {
		s.audit.Start()
	}

	s.logger.Info("http server starting", zap.String("addr", lis.Addr().String()))
	if err := s.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and then drains
// the audit pipeline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("http server shutdown completed")

	if s.audit != nil {
		s.audit.Shutdown(ctx)
	}
	return nil
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.Use(s.recoveryMiddleware)
	r.Use(s.loggingMiddleware)
	if s.audit != nil {
		r.Use(s.auditLogMiddleware)
	}

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet).Name("index")
	r.HandleFunc("/api/artist", s.handleGetArtist).Methods(http.MethodGet).Name("get_artist")
	r.HandleFunc("/api/ten_artist", s.handleListArtists).Methods(http.MethodGet).Name("ten_artist")
	r.HandleFunc("/mini_aps_artist", s.handleMiniArtistPage).Methods(http.MethodGet).Name("mini_aps_artist")
	r.HandleFunc("/artist", s.handleArtistPage).Methods(http.MethodGet).Name("artist")

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet).Name("health")
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet).Name("metrics")

	if s.staticDir != "" {
		r.PathPrefix("/image/").
			Handler(http.StripPrefix("/image/", http.FileServer(http.Dir(s.staticDir)))).
			Methods(http.MethodGet).
			Name("image")
	}

	return r
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
