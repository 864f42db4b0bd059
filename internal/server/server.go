package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"subcue/internal/api"
	"subcue/internal/config"
	"subcue/internal/logging"
)

// ErrAlreadyRunning is returned when another server holds the data directory lock.
var ErrAlreadyRunning = errors.New("another subcue server is already running")

// Server serves the HTTP API.
type Server struct {
	bind     string
	token    string
	maxBytes int64
	svc      *api.TrackService
	logger   *slog.Logger

	lockPath string
	lock     *flock.Flock

	running  atomic.Bool
	listener net.Listener
	server   *http.Server
}

// New constructs a Server around the tracks service.
func New(cfg *config.Config, svc *api.TrackService, logger *slog.Logger) (*Server, error) {
	if cfg == nil || svc == nil {
		return nil, errors.New("server requires config and tracks service")
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("api_bind is not configured")
	}
	s := &Server{
		bind:     bind,
		token:    cfg.Paths.APIToken,
		maxBytes: cfg.Fetch.MaxBytes,
		svc:      svc,
		logger:   logging.NewComponentLogger(logger, "server"),
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler with request ID and auth middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/parse", s.authorize(s.handleParse))
	mux.HandleFunc("GET /api/tracks", s.authorize(s.handleListTracks))
	mux.HandleFunc("POST /api/tracks", s.authorize(s.handleImportTrack))
	mux.HandleFunc("GET /api/tracks/{id}", s.authorize(s.handleDescribeTrack))
	mux.HandleFunc("GET /api/tracks/{id}/cues", s.authorize(s.handleTrackCues))
	mux.HandleFunc("DELETE /api/tracks/{id}", s.authorize(s.handleRemoveTrack))
	mux.HandleFunc("POST /api/quiz", s.authorize(s.handleQuiz))
	mux.HandleFunc("POST /api/quiz/check", s.authorize(s.handleQuizCheck))
	return requestIDMiddleware(s.logger, mux)
}

// Start acquires the data directory lock and begins serving. The server
// shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return errors.New("server already running")
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		_ = s.lock.Unlock()
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.running.Store(true)

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.String("lock", s.lockPath),
		logging.Bool("auth", s.token != ""),
	)
	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down and releases the lock.
func (s *Server) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("api server shutdown incomplete", logging.Error(err))
	}
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("failed to release server lock", logging.Error(err))
	}
	s.logger.Info("api server stopped")
}

// Run starts the server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}
