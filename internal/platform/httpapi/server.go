// Package httpapi exposes gemcrush sessions as a JSON API over HTTP.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/gemcrush/internal/config"
	"github.com/vovakirdan/gemcrush/internal/storage"
)

// Options configures the API server.
type Options struct {
	Addr        string
	MaxSessions int           // 0 = unlimited
	SessionTTL  time.Duration // idle sessions are evicted after this long, 0 = never
	Defaults    config.GemcrushConfig
	Store       *storage.Store // optional, records scores of closed sessions
	Logger      *log.Logger
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Addr:        ":8080",
		MaxSessions: 1024,
		SessionTTL:  30 * time.Minute,
		Defaults:    config.DefaultGemcrushConfig(),
	}
}

// Server serves the session API.
type Server struct {
	addr     string
	ttl      time.Duration
	defaults config.GemcrushConfig
	store    *storage.Store
	logger   *log.Logger
	sessions *SessionStore
	router   chi.Router
}

// New creates a server and registers its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Defaults.Board.Width == 0 {
		opts.Defaults = config.DefaultGemcrushConfig()
	}

	s := &Server{
		addr:     opts.Addr,
		ttl:      opts.SessionTTL,
		defaults: opts.Defaults,
		store:    opts.Store,
		logger:   logger.WithPrefix("gemcrush-api"),
		sessions: NewSessionStore(opts.MaxSessions, opts.SessionTTL),
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(chimid.RequestID)
	r.Use(accessLog(s.logger))
	r.Use(chimid.Recoverer)
	r.Use(compress)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(v1 chi.Router) {
		v1.Post("/sessions", s.handleCreate)
		v1.Route("/sessions/{id}", func(sr chi.Router) {
			sr.Get("/", s.handleGet)
			sr.Delete("/", s.handleDelete)
			sr.Post("/moves", s.handleMove)
			sr.Post("/taps", s.handleTap)
			sr.Post("/shuffle", s.handleShuffle)
			sr.Get("/hint", s.handleHint)
		})
		v1.Get("/scores", s.handleScores)
	})
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the live session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Sweep evicts idle sessions, recording their scores.
func (s *Server) Sweep() int {
	evicted := s.sessions.Sweep()
	for _, sess := range evicted {
		sess.mu.Lock()
		s.finish(sess, "idle")
		sess.mu.Unlock()
	}
	return len(evicted)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if s.ttl > 0 {
		go s.sweepLoop(ctx)
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "sessions", s.sessions.Len())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(max(s.ttl/4, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info("evicted idle sessions", "count", n)
			}
		}
	}
}
