// Package server exposes query compilation over HTTP.
//
// The catalog is loaded from a schema file when the server starts and,
// with watching enabled, reloaded whenever that file changes. Clients post
// requests in the same YAML (or JSON) layout the compile command reads; they
// cannot name a schema file of their own.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/querygraph/pkg/query"
	"github.com/leapstack-labs/querygraph/pkg/schema"
	"golang.org/x/sync/errgroup"
)

// Server is the compile service.
type Server struct {
	cfg    Config
	logger *slog.Logger

	mu  sync.RWMutex
	cat *schema.Catalog
}

// Config holds configuration for the compile service.
type Config struct {
	Listen     string
	SchemaPath string
	// Dialect is used when a request names none.
	Dialect         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRequestBytes int64
	// Watch reloads the catalog when the schema file changes.
	Watch   bool
	Options []query.Option
	Logger  *slog.Logger
}

// New creates a server and loads its catalog.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.MaxRequestBytes <= 0 {
		cfg.MaxRequestBytes = 1 << 20
	}
	s := &Server{cfg: cfg, logger: cfg.Logger}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) reload() error {
	cat, err := schema.Load(s.cfg.SchemaPath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cat = cat
	s.mu.Unlock()
	s.logger.Info("catalog loaded", "path", s.cfg.SchemaPath, "tables", len(cat.Names()))
	return nil
}

func (s *Server) catalog() *schema.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cat
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		s.logRequests,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	r.Get("/healthz", s.health)
	r.Get("/dialects", s.dialects)
	r.Get("/tables", s.tables)
	r.Post("/compile", s.compile)
	r.Post("/explain", s.explain)
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Listen, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until the context is cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting compile server", "addr", ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	if s.cfg.Watch {
		eg.Go(func() error {
			return s.watchSchema(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down compile server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watchSchema reloads the catalog when the schema file changes. A file that
// fails to load leaves the previous catalog in place.
func (s *Server) watchSchema(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	path, err := filepath.Abs(s.cfg.SchemaPath)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		s.logger.Error("failed to watch schema", "path", path, "error", err)
		return nil
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, func() {
				if err := s.reload(); err != nil {
					s.logger.Error("catalog reload failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// logRequests logs each request once it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
