// Package server exposes the configurator over a JSON HTTP API.
//
// State lives in a store.Repository. Drag sessions keep an
// interact.Controller in memory between requests and write the final anchor
// back when the session ends.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/platecut/pkg/cache"
	"github.com/matzehuels/platecut/pkg/layout"
	"github.com/matzehuels/platecut/pkg/pipeline"
	"github.com/matzehuels/platecut/pkg/placement"
	"github.com/matzehuels/platecut/pkg/project"
	"github.com/matzehuels/platecut/pkg/store"
)

// DefaultViewport is used by /api/layout and /api/render.svg when the
// request names no size.
var DefaultViewport = layout.Viewport{Width: 1200, Height: 600}

// Server serves the HTTP API.
type Server struct {
	repo       store.Repository
	logger     *log.Logger
	placement  placement.Options
	layout     []layout.Option
	viewport   layout.Viewport
	price      float64
	sessionTTL time.Duration
	cache      cache.Cache
	runner     *pipeline.Runner

	// mu serializes read-modify-write cycles against repo.
	mu       sync.Mutex
	sessions *sessions
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

func WithPlacement(o placement.Options) Option { return func(s *Server) { s.placement = o } }

func WithLayout(opts ...layout.Option) Option { return func(s *Server) { s.layout = opts } }

// WithViewport sets the default viewport for layout and render requests.
func WithViewport(vp layout.Viewport) Option { return func(s *Server) { s.viewport = vp } }

// WithPrice sets the euro price per socket unit for /api/quote.
func WithPrice(perUnit float64) Option { return func(s *Server) { s.price = perUnit } }

// WithSessionTTL sets how long an idle drag session survives.
func WithSessionTTL(d time.Duration) Option { return func(s *Server) { s.sessionTTL = d } }

// WithCache caches rendered SVGs in c. The server does not close it.
func WithCache(c cache.Cache) Option { return func(s *Server) { s.cache = c } }

// New builds a server backed by repo.
func New(repo store.Repository, opts ...Option) *Server {
	s := &Server{
		repo:       repo,
		logger:     log.NewWithOptions(io.Discard, log.Options{}),
		viewport:   DefaultViewport,
		price:      project.PricePerSocket,
		sessionTTL: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions = newSessions(s.sessionTTL)
	s.runner = pipeline.NewRunner(s.cache, s.logger)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/plates", s.handleGetPlates)
		r.Put("/plates", s.handlePutPlates)

		r.Get("/sockets", s.handleListSockets)
		r.Post("/sockets", s.handleAddSocket)
		r.Delete("/sockets/{id}", s.handleDeleteSocket)

		r.Get("/layout", s.handleLayout)
		r.Post("/validate", s.handleValidate)
		r.Get("/quote", s.handleQuote)
		r.Get("/render.svg", s.handleRenderSVG)

		r.Post("/drag", s.handleDragStart)
		r.Post("/drag/{id}/move", s.handleDragMove)
		r.Delete("/drag/{id}", s.handleDragEnd)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// Close ends every open drag session without committing it.
func (s *Server) Close() {
	s.sessions.closeAll()
}
