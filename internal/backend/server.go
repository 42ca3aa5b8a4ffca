package backend

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/lbdash/internal/logger"
)

// DefaultShutdownTimeout bounds graceful shutdown of the HTTP server.
const DefaultShutdownTimeout = 5 * time.Second

// Options configures the demo status server.
type Options struct {
	// Addr is the listen address used by Run.
	Addr string
	// FailRate is the fraction of status requests answered with 503.
	FailRate float64
	// DriftInterval is how often server metrics move. Zero freezes them.
	DriftInterval time.Duration
	// CORSOrigins enables CORS for the listed origins when non-empty.
	CORSOrigins []string
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
	// Version is reported in the OpenAPI document.
	Version string
	Logger  logger.Logger
}

// Server serves the load balancer status API over a Pool.
type Server struct {
	pool *Pool
	opts Options
	log  logger.Logger
}

// New creates a server over pool.
func New(pool *Pool, opts Options) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	return &Server{pool: pool, opts: opts, log: log}
}

// Handler builds the HTTP handler with routing, CORS and the API operations.
func (s *Server) Handler() http.Handler {
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Recoverer)

	if len(s.opts.CORSOrigins) > 0 {
		s.applyCORS(mux)
	}

	api := humachi.New(mux, huma.DefaultConfig("lbdash backend", s.opts.Version))
	RegisterRoutes(api, s.pool, s.shouldFail, s.log)

	return mux
}

// Run listens on Options.Addr and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln and drifts the pool until ctx is canceled, then shuts
// down gracefully. A clean shutdown returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("serving status API on %s (%d servers)", ln.Addr(), s.pool.Len())
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return s.pool.Run(gctx, s.opts.DriftInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		s.log.Info("shutting down status API")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// shouldFail decides whether a status request gets an injected failure.
func (s *Server) shouldFail() bool {
	return s.pool.chance(s.opts.FailRate)
}

// applyCORS installs the CORS middleware for the configured origins.
func (s *Server) applyCORS(mux *chi.Mux) {
	s.log.Info("enabling CORS for origins %v", s.opts.CORSOrigins)

	opts := cors.Options{
		AllowedOrigins: make([]string, 0, len(s.opts.CORSOrigins)),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}

	for _, origin := range s.opts.CORSOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			opts.AllowedOrigins = []string{"*"}
			break
		}
		opts.AllowedOrigins = append(opts.AllowedOrigins, origin)
	}

	mux.Use(cors.Handler(opts))
}
