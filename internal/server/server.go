// Package server exposes the model, grid estimator and project store over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rgehrsitz/pvfin/internal/calculation"
	"github.com/rgehrsitz/pvfin/internal/store"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

// Options tunes a Server.
type Options struct {
	// SweepWorkers bounds concurrent cells in a sensitivity sweep.
	SweepWorkers int
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
	// HeavyRate caps sweep, break-even and compare requests per second
	// across all clients. Zero disables the cap.
	HeavyRate  float64
	HeavyBurst int
}

// Server serves the JSON API.
type Server struct {
	engine  *calculation.CalculationEngine
	store   store.Store
	log     *zap.Logger
	opts    Options
	limiter *rate.Limiter
	handler http.Handler
}

// New builds a server. A nil engine or logger is replaced by a default.
func New(engine *calculation.CalculationEngine, st store.Store, log *zap.Logger, opts Options) *Server {
	if engine == nil {
		engine = calculation.NewCalculationEngine()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	s := &Server{engine: engine, store: st, log: log, opts: opts}
	if opts.HeavyRate > 0 {
		burst := opts.HeavyBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.HeavyRate), burst)
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{runIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/model", s.handleModel)
		r.Post("/grid-cost", s.handleGridCost)
		r.With(s.throttle).Post("/sensitivity", s.handleSensitivity)
		r.With(s.throttle).Post("/breakeven", s.handleBreakEven)
		r.With(s.throttle).Post("/compare", s.handleCompare)
		r.Get("/sources", s.handleSources)

		r.Route("/projects", func(r chi.Router) {
			r.Use(s.requireStore)
			r.Get("/", s.handleListProjects)
			r.Post("/", s.handleCreateProject)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetProject)
				r.Put("/", s.handleUpdateProject)
				r.Delete("/", s.handleDeleteProject)
				r.Post("/duplicate", s.handleDuplicateProject)
				r.Post("/run", s.handleRunProject)
			})
		})
	})
	return r
}

// requestLogger logs each request once it completes.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// throttle rejects multi-run requests beyond the configured rate.
func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			s.log.Warn("request throttled", zap.String("path", r.URL.Path))
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, errors.New("too many analysis requests, retry shortly"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.store == nil {
			writeError(w, http.StatusServiceUnavailable, errors.New("project store is not configured"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return eris.Wrapf(err, "server: listen on %s", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("api server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "server: shutdown")
		}
		return nil
	}
}
