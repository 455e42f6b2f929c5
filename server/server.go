/*
Package server provides the HTTP API to preview tabular files, keep them in
a store, grow decision trees from them and use the trees to predict.
*/
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pbanos/sapling/config"
	"github.com/pbanos/sapling/queue"
	"github.com/pbanos/sapling/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

/*
Server handles the HTTP API. Tables are kept on a store.Store and trees are
grown on a queue.Pool so that only a bounded number of them grow at a time.
*/
type Server struct {
	router   chi.Router
	cfg      *config.Config
	store    store.Store
	pool     *queue.Pool
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics
}

/*
New takes a configuration, a store, a worker pool and a logger and returns a
Server with its routes set up. Metrics are registered on a registry of the
server's own, exposed on /metrics.
*/
func New(cfg *config.Config, st store.Store, pool *queue.Pool, logger *slog.Logger) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	s := &Server{
		router:   chi.NewRouter(),
		cfg:      cfg,
		store:    st,
		pool:     pool,
		logger:   logger,
		registry: registry,
		metrics:  newMetrics(registry, pool),
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/preview", s.handlePreview)
	s.router.Post("/api/datasets", s.handleCreateDataset)
	s.router.Get("/api/datasets/{id}", s.handleGetDataset)
	s.router.Delete("/api/datasets/{id}", s.handleDeleteDataset)
	s.router.Post("/api/decision-tree", s.handleDecisionTree)
	s.router.Post("/api/decision-tree/predict", s.handlePredict)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.observeRequest(r.Method, route, ww.Status(), time.Since(start))
		s.logger.Debug("server: request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"dur", time.Since(start),
			"remote", r.RemoteAddr,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

/*
Run takes a context and serves the API on the configured address until the
context is done, then shuts the HTTP server down gracefully. It returns an
error if the server cannot listen or shut down.
*/
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		s.logger.Info("server: listening", "addr", s.cfg.Addr)
		errs <- srv.ListenAndServe()
	}()
	select {
	case err := <-errs:
		return fmt.Errorf("serving HTTP: %v", err)
	case <-ctx.Done():
	}
	s.logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutting down HTTP server: %v", err)
	}
	if err = <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving HTTP: %v", err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		s.logger.Error("server: writing response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("server: request failed", "status", status, "error", err)
	} else {
		s.logger.Warn("server: request failed", "status", status, "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
