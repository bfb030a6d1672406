// Package server exposes the accumulation and fit pipeline over HTTP. It
// serves a single JSON computation endpoint plus health and Prometheus
// metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/formatlab/sacfit/internal/accumulation"
	apperrors "github.com/formatlab/sacfit/internal/errors"
	"github.com/formatlab/sacfit/internal/fit"
	"github.com/formatlab/sacfit/internal/logging"
	"github.com/formatlab/sacfit/internal/report"
)

// maxBodyBytes bounds the accepted request body size.
const maxBodyBytes = 10 << 20

// shutdownTimeout bounds graceful shutdown on context cancellation.
const shutdownTimeout = 10 * time.Second

// Server is the HTTP front end of the curve pipeline.
type Server struct {
	addr    string
	logger  logging.Logger
	metrics *Metrics
	router  chi.Router
}

// New creates a server listening on addr once ListenAndServe is called.
func New(addr string, logger logging.Logger) *Server {
	s := &Server{
		addr:    addr,
		logger:  logger,
		metrics: NewMetrics(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
	r.Post("/api/v1/curve", s.metricsMiddleware(s.handleCurve))
	s.router = r
	return s
}

// Router exposes the configured routes, mainly for httptest servers.
func (s *Server) Router() http.Handler { return s.router }

// ListenAndServe runs the server until the context is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", logging.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// metricsMiddleware tracks in-flight requests, counts, and latencies.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next(ww, r)
		s.metrics.ObserveRequest(r.URL.Path, strconv.Itoa(ww.Status()), time.Since(start).Seconds())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.logger.Warn("method not allowed on metrics", logging.String("method", r.Method))
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// curveRequest is the JSON payload of the computation endpoint.
type curveRequest struct {
	// Sets maps each source name to its labels.
	Sets map[string][]string `json:"sets"`
	// Fit optionally overrides the fit sampling.
	Fit *curveFitOptions `json:"fit,omitempty"`
}

// curveFitOptions mirrors the fit-related CLI flags.
type curveFitOptions struct {
	Min   float64 `json:"min,omitempty"`
	Max   float64 `json:"max,omitempty"`
	Steps int     `json:"steps,omitempty"`
}

// handleCurve computes the accumulation curve and logarithmic fit for the
// posted sets and returns them as JSON.
func (s *Server) handleCurve(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req curveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	sets := make(map[string]accumulation.Set, len(req.Sets))
	for source, labels := range req.Sets {
		sets[source] = accumulation.NewSet(labels...)
	}

	records, err := accumulation.Compute(sets)
	if err != nil {
		writeError(s.logger, w, statusFor(err), err)
		return
	}
	s.metrics.ObserveStage("compute")

	var opts []fit.Option
	if req.Fit != nil {
		if req.Fit.Steps > 0 {
			opts = append(opts, fit.WithSteps(req.Fit.Steps))
		}
		if req.Fit.Min > 0 && req.Fit.Max > 0 {
			opts = append(opts, fit.WithDomain(req.Fit.Min, req.Fit.Max))
		}
	}
	xs, ys := accumulation.Totals(records)
	res, err := fit.Fit(xs, ys, opts...)
	if err != nil {
		writeError(s.logger, w, statusFor(err), err)
		return
	}
	s.metrics.ObserveStage("fit")

	writeJSON(w, http.StatusOK, report.NewCurveJSON(records, res))
}

// statusFor maps pipeline error classes to HTTP statuses: rejected input is a
// client error, fit degeneracy is unprocessable, everything else is internal.
func statusFor(err error) int {
	var inputErr apperrors.InvalidInputError
	var domErr apperrors.DomainError
	var underErr apperrors.UnderdeterminedFitError
	var convErr apperrors.FitConvergenceError
	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.As(err, &domErr), errors.As(err, &underErr), errors.As(err, &convErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(logger logging.Logger, w http.ResponseWriter, status int, err error) {
	logger.Warn("request failed", logging.Int("status", status), logging.Err(err))
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
