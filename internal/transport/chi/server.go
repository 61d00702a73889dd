// Package chi exposes the matching engine over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/natelgrw/peak-prophet/internal/domain"
	"github.com/natelgrw/peak-prophet/internal/domain/match"
	"github.com/natelgrw/peak-prophet/internal/repository/run"
	"github.com/natelgrw/peak-prophet/internal/usecase/assign"
	healthuc "github.com/natelgrw/peak-prophet/internal/usecase/health"
)

// RunRepo is the consumer interface for run persistence. nil disables it.
type RunRepo interface {
	Save(ctx context.Context, id string, res *match.Result) error
	Get(ctx context.Context, id string) (*match.Result, error)
	List(ctx context.Context) ([]run.Summary, error)
	Delete(ctx context.Context, id string) error
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API: one matching endpoint plus the stored-run surface.
type Server struct {
	defaults      match.Params
	strategy      assign.Strategy
	workers       int
	maxRecords    int
	runs          RunRepo
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the API server. defaults come from configuration and are
// overridable per request.
func NewServer(
	defaults match.Params,
	strategy assign.Strategy,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		defaults: defaults,
		strategy: strategy,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrRunNotFound, http.StatusNotFound, "run_not_found"),
		sentinelHandler(domain.ErrInvalidConfig, http.StatusBadRequest, "invalid_params"),
		sentinelHandler(domain.ErrMalformedSpectrum, http.StatusBadRequest, "malformed_spectrum"),
		sentinelHandler(domain.ErrUnknownStrategy, http.StatusBadRequest, "unknown_strategy"),
	}
	return s
}

// WithRuns connects run persistence.
func (s *Server) WithRuns(repo RunRepo) *Server {
	s.runs = repo
	return s
}

// WithWorkers overrides matrix-build parallelism.
func (s *Server) WithWorkers(n int) *Server {
	s.workers = n
	return s
}

// WithMaxRecords caps the per-side record count of one request. 0 = no cap.
func (s *Server) WithMaxRecords(n int) *Server {
	s.maxRecords = n
	return s
}

// Router mounts all routes. Cross-cutting middleware is the caller's concern.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/v1/match", s.Match)
	r.Get("/v1/runs", s.ListRuns)
	r.Get("/v1/runs/{id}", s.GetRun)
	r.Delete("/v1/runs/{id}", s.DeleteRun)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	return r
}

// Match handles POST /v1/match.
func (s *Server) Match(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	if s.maxRecords > 0 && (len(req.Predicted) > s.maxRecords || len(req.Observed) > s.maxRecords) {
		writeError(w, http.StatusBadRequest, "validation_failed",
			fmt.Sprintf("record count per side must not exceed %d", s.maxRecords))
		return
	}

	params, err := paramsFromDTO(s.defaults, req.Params)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_params", err.Error())
		return
	}

	strategy := s.strategy
	if req.Strategy != "" {
		strategy, err = assign.ForName(req.Strategy)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
	}

	res, err := s.runMatch(req, strategy, params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	runID := ""
	if s.runs != nil {
		runID = uuid.NewString()
		if err := s.runs.Save(r.Context(), runID, res); err != nil {
			// The result itself is still valid; report it without a run ID.
			s.logger.Warn("failed to persist run", zap.Error(err))
			runID = ""
		}
	}

	writeJSON(w, http.StatusOK, resultToResponse(runID, res))
}

func (s *Server) runMatch(
	req matchRequest, strategy assign.Strategy, params match.Params,
) (*match.Result, error) {
	svc := assign.New(strategy)
	if s.workers > 0 {
		svc = svc.WithWorkers(s.workers)
	}
	return svc.Match(predictedRecords(req.Predicted), observedRecords(req.Observed), params)
}

// ListRuns handles GET /v1/runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, http.StatusNotFound, "runs_disabled", "run persistence is not configured")
		return
	}

	summaries, err := s.runs.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": summaries})
}

// GetRun handles GET /v1/runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, http.StatusNotFound, "runs_disabled", "run persistence is not configured")
		return
	}

	id := chi.URLParam(r, "id")
	res, err := s.runs.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultToResponse(id, res))
}

// DeleteRun handles DELETE /v1/runs/{id}.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, http.StatusNotFound, "runs_disabled", "run persistence is not configured")
		return
	}

	if err := s.runs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrRunNotFound,
		domain.ErrInvalidConfig,
		domain.ErrMalformedSpectrum,
		domain.ErrUnknownStrategy,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
