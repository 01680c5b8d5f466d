// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/cvmatch/internal/app"
	"github.com/okian/cvmatch/internal/domain/document"
	"github.com/okian/cvmatch/internal/domain/matching"
	"github.com/okian/cvmatch/internal/domain/model"
	"github.com/okian/cvmatch/internal/domain/report"
	"github.com/okian/cvmatch/pkg/logger"
)

const defaultMaxUploadBytes = 10 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CVDependencies
	AnalysisDependencies
	CatalogDependencies
}

// CVDependencies runs the synchronous matching pipeline and queues
// asynchronous analyses.
type CVDependencies interface {
	Match(ctx context.Context, filename string, data []byte) (model.MatchReport, error)
	Target(ctx context.Context, filename string, data []byte, q report.Query) (model.TargetReport, error)
	SubmitAnalysis(ctx context.Context, userID, filename string, data []byte) (model.AnalysisRecord, error)
}

// AnalysisDependencies reads stored analyses.
type AnalysisDependencies interface {
	LatestAnalysis(ctx context.Context, userID string) (model.AnalysisRecord, error)
	Analysis(ctx context.Context, id string) (model.AnalysisRecord, error)
}

// CatalogDependencies describes the loaded catalog.
type CatalogDependencies interface {
	CatalogInfo(ctx context.Context) (service.CatalogInfo, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	cvHandler       *CVHandler
	analysisHandler *AnalysisHandler
	catalogHandler  *CatalogHandler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*serverSettings)

type serverSettings struct {
	maxUploadBytes int64
	logger         logger.Logger
}

// WithMaxUploadBytes caps the size of uploaded résumés.
func WithMaxUploadBytes(n int64) ServerOption {
	return func(s *serverSettings) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *serverSettings) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	settings := serverSettings{maxUploadBytes: defaultMaxUploadBytes}
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.logger == nil {
		settings.logger = logger.Get().Named("api")
	}

	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		cvHandler:       NewCVHandler(deps, settings.maxUploadBytes, settings.logger),
		analysisHandler: NewAnalysisHandler(deps, settings.logger),
		catalogHandler:  NewCatalogHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/catalog", MetricsMiddleware(s.catalogHandler.HandleGetCatalog, "catalog"))
	mux.HandleFunc("/cv/inference", MetricsMiddleware(s.cvHandler.HandleInference, "cv_inference"))
	mux.HandleFunc("/cv/target", MetricsMiddleware(s.cvHandler.HandleTarget, "cv_target"))
	mux.HandleFunc("/cv/analyze", MetricsMiddleware(s.cvHandler.HandleAnalyze, "cv_analyze"))
	mux.HandleFunc("/cv/by_user/{user_id}", MetricsMiddleware(s.analysisHandler.HandleByUser, "cv_by_user"))
	mux.HandleFunc("/cv/analysis/{id}", MetricsMiddleware(s.analysisHandler.HandleByID, "cv_analysis"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	noteCode(w, code)
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps pipeline and service errors to a status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, document.ErrUnsupportedFormat):
		return http.StatusBadRequest, "unsupported_format"
	case errors.Is(err, service.ErrExtractionFailed):
		return http.StatusBadRequest, "extraction_failed"
	case errors.Is(err, service.ErrNoSkillsFound):
		return http.StatusBadRequest, "no_skills_found"
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, matching.ErrInvalidQuery), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "payload_too_large"
	case errors.Is(err, matching.ErrPostingNotFound):
		return http.StatusNotFound, "posting_not_found"
	case errors.Is(err, service.ErrAnalysisNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrBackpressure), errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, service.ErrNoCatalog), errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// fail writes err with the status classify picks and logs server errors.
func fail(ctx context.Context, w http.ResponseWriter, l logger.Logger, op string, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		// The cause stays in the log; clients only see the kind.
		l.Error(ctx, "request failed", logger.String("op", op), logger.Error(err))
		writeError(w, status, code, NewKind(op, ErrInternal))
		return
	}
	if status > http.StatusInternalServerError {
		l.Error(ctx, "request failed", logger.String("op", op), logger.Error(err))
	}
	writeError(w, status, code, Wrap(op, err))
}
