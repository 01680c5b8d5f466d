package api

import (
	"net/http"
	"strings"

	"github.com/okian/cvmatch/pkg/logger"
)

// AnalysisHandler handles reads of asynchronous analyses.
type AnalysisHandler struct {
	deps   AnalysisDependencies
	logger logger.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(deps AnalysisDependencies, l logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{deps: deps, logger: l}
}

// HandleByUser handles GET /cv/by_user/{user_id} requests.
func (h *AnalysisHandler) HandleByUser(w http.ResponseWriter, r *http.Request) {
	const op = "api.cv_by_user"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID := strings.TrimSpace(r.PathValue("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	rec, err := h.deps.LatestAnalysis(r.Context(), userID)
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleByID handles GET /cv/analysis/{id} requests.
func (h *AnalysisHandler) HandleByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.cv_analysis"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	rec, err := h.deps.Analysis(r.Context(), id)
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
