package api

import (
	"net/http"

	"github.com/okian/cvmatch/internal/domain/report"
	"github.com/okian/cvmatch/pkg/logger"
)

// CVHandler handles résumé uploads.
type CVHandler struct {
	deps           CVDependencies
	maxUploadBytes int64
	logger         logger.Logger
}

// NewCVHandler creates a new CV handler.
func NewCVHandler(deps CVDependencies, maxUploadBytes int64, l logger.Logger) *CVHandler {
	return &CVHandler{deps: deps, maxUploadBytes: maxUploadBytes, logger: l}
}

type analyzeResponse struct {
	Message    string `json:"message"`
	Filename   string `json:"filename"`
	AnalysisID string `json:"analysis_id"`
}

// HandleInference handles POST /cv/inference requests.
func (h *CVHandler) HandleInference(w http.ResponseWriter, r *http.Request) {
	const op = "api.cv_inference"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := parseForm(w, r, h.maxUploadBytes); err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	u, err := readUpload(r)
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}

	rep, err := h.deps.Match(r.Context(), u.Filename, u.Data)
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandleTarget handles POST /cv/target requests.
func (h *CVHandler) HandleTarget(w http.ResponseWriter, r *http.Request) {
	const op = "api.cv_target"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := parseForm(w, r, h.maxUploadBytes); err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	form := targetForm{
		JobTitle:    formValue(r, "job_title"),
		Governorate: formValue(r, "governorate"),
		Level:       formValue(r, "level"),
	}
	if err := check(form); err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	u, err := readUpload(r)
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}

	q := report.Query{Title: form.JobTitle, Region: form.Governorate, Level: form.Level}
	rep, err := h.deps.Target(r.Context(), u.Filename, u.Data, q)
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandleAnalyze handles POST /cv/analyze requests. The analysis runs in
// the background; its result is read from /cv/analysis/{id} or
// /cv/by_user/{user_id}.
func (h *CVHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.cv_analyze"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := parseForm(w, r, h.maxUploadBytes); err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	form := analyzeForm{UserID: formValue(r, "user_id")}
	if err := check(form); err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	u, err := readUpload(r)
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}

	rec, err := h.deps.SubmitAnalysis(r.Context(), form.UserID, u.Filename, u.Data)
	if err != nil {
		fail(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, analyzeResponse{
		Message:    "CV uploaded, analysis started",
		Filename:   rec.CVFilename,
		AnalysisID: rec.ID,
	})
}
