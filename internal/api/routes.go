package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/openlend/reportengine/internal/common"
	"github.com/openlend/reportengine/internal/projection"
)

// Router builds the chi router for the report engine's HTTP surface:
// health, swagger UI, and the versioned report endpoints behind the API
// key middleware. The report endpoints are mounted under contextPath,
// normalized the way the donor's cmd/<service>/main.go mounts its own
// protected API subrouter under cfg.Server.ContextPath.
func Router(h *Handler, apiKey string, contextPath string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(WithCorrelationID)

	r.Get("/health", h.Health)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	apiRouter := chi.NewRouter()
	apiRouter.Use(RequireAPIKey(apiKey))
	apiRouter.Post("/{reportID}/project", h.ProjectReport)
	apiRouter.Get("/{reportID}/{objectID}", h.GetReport)

	base := strings.TrimSuffix(common.NormalizeBasePath(contextPath), "/") + "/v1/reports"
	r.Mount(base, apiRouter)

	return r
}

// Health reports service liveness, matching the donor's exact response body.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"UP"}`))
}

type projectRequest struct {
	EnvelopeID string `json:"envelopeId"`
	Version    int    `json:"version"`
}

type projectResponse struct {
	ReportID string             `json:"reportId"`
	Location string             `json:"location"`
	Document projection.Document `json:"document"`
}

// ProjectReport loads the named envelope, dedupes co-borrower addresses,
// loads the reportID's rule set, projects the data, and persists the
// result, returning its storage location.
func (h *Handler) ProjectReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")
	correlationID := CorrelationID(r)

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.NewErrBadRequest("malformed request body: "+err.Error()), correlationID)
		return
	}
	if req.EnvelopeID == "" {
		writeError(w, common.NewErrBadRequest("envelopeId is required"), correlationID)
		return
	}

	envelope, err := h.Envelopes.Get(r.Context(), req.EnvelopeID)
	if err != nil {
		writeError(w, err, correlationID)
		return
	}
	envelope = h.Dedupe(envelope)

	rules, err := h.Rules.Load(r.Context(), reportID, req.Version)
	if err != nil {
		writeError(w, err, correlationID)
		return
	}

	projected, err := projection.Project(envelope, rules)
	if err != nil {
		writeError(w, common.NewErrBadRequest("projection failed: "+err.Error()), correlationID)
		return
	}

	objectKey, err := h.Reports.Put(r.Context(), reportID, projected)
	if err != nil {
		writeError(w, err, correlationID)
		return
	}

	writeJSON(w, http.StatusOK, projectResponse{
		ReportID: reportID,
		Location: h.Reports.Location(objectKey),
		Document: projected,
	})
}

// GetReport fetches a previously stored projected document.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")
	objectID := chi.URLParam(r, "objectID")
	correlationID := CorrelationID(r)

	doc, err := h.Reports.Get(r.Context(), reportID, objectID)
	if err != nil {
		writeError(w, err, correlationID)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error, correlationID string) {
	envelope := common.NewErrorEnvelope(err, correlationID)
	writeJSON(w, common.StatusCodeFor(err), envelope)
}
