// Package http exposes the wildfire risk API: region listing, on-demand
// risk assessment, and prediction history.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/emberline/wildfire-risk-service/internal/models"
	"github.com/emberline/wildfire-risk-service/internal/observability"
	"github.com/emberline/wildfire-risk-service/internal/service"
	"github.com/emberline/wildfire-risk-service/internal/validation"
)

// defaultPredictionLimit is how many prediction rows are returned when
// the request does not name a limit.
const defaultPredictionLimit = 20

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	svc    *service.RiskService
	dbPing func() error
	// cachePing, when set, checks cache reachability. Used when the
	// backend is memcached.
	cachePing func() error
	logger    *zap.Logger
}

// NewHandler returns a new Handler. cachePing may be nil.
func NewHandler(svc *service.RiskService, dbPing func() error, cachePing func() error, logger *zap.Logger) *Handler {
	return &Handler{
		svc:       svc,
		dbPing:    dbPing,
		cachePing: cachePing,
		logger:    logger,
	}
}

// NewRouter builds the API router with its middleware stack. The rate
// limiter may be nil (disabled); requestTimeout bounds assessment
// routes only.
func NewRouter(h *Handler, logger *zap.Logger, limiter *rate.Limiter, requestTimeout time.Duration) *mux.Router {
	r := mux.NewRouter()
	r.Use(CorrelationIDMiddleware(logger))
	r.Use(MetricsMiddleware)

	r.HandleFunc("/health", h.GetHealth).Methods(http.MethodGet)
	r.Handle("/metrics", observability.MetricsHandler()).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	api.Use(RateLimitMiddleware(limiter))
	api.Use(TimeoutMiddleware(requestTimeout))
	api.HandleFunc("/regions", h.ListRegions).Methods(http.MethodGet)
	api.HandleFunc("/regions/{id}", h.GetRegion).Methods(http.MethodGet)
	api.HandleFunc("/regions/{id}/assess", h.AssessRegion).Methods(http.MethodPost)
	api.HandleFunc("/regions/{id}/predictions", h.GetPredictions).Methods(http.MethodGet)
	api.HandleFunc("/assess", h.AssessAll).Methods(http.MethodPost)

	return r
}

// ListRegions handles GET /regions.
func (h *Handler) ListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.svc.Regions(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"regions": regions})
}

// GetRegion handles GET /regions/{id}.
func (h *Handler) GetRegion(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ParseRegionID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_REGION_ID", err.Error())
		return
	}
	region, err := h.svc.Region(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, region)
}

// AssessRegion handles POST /regions/{id}/assess.
func (h *Handler) AssessRegion(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ParseRegionID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_REGION_ID", err.Error())
		return
	}
	result, err := h.svc.AssessRegion(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// AssessAll handles POST /assess. Per-region failures come back inside
// the item list, not as a request failure.
func (h *Handler) AssessAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.AssessAll(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"assessments": items})
}

// GetPredictions handles GET /regions/{id}/predictions?limit=N.
func (h *Handler) GetPredictions(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ParseRegionID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_REGION_ID", err.Error())
		return
	}
	limit, err := validation.ParseLimit(r.URL.Query().Get("limit"), defaultPredictionLimit)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_LIMIT", err.Error())
		return
	}
	preds, err := h.svc.RecentPredictions(r.Context(), id, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if preds == nil {
		preds = []models.Prediction{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"predictions": preds})
}

// GetHealth handles GET /health. The database is the only hard
// dependency; a failing cache or disabled weather API degrades but the
// check that gates restarts is storage.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	statusCode := http.StatusOK
	checks := make(map[string]string)

	if err := h.dbPing(); err != nil {
		checks["database"] = "unhealthy"
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
		h.logger.Warn("health check: database unreachable", zap.Error(err))
	} else {
		checks["database"] = "healthy"
	}

	if h.cachePing != nil {
		if err := h.cachePing(); err != nil {
			checks["cache"] = "unhealthy"
			if status == "healthy" {
				status = "degraded"
			}
		} else {
			checks["cache"] = "healthy"
		}
	}

	resp := map[string]interface{}{
		"status":    status,
		"service":   "wildfire-risk-service",
		"version":   "dev",
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard error format with
// code, message, and requestId (correlation ID) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	corrID := ""
	if v := r.Context().Value(correlationIDKey); v != nil {
		corrID, _ = v.(string)
	}
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": corrID,
		},
	})
}

// writeServiceError maps service-layer errors onto API error responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrRegionNotFound):
		writeError(w, r, http.StatusNotFound, "REGION_NOT_FOUND", "region not found")
	case errors.Is(err, service.ErrNoWeatherData):
		writeError(w, r, http.StatusServiceUnavailable, "NO_WEATHER_DATA",
			"no current weather available for this region")
	default:
		writeInternalError(w, r, err)
	}
}

func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error")
	if logger, ok := r.Context().Value(loggerKey).(*zap.Logger); ok && logger != nil {
		logger.Error("request failed", zap.Error(err))
	}
}
