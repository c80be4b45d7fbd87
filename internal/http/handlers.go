// Package http serves the optional debug endpoints: health, metrics and the
// fetched snapshot. It only reads state that is fixed once the fetch is done.
package http

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-tui/internal/client"
	"github.com/kjstillabower/weather-tui/internal/lifecycle"
	"github.com/kjstillabower/weather-tui/internal/models"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	snapshot models.Snapshot
	logger   *zap.Logger
}

// NewHandler returns a Handler serving snap. snap must not change afterwards.
func NewHandler(snap models.Snapshot, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{snapshot: snap, logger: logger}
}

// GetHealth handles GET /health. Returns 503 once the render loop is terminating.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	phase := lifecycle.CurrentPhase()
	statusCode := http.StatusOK
	if lifecycle.IsTerminating() {
		statusCode = http.StatusServiceUnavailable
	}
	resp := map[string]interface{}{
		"status":    phase.String(),
		"service":   "weather-tui",
		"hasData":   h.snapshot.HasData(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if !h.snapshot.FetchedAt.IsZero() {
		resp["fetchedAt"] = h.snapshot.FetchedAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, statusCode, resp)
}

// GetSnapshot handles GET /snapshot. Returns the raw Open-Meteo payload, or 503
// when the fetch failed.
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	if !h.snapshot.HasData() {
		code := "NO_DATA"
		if h.snapshot.Err != nil {
			code = "FETCH_FAILED"
			loggerFrom(r, h.logger).Debug("snapshot requested after failed fetch",
				zap.Error(h.snapshot.Err),
				zap.String("category", string(client.CategorizeError(h.snapshot.Err))))
		}
		writeError(w, r, http.StatusServiceUnavailable, code, "No weather data available")
		return
	}

	result := h.snapshot.Result
	if len(result.Raw) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Raw)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard error format with code, message,
// and requestId (correlation ID) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": correlationID(r),
		},
	})
}
