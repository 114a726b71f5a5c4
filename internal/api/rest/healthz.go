package rest

import (
	"net/http"
	"time"
)

var startTime = time.Now()

// Healthz handles GET /health
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"uptimeSec": int(time.Since(startTime).Seconds()),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
