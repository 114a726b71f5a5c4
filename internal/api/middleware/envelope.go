package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// Terminal pipeline envelopes. Every error body carries a stable
// success:false discriminator and a machine-readable code; no stack traces
// or framework error pages ever reach a client.

func writeEnvelope(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondRateLimited(w http.ResponseWriter, d Decision) {
	w.Header().Set("Retry-After", strconv.FormatInt(int64(time.Until(d.ResetTime).Seconds())+1, 10))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetTime.Unix(), 10))
	writeEnvelope(w, http.StatusTooManyRequests, map[string]interface{}{
		"success": false,
		"error":   "Rate limit exceeded",
		"code":    "RATE_LIMIT_EXCEEDED",
		"details": map[string]interface{}{
			"limit":     d.Limit,
			"window":    d.WindowMs,
			"resetTime": d.ResetTime.UnixMilli(),
		},
	})
}

func respondUnauthorized(w http.ResponseWriter, ge *GateError) {
	writeEnvelope(w, http.StatusUnauthorized, map[string]interface{}{
		"success": false,
		"error":   ge.Message,
		"code":    ge.Code,
	})
}

func respondCSRFFailed(w http.ResponseWriter) {
	writeEnvelope(w, http.StatusForbidden, map[string]interface{}{
		"success": false,
		"error":   "CSRF validation failed",
		"code":    "CSRF_FAILED",
	})
}

func respondInternalError(w http.ResponseWriter) {
	writeEnvelope(w, http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"error":   "Internal server error",
		"code":    "INTERNAL_ERROR",
	})
}
