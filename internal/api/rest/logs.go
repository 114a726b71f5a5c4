package rest

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jitenkr2030/FinSmartAI-sub002/internal/validation"
)

// QueryLogs handles GET /api/logs. It pages through the audit trail; the
// level filter narrows by event severity (auth failures are warn, the rest
// info).
func (h *Handler) QueryLogs(w http.ResponseWriter, r *http.Request) {
	claims := h.claimsFrom(r)
	if claims == nil {
		respondError(w, http.StatusUnauthorized, ErrCodeInvalidToken, "Invalid or expired token")
		return
	}
	query := validation.FromContext(r.Context()).Query
	page, limit := pageAndLimit(query)
	level, _ := query["level"].(string)

	entries, err := h.repo.ListAuditLogs(r.Context(), page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error")
		return
	}
	type logLine struct {
		Level     string    `json:"level"`
		Action    string    `json:"action"`
		Username  string    `json:"username"`
		Path      string    `json:"path"`
		Method    string    `json:"method"`
		Status    int       `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}
	lines := make([]logLine, 0, len(entries))
	for _, e := range entries {
		lvl := "info"
		if e.Status >= 500 {
			lvl = "error"
		} else if e.Status >= 400 {
			lvl = "warn"
		}
		if level != "" && level != lvl {
			continue
		}
		lines = append(lines, logLine{
			Level: lvl, Action: e.Action, Username: e.Username,
			Path: e.Path, Method: e.Method, Status: e.Status, Timestamp: e.Timestamp,
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"page":    page,
		"limit":   limit,
		"logs":    lines,
	})
}

// AuditTrail handles GET /api/audit, returning raw audit entries.
func (h *Handler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	claims := h.claimsFrom(r)
	if claims == nil {
		respondError(w, http.StatusUnauthorized, ErrCodeInvalidToken, "Invalid or expired token")
		return
	}
	query := validation.FromContext(r.Context()).Query
	page, limit := pageAndLimit(query)

	entries, err := h.repo.ListAuditLogs(r.Context(), page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"page":    page,
		"limit":   limit,
		"entries": entries,
	})
}

// CreateExport handles POST /api/exports
func (h *Handler) CreateExport(w http.ResponseWriter, r *http.Request) {
	claims := h.claimsFrom(r)
	if claims == nil {
		respondError(w, http.StatusUnauthorized, ErrCodeInvalidToken, "Invalid or expired token")
		return
	}
	body := validation.FromContext(r.Context()).Body

	format, _ := body["format"].(string)
	reportType, _ := body["reportType"].(string)

	h.auditEvent(r, http.StatusAccepted)
	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"success":    true,
		"exportId":   uuid.New().String(),
		"format":     format,
		"reportType": reportType,
		"status":     "queued",
	})
}
