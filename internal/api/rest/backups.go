package rest

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jitenkr2030/FinSmartAI-sub002/internal/validation"
)

// CreateBackup handles POST /api/backups
func (h *Handler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	claims := h.claimsFrom(r)
	if claims == nil {
		respondError(w, http.StatusUnauthorized, ErrCodeInvalidToken, "Invalid or expired token")
		return
	}
	body := validation.FromContext(r.Context()).Body

	backupType, _ := body["type"].(string)
	priority, _ := body["priority"].(string)
	compression, _ := body["compression"].(bool)
	encryption, _ := body["encryption"].(bool)

	h.auditEvent(r, http.StatusAccepted)
	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"success":     true,
		"backupId":    uuid.New().String(),
		"type":        backupType,
		"priority":    priority,
		"compression": compression,
		"encryption":  encryption,
		"status":      "queued",
		"queuedAt":    time.Now().UTC().Format(time.RFC3339),
	})
}

// BackupStatus handles GET /api/backups/{id}
func (h *Handler) BackupStatus(w http.ResponseWriter, r *http.Request) {
	claims := h.claimsFrom(r)
	if claims == nil {
		respondError(w, http.StatusUnauthorized, ErrCodeInvalidToken, "Invalid or expired token")
		return
	}
	params := validation.FromContext(r.Context()).Params
	backupID, _ := params["id"].(string)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"backupId": backupID,
		"status":   "queued",
	})
}

// RestoreBackup handles POST /api/backups/restore
func (h *Handler) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	claims := h.claimsFrom(r)
	if claims == nil {
		respondError(w, http.StatusUnauthorized, ErrCodeInvalidToken, "Invalid or expired token")
		return
	}
	body := validation.FromContext(r.Context()).Body

	backupID, _ := body["backupId"].(string)
	dryRun, _ := body["dryRun"].(bool)

	h.auditEvent(r, http.StatusAccepted)
	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"success":  true,
		"backupId": backupID,
		"dryRun":   dryRun,
		"status":   "restore_queued",
	})
}
