// Package audit records append-only security events.
package audit

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jitenkr2030/FinSmartAI-sub002/internal/auth"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/models"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/repository"
)

// CreateEntry writes an audit log entry. Best-effort: failures are dropped,
// never surfaced to the request.
func CreateEntry(ctx context.Context, repo *repository.SQLiteRepository, e *models.AuditLogEntry) {
	if repo == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	_ = repo.CreateAuditLog(ctx, e)
}

// RequestInfo extracts user and request metadata for audit logging.
func RequestInfo(r *http.Request) (userID *string, username string, requestIP string) {
	requestIP = r.RemoteAddr
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			requestIP = strings.TrimSpace(xff[:idx])
		} else {
			requestIP = strings.TrimSpace(xff)
		}
	}
	username = "anonymous"
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		userID = &claims.UserID
		username = claims.Email
	}
	return userID, username, requestIP
}

// ActionFromRequest derives the audit action from request path and method.
func ActionFromRequest(r *http.Request) string {
	path := r.URL.Path
	switch r.Method {
	case http.MethodPost:
		switch {
		case strings.Contains(path, "/auth/login"):
			return "login"
		case strings.Contains(path, "/auth/register"):
			return "register"
		case strings.Contains(path, "/payments"):
			return "payment"
		case strings.Contains(path, "/backups"):
			return "backup"
		case strings.Contains(path, "/exports"):
			return "export"
		default:
			return "post"
		}
	case http.MethodDelete:
		return "delete"
	case http.MethodPut, http.MethodPatch:
		return "update"
	default:
		return strings.ToLower(r.Method)
	}
}
