package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jitenkr2030/FinSmartAI-sub002/internal/audit"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/auth"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/models"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/pkg/logger"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/repository"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/validation"
)

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register handles POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	body := validation.FromContext(r.Context()).Body

	email, _ := body["email"].(string)
	password, _ := body["password"].(string)
	fullName, _ := body["fullName"].(string)
	phone, _ := body["phone"].(string)

	hash, err := auth.HashPassword(password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error")
		return
	}
	u := &models.User{Email: email, PasswordHash: hash, FullName: fullName, Phone: phone}
	if err := h.repo.CreateUser(r.Context(), u); err != nil {
		respondError(w, http.StatusConflict, ErrCodeConflict, "Email already registered")
		return
	}
	h.auditEvent(r, http.StatusCreated)
	respondJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "user": u})
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	body := validation.FromContext(r.Context()).Body

	email, _ := body["email"].(string)
	password, _ := body["password"].(string)

	u, err := h.repo.GetUserByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.StdLogger().Error("login lookup failed", "error", err.Error())
		}
		h.auditAction(r, "login_failed", http.StatusUnauthorized)
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid email or password")
		return
	}
	if auth.CheckPassword(u.PasswordHash, password) != nil {
		h.auditAction(r, "login_failed", http.StatusUnauthorized)
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid email or password")
		return
	}

	access, err := auth.IssueAccessToken(h.jwtSecret, u.ID, u.Email, u.FullName)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error")
		return
	}
	refresh, err := auth.IssueRefreshToken(h.jwtSecret, u.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error")
		return
	}
	h.auditEvent(r, http.StatusOK)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    u,
		"tokens":  tokenPair{AccessToken: access, RefreshToken: refresh},
	})
}

// Refresh handles POST /api/auth/refresh. It takes the refresh token from
// the Authorization header rather than the body so refresh tokens never pass
// through request logging.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required")
		return
	}
	claims, err := auth.ValidateToken(h.jwtSecret, strings.TrimPrefix(header, "Bearer "))
	if err != nil || !claims.Refresh {
		respondError(w, http.StatusUnauthorized, ErrCodeInvalidToken, "Invalid or expired token")
		return
	}
	u, err := h.repo.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, ErrCodeInvalidToken, "Invalid or expired token")
		return
	}
	access, err := auth.IssueAccessToken(h.jwtSecret, u.ID, u.Email, u.FullName)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"accessToken": access,
	})
}

// Me handles GET /api/users/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := h.claimsFrom(r)
	if claims == nil {
		respondError(w, http.StatusUnauthorized, ErrCodeInvalidToken, "Invalid or expired token")
		return
	}
	u, err := h.repo.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": u})
}

// UpdateProfile handles PUT /api/users/me
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := h.claimsFrom(r)
	if claims == nil {
		respondError(w, http.StatusUnauthorized, ErrCodeInvalidToken, "Invalid or expired token")
		return
	}
	body := validation.FromContext(r.Context()).Body

	u, err := h.repo.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "User not found")
		return
	}
	fullName := u.FullName
	if v, ok := body["fullName"].(string); ok {
		fullName = v
	}
	phone := u.Phone
	if v, ok := body["phone"].(string); ok {
		phone = v
	}
	if err := h.repo.UpdateUserProfile(r.Context(), u.ID, fullName, phone); err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error")
		return
	}
	h.auditEvent(r, http.StatusOK)
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// auditEvent records an append-only security event for this request. The
// action is derived from the request path and method; auditAction overrides
// it for outcomes the request shape cannot express (failed logins).
func (h *Handler) auditEvent(r *http.Request, status int) {
	h.auditAction(r, audit.ActionFromRequest(r), status)
}

func (h *Handler) auditAction(r *http.Request, action string, status int) {
	if claims := h.claimsFrom(r); claims != nil {
		r = r.WithContext(auth.WithClaims(r.Context(), claims))
	}
	userID, username, ip := audit.RequestInfo(r)
	audit.CreateEntry(r.Context(), h.repo, &models.AuditLogEntry{
		UserID:    userID,
		Username:  username,
		Action:    action,
		Path:      r.URL.Path,
		Method:    r.Method,
		RequestIP: ip,
		Status:    status,
	})
}
