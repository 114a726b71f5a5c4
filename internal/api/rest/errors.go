package rest

import (
	"encoding/json"
	"net/http"
)

// APIError is the structured error envelope returned by route handlers.
type APIError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// Error codes for common scenarios
const (
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeInvalidToken   = "INVALID_TOKEN"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, APIError{Success: false, Error: message, Code: code})
}
