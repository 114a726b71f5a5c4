// Package rest holds the route handlers. Handlers stay thin: input has
// already been normalized by the validation middleware, so each handler
// reads validation.FromContext, calls a collaborator, and writes JSON.
package rest

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/jitenkr2030/FinSmartAI-sub002/internal/auth"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/repository"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/service"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/validation"
)

// Handler manages HTTP request handlers.
type Handler struct {
	repo        *repository.SQLiteRepository
	predictions *service.PredictionService
	jwtSecret   string
}

// NewHandler creates a new HTTP handler.
func NewHandler(repo *repository.SQLiteRepository, predictions *service.PredictionService, jwtSecret string) *Handler {
	return &Handler{
		repo:        repo,
		predictions: predictions,
		jwtSecret:   jwtSecret,
	}
}

// SetupRoutes configures API routes. Each route declares its input contract
// here; handlers never re-validate.
func SetupRoutes(router *mux.Router, h *Handler) {
	v := validation.WithValidation

	// Auth (public)
	router.HandleFunc("/api/auth/register", v(h.Register, validation.UserCreate, nil, nil)).Methods("POST")
	router.HandleFunc("/api/auth/login", v(h.Login, validation.UserLogin, nil, nil)).Methods("POST")
	router.HandleFunc("/api/auth/refresh", h.Refresh).Methods("POST")

	// Users (protected)
	router.HandleFunc("/api/users/me", h.Me).Methods("GET")
	router.HandleFunc("/api/users/me", v(h.UpdateProfile, validation.UserUpdateProfile, nil, nil)).Methods("PUT")

	// News sentiment
	router.HandleFunc("/api/sentiment/analyze", v(h.AnalyzeSentiment, validation.NewsAnalyzeSentiment, nil, nil)).Methods("POST")
	router.HandleFunc("/api/news/batch", v(h.BatchAnalyze, validation.NewsBatchAnalyze, nil, nil)).Methods("POST")

	// Predictions (protected)
	router.HandleFunc("/api/predictions/forecast", v(h.Forecast, validation.PredictionForecast, nil, nil)).Methods("POST")
	router.HandleFunc("/api/predictions/history", v(h.PredictionHistory, nil, validation.Pagination, nil)).Methods("GET")

	// Payments (protected)
	router.HandleFunc("/api/payments/upi/initiate", v(h.InitiateUPI, validation.PaymentInitiateUPI, nil, nil)).Methods("POST")
	router.HandleFunc("/api/payments/verify", v(h.VerifyPayment, validation.PaymentVerify, nil, nil)).Methods("POST")

	// Backups (protected)
	router.HandleFunc("/api/backups", v(h.CreateBackup, validation.BackupCreate, nil, nil)).Methods("POST")
	router.HandleFunc("/api/backups/restore", v(h.RestoreBackup, validation.BackupRestore, nil, nil)).Methods("POST")
	router.HandleFunc("/api/backups/{id}", v(h.BackupStatus, nil, nil, validation.IDParam)).Methods("GET")

	// Logs and exports (protected)
	router.HandleFunc("/api/logs", v(h.QueryLogs, nil, validation.LogQuery, nil)).Methods("GET")
	router.HandleFunc("/api/audit", v(h.AuditTrail, nil, validation.PaginationLimit20, nil)).Methods("GET")
	router.HandleFunc("/api/exports", v(h.CreateExport, validation.ExportCreate, nil, nil)).Methods("POST")

	// Health check
	router.HandleFunc("/health", h.Healthz).Methods("GET")
}

// claimsFrom authenticates the request's bearer token. The security pipeline
// only checks token shape; ownership of protected resources needs the full
// signature check done here.
func (h *Handler) claimsFrom(r *http.Request) *auth.Claims {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}
	claims, err := auth.ValidateToken(h.jwtSecret, strings.TrimPrefix(header, "Bearer "))
	if err != nil || claims.Refresh {
		return nil
	}
	return claims
}
