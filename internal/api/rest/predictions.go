package rest

import (
	"net/http"

	"github.com/jitenkr2030/FinSmartAI-sub002/internal/validation"
)

// Forecast handles POST /api/predictions/forecast
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	claims := h.claimsFrom(r)
	if claims == nil {
		respondError(w, http.StatusUnauthorized, ErrCodeInvalidToken, "Invalid or expired token")
		return
	}
	body := validation.FromContext(r.Context()).Body

	symbol, _ := body["symbol"].(string)
	interval, _ := body["interval"].(string)
	horizon := 7
	if n, ok := body["horizon"].(int); ok {
		horizon = n
	}

	result := h.predictions.Forecast(r.Context(), claims.UserID, symbol, horizon, interval)
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "result": result})
}

// PredictionHistory handles GET /api/predictions/history
func (h *Handler) PredictionHistory(w http.ResponseWriter, r *http.Request) {
	claims := h.claimsFrom(r)
	if claims == nil {
		respondError(w, http.StatusUnauthorized, ErrCodeInvalidToken, "Invalid or expired token")
		return
	}
	query := validation.FromContext(r.Context()).Query
	page, limit := pageAndLimit(query)

	logs, err := h.repo.ListPredictionLogs(r.Context(), page, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"page":    page,
		"limit":   limit,
		"logs":    logs,
	})
}

func pageAndLimit(query map[string]interface{}) (int, int) {
	page, limit := 1, 10
	if n, ok := query["page"].(int); ok {
		page = n
	}
	if n, ok := query["limit"].(int); ok {
		limit = n
	}
	return page, limit
}
