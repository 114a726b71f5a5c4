package rest

import (
	"net/http"

	"github.com/jitenkr2030/FinSmartAI-sub002/internal/validation"
)

// AnalyzeSentiment handles POST /api/sentiment/analyze
func (h *Handler) AnalyzeSentiment(w http.ResponseWriter, r *http.Request) {
	body := validation.FromContext(r.Context()).Body

	content, _ := body["content"].(string)
	contentType, _ := body["type"].(string)
	source, _ := body["source"].(string)

	userID := ""
	if claims := h.claimsFrom(r); claims != nil {
		userID = claims.UserID
	}
	result := h.predictions.AnalyzeSentiment(r.Context(), userID, content, contentType, source)
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "result": result})
}

// BatchAnalyze handles POST /api/news/batch
func (h *Handler) BatchAnalyze(w http.ResponseWriter, r *http.Request) {
	body := validation.FromContext(r.Context()).Body

	raw, _ := body["articles"].([]interface{})
	articles := make([]map[string]interface{}, 0, len(raw))
	for _, a := range raw {
		if m, ok := a.(map[string]interface{}); ok {
			articles = append(articles, m)
		}
	}

	userID := ""
	if claims := h.claimsFrom(r); claims != nil {
		userID = claims.UserID
	}
	results := h.predictions.BatchAnalyze(r.Context(), userID, articles)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(results),
		"results": results,
	})
}
