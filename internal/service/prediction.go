// Package service holds the business collaborators behind the middleware
// pipeline. The prediction service is a thin wrapper over a hosted
// completion API: build a prompt, call, parse, and fall back to a canned
// result when the reply is unusable. Every call persists a log row.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jitenkr2030/FinSmartAI-sub002/internal/config"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/models"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/pkg/metrics"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/repository"
)

// PredictionService calls the completion API with a client-side token-bucket
// throttle so a burst of dashboard traffic cannot exhaust the upstream quota.
type PredictionService struct {
	client  *http.Client
	apiURL  string
	apiKey  string
	limiter *rate.Limiter
	repo    *repository.SQLiteRepository
}

func NewPredictionService(cfg *config.Config, repo *repository.SQLiteRepository) *PredictionService {
	timeout := time.Duration(cfg.PredictionTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	var limiter *rate.Limiter
	if cfg.PredictionRatePerSec > 0 {
		burst := cfg.PredictionRateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.PredictionRatePerSec), burst)
	}
	return &PredictionService{
		client:  &http.Client{Timeout: timeout},
		apiURL:  cfg.PredictionAPIURL,
		apiKey:  cfg.PredictionAPIKey,
		limiter: limiter,
		repo:    repo,
	}
}

// SentimentResult is the normalized sentiment payload.
type SentimentResult struct {
	Sentiment  string  `json:"sentiment"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Fallback   bool    `json:"fallback,omitempty"`
}

// ForecastResult is the normalized forecast payload.
type ForecastResult struct {
	Symbol    string    `json:"symbol"`
	Interval  string    `json:"interval"`
	Horizon   int       `json:"horizon"`
	Direction string    `json:"direction"`
	Targets   []float64 `json:"targets,omitempty"`
	Fallback  bool      `json:"fallback,omitempty"`
}

func neutralSentiment() SentimentResult {
	return SentimentResult{Sentiment: "neutral", Score: 0, Confidence: 0.5, Fallback: true}
}

// AnalyzeSentiment scores one piece of news or social content.
func (s *PredictionService) AnalyzeSentiment(ctx context.Context, userID, content, contentType, source string) SentimentResult {
	prompt := fmt.Sprintf(
		"Rate the sentiment of this Indian market %s as JSON {sentiment, score, confidence}: %s",
		contentType, content)
	var out SentimentResult
	raw, err := s.complete(ctx, prompt)
	if err == nil {
		err = json.Unmarshal([]byte(raw), &out)
	}
	fallback := err != nil || out.Sentiment == ""
	if fallback {
		out = neutralSentiment()
		metrics.PredictionRequestsTotal.WithLabelValues("sentiment", "fallback").Inc()
	} else {
		metrics.PredictionRequestsTotal.WithLabelValues("sentiment", "ok").Inc()
	}
	s.logCall(ctx, userID, "sentiment", source, out, fallback)
	return out
}

// BatchAnalyze scores each article independently; one bad article falls back
// without failing the batch.
func (s *PredictionService) BatchAnalyze(ctx context.Context, userID string, articles []map[string]interface{}) []SentimentResult {
	results := make([]SentimentResult, 0, len(articles))
	for _, a := range articles {
		content, _ := a["content"].(string)
		source, _ := a["source"].(string)
		results = append(results, s.AnalyzeSentiment(ctx, userID, content, "news", source))
	}
	return results
}

// Forecast produces a price-direction forecast for a symbol.
func (s *PredictionService) Forecast(ctx context.Context, userID, symbol string, horizon int, interval string) ForecastResult {
	prompt := fmt.Sprintf(
		"Forecast %s over %d %s periods on NSE as JSON {direction, targets}: ", symbol, horizon, interval)
	out := ForecastResult{Symbol: symbol, Interval: interval, Horizon: horizon}
	raw, err := s.complete(ctx, prompt)
	if err == nil {
		err = json.Unmarshal([]byte(raw), &out)
	}
	fallback := err != nil || out.Direction == ""
	if fallback {
		out = ForecastResult{Symbol: symbol, Interval: interval, Horizon: horizon, Direction: "flat", Fallback: true}
		metrics.PredictionRequestsTotal.WithLabelValues("forecast", "fallback").Inc()
	} else {
		metrics.PredictionRequestsTotal.WithLabelValues("forecast", "ok").Inc()
	}
	s.logCall(ctx, userID, "forecast", symbol, out, fallback)
	return out
}

// complete performs one throttled completion-API call and returns the raw
// completion text.
func (s *PredictionService) complete(ctx context.Context, prompt string) (string, error) {
	if s.apiURL == "" {
		return "", fmt.Errorf("prediction api not configured")
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion api status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	var reply struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &reply); err != nil {
		return "", err
	}
	return reply.Text, nil
}

func (s *PredictionService) logCall(ctx context.Context, userID, kind, subject string, result interface{}, fallback bool) {
	if s.repo == nil {
		return
	}
	resultJSON, _ := json.Marshal(result)
	_ = s.repo.CreatePredictionLog(ctx, &models.PredictionLog{
		UserID:   userID,
		Kind:     kind,
		Subject:  subject,
		Result:   string(resultJSON),
		Fallback: fallback,
	})
}
