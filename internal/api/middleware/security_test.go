package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func pipelineHandler(p *SecurityPipeline, next http.Handler) http.Handler {
	if next == nil {
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
	}
	return p.Middleware()(next)
}

func TestSecurityPipeline_StaticPathsBypassAllStages(t *testing.T) {
	p := NewSecurityPipeline(testSecurityConfig(), false)
	handler := pipelineHandler(p, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Static path should pass through, got %d", rec.Code)
	}
	if rec.Header().Get("X-Content-Type-Options") != "" {
		t.Error("Static responses must not be stamped with security headers")
	}
	if rec.Header().Get("X-RateLimit-Limit") != "" {
		t.Error("Static paths must not be rate limited")
	}
}

func TestSecurityPipeline_HeadersOnForwardedResponses(t *testing.T) {
	p := NewSecurityPipeline(testSecurityConfig(), false)
	handler := pipelineHandler(p, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/news/feed", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	want := map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"X-XSS-Protection":          "1; mode=block",
		"Referrer-Policy":           "strict-origin-when-cross-origin",
		"Permissions-Policy":        "camera=(), microphone=(), geolocation=()",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains; preload",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("Header %s: expected %q, got %q", k, v, got)
		}
	}
	if csp := rec.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "frame-ancestors 'none'") {
		t.Errorf("CSP missing frame-ancestors directive: %q", csp)
	}
}

func TestSecurityPipeline_OrderAuthBeforeCSRF(t *testing.T) {
	// A protected POST with neither token nor CSRF pair must fail on auth
	// (401), not CSRF (403): the gate runs first.
	p := NewSecurityPipeline(testSecurityConfig(), false)
	handler := pipelineHandler(p, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/upi", nil)
	req.Header.Set("X-Forwarded-For", "10.1.0.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 from auth gate, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "UNAUTHORIZED") {
		t.Errorf("Expected UNAUTHORIZED code, got %s", rec.Body.String())
	}
}

func TestSecurityPipeline_CSRFRejection(t *testing.T) {
	p := NewSecurityPipeline(testSecurityConfig(), false)
	handler := pipelineHandler(p, nil)

	// Unprotected path, unsafe method, no tokens.
	req := httptest.NewRequest(http.MethodPost, "/api/news/batch", nil)
	req.Header.Set("X-Forwarded-For", "10.1.0.2")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("Expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "CSRF_FAILED") {
		t.Errorf("Expected CSRF_FAILED code, got %s", rec.Body.String())
	}
}

func TestSecurityPipeline_LazyCSRFTokenOnSafeForward(t *testing.T) {
	p := NewSecurityPipeline(testSecurityConfig(), false)
	handler := pipelineHandler(p, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/news/feed", nil)
	req.Header.Set("X-Forwarded-For", "10.1.0.3")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CSRFCookieName {
		t.Fatalf("Expected lazy csrf_token cookie on safe forward, got %v", cookies)
	}
}

func TestSecurityPipeline_PanicBecomes500Envelope(t *testing.T) {
	p := NewSecurityPipeline(testSecurityConfig(), false)
	handler := pipelineHandler(p, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/news/feed", nil)
	req.Header.Set("X-Forwarded-For", "10.1.0.4")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "INTERNAL_ERROR") {
		t.Errorf("Expected INTERNAL_ERROR envelope, got %s", body)
	}
	if strings.Contains(body, "boom") {
		t.Error("Panic detail must not leak to the client")
	}
}

func TestSecurityPipeline_DisabledStagesSkipped(t *testing.T) {
	cfg := testSecurityConfig()
	cfg.RateLimitEnabled = false
	cfg.CSRFEnabled = false
	cfg.SecurityHeadersEnabled = false
	cfg.AuthValidationEnabled = false
	p := NewSecurityPipeline(cfg, false)
	handler := pipelineHandler(p, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/predictions/forecast", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("All stages disabled: request should pass, got %d", rec.Code)
	}
	if rec.Header().Get("X-Content-Type-Options") != "" {
		t.Error("Headers disabled: no stamping expected")
	}
}

func TestSecurityPipeline_BearerPOSTWithoutCSRFPasses(t *testing.T) {
	p := NewSecurityPipeline(testSecurityConfig(), false)
	handler := pipelineHandler(p, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/predictions/forecast", nil)
	req.Header.Set("X-Forwarded-For", "10.1.0.5")
	req.Header.Set("Authorization", "Bearer "+strings.Repeat("t", 32))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Bearer POST without CSRF tokens should pass, got %d: %s", rec.Code, rec.Body.String())
	}
}
