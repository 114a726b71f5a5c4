package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jitenkr2030/FinSmartAI-sub002/internal/config"
)

func TestAuthGate_Classification(t *testing.T) {
	g := NewAuthGate(config.SecurityConfig{
		ProtectedPaths: []string{"/api/predictions", "/api/payments"},
		PublicPaths:    []string{"/api/auth", "/health"},
	})

	if got := g.Classify("/api/auth/login"); got != PathPublic {
		t.Errorf("Expected public, got %v", got)
	}
	if got := g.Classify("/api/predictions/forecast"); got != PathProtected {
		t.Errorf("Expected protected, got %v", got)
	}
	if got := g.Classify("/api/news/feed"); got != PathNeither {
		t.Errorf("Expected neither, got %v", got)
	}
}

func TestAuthGate_PublicPrecedence(t *testing.T) {
	// Path on both lists is always public.
	g := NewAuthGate(config.SecurityConfig{
		ProtectedPaths: []string{"/api/reports"},
		PublicPaths:    []string{"/api/reports"},
	})
	req := httptest.NewRequest(http.MethodGet, "/api/reports/monthly", nil)
	if ge := g.Validate(req); ge != nil {
		t.Errorf("Public precedence violated: %+v", ge)
	}
}

func TestAuthGate_ProtectedRequiresToken(t *testing.T) {
	g := NewAuthGate(config.SecurityConfig{
		ProtectedPaths: []string{"/api/predictions"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/predictions/forecast", nil)
	ge := g.Validate(req)
	if ge == nil || ge.Code != "UNAUTHORIZED" {
		t.Errorf("Missing token should yield UNAUTHORIZED, got %+v", ge)
	}

	req.Header.Set("Authorization", "Bearer short")
	ge = g.Validate(req)
	if ge == nil || ge.Code != "INVALID_TOKEN" {
		t.Errorf("Malformed token should yield INVALID_TOKEN, got %+v", ge)
	}

	req.Header.Set("Authorization", "Bearer "+strings.Repeat("a", 32))
	if ge := g.Validate(req); ge != nil {
		t.Errorf("Structurally valid token should pass the gate, got %+v", ge)
	}
}

func TestAuthGate_NeitherPathBypasses(t *testing.T) {
	g := NewAuthGate(config.SecurityConfig{
		ProtectedPaths: []string{"/api/predictions"},
		PublicPaths:    []string{"/api/auth"},
	})
	req := httptest.NewRequest(http.MethodGet, "/api/news/feed", nil)
	if ge := g.Validate(req); ge != nil {
		t.Errorf("Unclassified path should not demand a token, got %+v", ge)
	}
}
