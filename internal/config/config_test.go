package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.Production)
	assert.Equal(t, int64(512*1024), cfg.MaxBodyBytes)

	sec := cfg.Security
	assert.True(t, sec.RateLimitEnabled)
	assert.True(t, sec.CSRFEnabled)
	assert.True(t, sec.SecurityHeadersEnabled)
	assert.True(t, sec.AuthValidationEnabled)
	assert.Equal(t, 100, sec.DefaultRateLimit.Limit)
	assert.Equal(t, 15*time.Minute, sec.DefaultRateLimit.Window())
}

func TestDefaultSecurityOverrides(t *testing.T) {
	sec := DefaultSecurity()

	auth, ok := sec.PathRateLimits["/api/auth"]
	require.True(t, ok)
	assert.Equal(t, 5, auth.Limit)
	assert.Equal(t, 15*time.Minute, auth.Window())

	pred, ok := sec.PathRateLimits["/api/predictions"]
	require.True(t, ok)
	assert.Equal(t, 10, pred.Limit)
	assert.Equal(t, time.Minute, pred.Window())

	upload, ok := sec.PathRateLimits["/api/upload"]
	require.True(t, ok)
	assert.Equal(t, 5, upload.Limit)
	assert.Equal(t, time.Hour, upload.Window())
}

func TestDefaultSecurityPathLists(t *testing.T) {
	sec := DefaultSecurity()
	assert.Contains(t, sec.ProtectedPaths, "/api/predictions")
	assert.Contains(t, sec.PublicPaths, "/api/auth")
	assert.Contains(t, sec.StaticPaths, "/metrics")
}
