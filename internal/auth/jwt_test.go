package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-bytes-long"

func TestIssueAndValidateAccessToken(t *testing.T) {
	tok, err := IssueAccessToken(testSecret, "user-1", "asha@example.com", "Asha Rao")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := ValidateToken(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.False(t, claims.Refresh)
}

func TestRefreshTokenFlagged(t *testing.T) {
	tok, err := IssueRefreshToken(testSecret, "user-1")
	require.NoError(t, err)

	claims, err := ValidateToken(testSecret, tok)
	require.NoError(t, err)
	assert.True(t, claims.Refresh)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	tok, err := IssueAccessToken(testSecret, "user-1", "asha@example.com", "Asha Rao")
	require.NoError(t, err)

	_, err = ValidateToken("a-different-secret-entirely-here", tok)
	assert.Error(t, err)
}

func TestEmptySecretRejected(t *testing.T) {
	_, err := IssueAccessToken("", "user-1", "a@b.co", "A B")
	assert.Error(t, err)
	_, err = ValidateToken("", "whatever")
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "s3cret-pass"))
	assert.Error(t, CheckPassword(hash, "wrong-pass"))
}
