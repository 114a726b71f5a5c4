package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrExpiredToken = errors.New("token expired")

const (
	AccessTokenExpiry  = time.Hour
	RefreshTokenExpiry = 7 * 24 * time.Hour
)

type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Refresh  bool   `json:"refresh,omitempty"` // true = refresh token
}

// IssueAccessToken returns a signed JWT access token for the user.
func IssueAccessToken(secret string, userID, email, fullName string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenExpiry)),
			ID:        fmt.Sprintf("%d", now.UnixNano()),
		},
		UserID:   userID,
		Email:    email,
		FullName: fullName,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(secret))
}

// IssueRefreshToken returns a signed JWT refresh token.
func IssueRefreshToken(secret string, userID string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenExpiry)),
			ID:        fmt.Sprintf("refresh-%d", now.UnixNano()),
		},
		UserID:  userID,
		Refresh: true,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(secret))
}

// ValidateToken parses and validates the token string; returns claims or error.
func ValidateToken(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, err
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
