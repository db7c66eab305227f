package session

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	sessionSecret = []byte(getEnv("SESSION_SECRET", "development-insecure-secret-change-me"))
	sessionIssuer = getEnv("SESSION_ISSUER", "fast-vote-api")
)

// Token lifetime. A browser that stays away longer simply gets a fresh
// session id and loses its "already voted" association.
const tokenTTL = 30 * 24 * time.Hour

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Claims carry the opaque session identifier. Signing the cookie value
// means a tampered session id is discarded instead of trusted.
type Claims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// NewSessionID generates a fresh opaque session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// IssueToken wraps a session id in a signed token suitable for the cookie.
func IssueToken(sessionID string) (string, error) {
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    sessionIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(sessionSecret)

	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates a session token and returns the session id inside it.
func ParseToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}

		return sessionSecret, nil
	})

	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", errors.New("invalid session token")
	}
	if claims.Issuer != sessionIssuer {
		return "", errors.New("invalid token issuer")
	}
	if claims.SessionID == "" {
		return "", errors.New("empty session id")
	}
	return claims.SessionID, nil
}
