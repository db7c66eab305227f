package middleware

import (
	"time"

	"fast-vote-api/internal/cache"
	"fast-vote-api/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "fast_vote_session"

// cookieMaxAge matches the token lifetime order of magnitude; the token's own
// expiry is authoritative.
const cookieMaxAge = 30 * 24 * 60 * 60

// parsedTokens avoids re-verifying the token signature on every request.
// Entries are evicted by TTL; an invalid token is never cached.
var parsedTokens = cache.New[string, string]()

const parsedTokenTTL = 5 * time.Minute

// SessionMiddleware guarantees every request carries a session id.
// It reads the session cookie and validates it; when the cookie is absent,
// expired, or tampered with, it mints a fresh session id and sets the cookie
// on the response. The session id is stored in the gin context under
// "session_id". This middleware never rejects a request.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := ""
		if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
			if sid, ok := parsedTokens.Get(token); ok {
				sessionID = sid
			} else if sid, err := session.ParseToken(token); err == nil {
				sessionID = sid
				parsedTokens.Set(token, sid, parsedTokenTTL)
			}
		}

		if sessionID == "" {
			sessionID = session.NewSessionID()
			if token, err := session.IssueToken(sessionID); err == nil {
				c.SetCookie(SessionCookieName, token, cookieMaxAge, "/", "", false, true)
			}
		}

		c.Set("session_id", sessionID)
		c.Next()
	}
}
