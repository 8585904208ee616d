package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/driveshop/backend/internal/infrastructure/config"
)

const (
	// SessionCookieName is the cookie carrying the anonymous session id
	SessionCookieName = "ds_session"
	// SessionIDKey is the gin context key for the session id
	SessionIDKey = "session_id"

	sessionCookieMaxAge = 30 * 24 * 60 * 60 // 30 days
)

// GuestSession assigns every visitor an opaque session id cookie. The
// id keys the guest cart in Redis until the visitor logs in and the
// cart is merged.
func GuestSession(cfg config.CookieConfig) gin.HandlerFunc {
	sameSite := parseSameSite(cfg.SameSite)

	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			sessionID = generateSessionID()
			c.SetSameSite(sameSite)
			c.SetCookie(SessionCookieName, sessionID, sessionCookieMaxAge,
				cookiePath(cfg.Path), cfg.Domain, cfg.Secure, true)
		}
		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// SessionIDFromContext returns the guest session id, empty when the
// session middleware did not run.
func SessionIDFromContext(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

func generateSessionID() string {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process is in serious trouble
		panic(err)
	}
	return hex.EncodeToString(b)
}

func cookiePath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func parseSameSite(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
