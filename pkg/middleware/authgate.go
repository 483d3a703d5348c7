package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"agent-studio/backend/pkg/session"

	"github.com/gin-gonic/gin"
)

// AuthGate guards browser navigations with the session cookie. API routes
// carry their own semantics and assets must stay reachable, so both are
// skipped; everything else redirects to the login page when the cookie is
// missing or invalid.
type AuthGate struct {
	sessions   *session.Service
	cookieName string
}

// NewAuthGate creates the navigation gate
func NewAuthGate(sessions *session.Service, cookieName string) *AuthGate {
	return &AuthGate{sessions: sessions, cookieName: cookieName}
}

func (g *AuthGate) isPublicAsset(path string) bool {
	return strings.HasPrefix(path, "/assets/") ||
		strings.HasPrefix(path, "/static/") ||
		strings.HasPrefix(path, "/images/") ||
		path == "/favicon.ico"
}

// IsAuthenticated reports whether the request carries a valid session cookie
func (g *AuthGate) IsAuthenticated(c *gin.Context) bool {
	token, err := c.Cookie(g.cookieName)
	if err != nil || token == "" {
		return false
	}
	_, err = g.sessions.ValidateToken(token)
	return err == nil
}

// Middleware returns the gate as a Gin middleware
func (g *AuthGate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		isLoginPage := path == "/login"
		isAPIRoute := strings.HasPrefix(path, "/api/")
		isHealthOrMetrics := path == "/health" || path == "/metrics"

		if isAPIRoute || isHealthOrMetrics || g.isPublicAsset(path) {
			c.Next()
			return
		}

		authenticated := g.IsAuthenticated(c)

		if !authenticated && !isLoginPage {
			c.Redirect(http.StatusFound, "/login?from="+url.QueryEscape(path))
			c.Abort()
			return
		}

		if authenticated && isLoginPage {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Next()
	}
}
