package api

import (
	"crypto/subtle"
	"net/http"

	"agent-studio/backend/pkg/logger"
	"agent-studio/backend/pkg/session"

	"github.com/gin-gonic/gin"
)

// AuthHandler exchanges the shared password for a session cookie
type AuthHandler struct {
	sessions     *session.Service
	secretKey    string
	cookieName   string
	cookieSecure bool
	logger       *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions *session.Service, secretKey, cookieName string, cookieSecure bool, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		sessions:     sessions,
		secretKey:    secretKey,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. A matching password mints a session
// token delivered in an HTTP-only, same-site-strict cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
		return
	}

	if h.secretKey == "" ||
		subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.secretKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid password"})
		return
	}

	token, err := h.sessions.IssueToken()
	if err != nil {
		h.logger.LogError(err, "Failed to issue session token")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		h.cookieName,
		token,
		int(h.sessions.Expiry().Seconds()),
		"/",
		"",
		h.cookieSecure,
		true,
	)

	c.JSON(http.StatusOK, gin.H{"success": true})
}
