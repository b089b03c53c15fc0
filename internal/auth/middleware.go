package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// Context keys for identity data attached to the request.
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyLoggedIn = "auth_logged_in"
)

// Middleware authenticates requests from the session cookie.
type Middleware struct {
	tokens *TokenHelper
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(tokens *TokenHelper) *Middleware {
	return &Middleware{tokens: tokens}
}

// RequireAuth aborts with 401 unless the request carries a valid session
// cookie. On success the user id is attached to the context.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Request.Cookie(SessionCookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		userID, err := m.tokens.Verify(cookie.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Set(ContextKeyLoggedIn, true)
		c.Next()
	}
}

// Annotate marks whether the caller is logged in without ever rejecting the
// request. Handlers that care read the flag from the context.
func (m *Middleware) Annotate() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Request.Cookie(SessionCookieName)
		if err != nil {
			c.Set(ContextKeyLoggedIn, false)
			c.Next()
			return
		}

		userID, err := m.tokens.Verify(cookie.Value)
		if err != nil {
			c.Set(ContextKeyLoggedIn, false)
			c.Next()
			return
		}

		c.Set(ContextKeyLoggedIn, true)
		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID extracts the authenticated user's id from the context. Returns 0
// when the request is unauthenticated.
func GetUserID(c *gin.Context) uint {
	if value, exists := c.Get(ContextKeyUserID); exists {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}

// IsLoggedIn reports whether the request carried a valid session cookie.
func IsLoggedIn(c *gin.Context) bool {
	if value, exists := c.Get(ContextKeyLoggedIn); exists {
		if logged, ok := value.(bool); ok {
			return logged
		}
	}
	return false
}
