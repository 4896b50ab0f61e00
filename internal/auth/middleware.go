package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grantscope/internal/config"
)

// contextKeyUserCtx is where the middleware stores the validated identity.
const contextKeyUserCtx = "auth_user_ctx"

// UserCtx is the request-scoped identity injected after session validation.
// It lives for one request and is never persisted.
type UserCtx struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Middleware gates requests on a valid session cookie.
type Middleware struct {
	service *Service
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// RequireAuth rejects the request with 401 unless the auth_token cookie
// resolves to a live session owned by an active user. All failure modes
// produce the same response. On success the user context is injected and the
// session row is left untouched (no sliding expiration).
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(config.AuthCookieName)
		if err != nil {
			reject(c)
			return
		}

		userCtx, err := m.service.ValidateSession(c.Request.Context(), token)
		if err != nil {
			reject(c)
			return
		}

		c.Set(contextKeyUserCtx, *userCtx)
		c.Next()
	}
}

func reject(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "authentication required",
	})
}

// GetUserCtx retrieves the authenticated identity set by RequireAuth.
func GetUserCtx(c *gin.Context) (UserCtx, bool) {
	v, exists := c.Get(contextKeyUserCtx)
	if !exists {
		return UserCtx{}, false
	}
	userCtx, ok := v.(UserCtx)
	return userCtx, ok
}
