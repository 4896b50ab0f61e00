package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"grantscope/internal/config"
	"grantscope/internal/validation"
)

// AuthController handles authentication HTTP endpoints. It is the only place
// that touches the auth cookie; the service underneath is transport-agnostic.
type AuthController struct {
	service *Service
	config  config.Auth
}

// NewAuthController creates a new authentication controller.
func NewAuthController(service *Service, cfg config.Auth) *AuthController {
	return &AuthController{service: service, config: cfg}
}

// RegisterRoutes registers authentication routes. Signup, login and logout
// are public; /me requires a valid session.
func (ac *AuthController) RegisterRoutes(router gin.IRouter, mw *Middleware) {
	grp := router.Group("/api/auth")
	grp.POST("/signup", ac.Signup)
	grp.POST("/login", ac.Login)
	grp.POST("/logout", ac.Logout)
	grp.GET("/me", mw.RequireAuth(), ac.Me)
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates an account and logs the new user straight in.
func (ac *AuthController) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, token, err := ac.service.Signup(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		ac.renderError(c, err)
		return
	}

	ac.setAuthCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"user":    user,
		"message": "Account created successfully",
	})
}

// Login verifies credentials and issues a fresh session cookie.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, token, err := ac.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		ac.renderError(c, err)
		return
	}

	ac.setAuthCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"message": "Logged in successfully",
	})
}

// Logout deletes the current session and clears the cookie. Succeeds even
// without a cookie, so repeated logouts are harmless.
func (ac *AuthController) Logout(c *gin.Context) {
	if token, err := c.Cookie(config.AuthCookieName); err == nil && token != "" {
		if err := ac.service.Logout(c.Request.Context(), token); err != nil {
			ac.renderError(c, err)
			return
		}
	}

	ac.clearAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me returns the authenticated user's account and live session count.
func (ac *AuthController) Me(c *gin.Context) {
	userCtx, ok := GetUserCtx(c)
	if !ok {
		reject(c)
		return
	}

	user, err := ac.service.CurrentUser(c.Request.Context(), userCtx.UserID)
	if err != nil {
		ac.renderError(c, err)
		return
	}

	sessionCount, err := ac.service.ActiveSessionCount(c.Request.Context(), userCtx.UserID)
	if err != nil {
		ac.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":            user,
		"active_sessions": sessionCount,
	})
}

func (ac *AuthController) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	maxAge := int(ac.config.SessionDuration().Seconds())
	c.SetCookie(config.AuthCookieName, token, maxAge, "/", "", ac.config.SecureCookies, true)
}

func (ac *AuthController) clearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(config.AuthCookieName, "", -1, "/", "", ac.config.SecureCookies, true)
}

// renderError maps service errors onto HTTP responses. Validation problems
// keep their field detail; credential failures stay generic; anything else is
// logged in full and returned as an opaque 500.
func (ac *AuthController) renderError(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason, "field": verr.Field})
	case errors.Is(err, ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrEmailTaken.Error()})
	case errors.Is(err, ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentials.Error()})
	default:
		log.Printf("auth: internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
