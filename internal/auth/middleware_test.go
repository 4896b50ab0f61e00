package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"grantscope/internal/config"
	"grantscope/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupProtectedRouter(t *testing.T) (*gin.Engine, *Service, *gorm.DB) {
	t.Helper()

	svc, db := setupService(t)
	mw := NewMiddleware(svc)

	router := gin.New()
	router.GET("/protected", mw.RequireAuth(), func(c *gin.Context) {
		userCtx, ok := GetUserCtx(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user context"})
			return
		}
		c.JSON(http.StatusOK, userCtx)
	})

	return router, svc, db
}

func request(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: config.AuthCookieName, Value: token})
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRequireAuth_MissingCookie(t *testing.T) {
	router, _, _ := setupProtectedRouter(t)

	rr := request(router, "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	router, _, _ := setupProtectedRouter(t)

	rr := request(router, "definitely-not-a-real-token")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestRequireAuth_ValidSession(t *testing.T) {
	router, svc, _ := setupProtectedRouter(t)

	_, token, err := svc.Signup(context.Background(), "mw@example.com", "Sup3rSecret1", "")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	rr := request(router, token)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
}

func TestRequireAuth_ExpiredSessionRowStillRejected(t *testing.T) {
	router, svc, db := setupProtectedRouter(t)

	user, token, err := svc.Signup(context.Background(), "stale@example.com", "Sup3rSecret1", "")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if err := db.Model(&entities.Session{}).
		Where("user_id = ?", user.ID).
		Update("expires_at", time.Now().Add(-time.Second)).Error; err != nil {
		t.Fatalf("failed to age session: %v", err)
	}

	rr := request(router, token)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for an expired row that still exists", rr.Code)
	}
}

func TestRequireAuth_RejectionsAreIndistinguishable(t *testing.T) {
	router, svc, db := setupProtectedRouter(t)

	// Expired session for an existing user.
	user, expiredToken, err := svc.Signup(context.Background(), "a@example.com", "Sup3rSecret1", "")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if err := db.Model(&entities.Session{}).
		Where("user_id = ?", user.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("failed to age session: %v", err)
	}

	missing := request(router, "")
	unknown := request(router, "no-such-token")
	expired := request(router, expiredToken)

	for _, rr := range []*httptest.ResponseRecorder{missing, unknown, expired} {
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
	}
	if missing.Body.String() != unknown.Body.String() || unknown.Body.String() != expired.Body.String() {
		t.Error("rejection bodies must not reveal which validity check failed")
	}
}

func TestRequireAuth_NoSlidingExpiration(t *testing.T) {
	router, svc, db := setupProtectedRouter(t)

	user, token, err := svc.Signup(context.Background(), "fixed@example.com", "Sup3rSecret1", "")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	var before entities.Session
	if err := db.First(&before, "user_id = ?", user.ID).Error; err != nil {
		t.Fatalf("expected a session row: %v", err)
	}

	if rr := request(router, token); rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var after entities.Session
	if err := db.First(&after, "user_id = ?", user.ID).Error; err != nil {
		t.Fatalf("expected a session row: %v", err)
	}
	if !after.ExpiresAt.Equal(before.ExpiresAt) {
		t.Error("middleware must not extend session expiry")
	}
}
