package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"grantscope/internal/config"
	"grantscope/internal/database"
	"grantscope/internal/database/sessions"
	"grantscope/internal/database/users"
	"grantscope/internal/entities"
)

func testAuthConfig() config.Auth {
	return config.Auth{
		SessionDurationDays: 7,
		PasswordMinLength:   8,
	}
}

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&entities.User{}, &entities.Session{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	svc := NewService(users.NewRepository(db), sessions.NewRepository(db), testAuthConfig())
	return svc, db
}

func TestService_Signup(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, "u1@example.com", "Sup3rSecret1", "User One")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if user.ID == "" {
		t.Error("user should get an ID")
	}
	if user.Email != "u1@example.com" {
		t.Errorf("email = %q", user.Email)
	}
	if !user.IsActive {
		t.Error("new users should be active")
	}
	if len(token) != SessionTokenLength {
		t.Errorf("token length = %d, want %d", len(token), SessionTokenLength)
	}

	// Only the digest lands in storage.
	var session entities.Session
	if err := db.First(&session, "user_id = ?", user.ID).Error; err != nil {
		t.Fatalf("expected a session row: %v", err)
	}
	if session.TokenHash != HashToken(token) {
		t.Error("stored hash should be the digest of the issued token")
	}
	if session.TokenHash == token {
		t.Error("plaintext token must never be persisted")
	}
}

func TestService_Signup_Validation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "Sup3rSecret1"},
		{"malformed email", "not-an-email", "Sup3rSecret1"},
		{"empty password", "ok@example.com", ""},
		{"short password", "ok@example.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Signup(ctx, tt.email, tt.password, "")
			if err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestService_Signup_DuplicateEmail(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	if _, _, err := svc.Signup(ctx, "dup@example.com", "Sup3rSecret1", ""); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	_, _, err := svc.Signup(ctx, "dup@example.com", "An0therSecret", "")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("second signup error = %v, want ErrEmailTaken", err)
	}
}

// raceUserStore simulates two concurrent signups racing past the advisory
// existence check: the lookup reports no user, the insert then hits the
// unique constraint.
type raceUserStore struct {
	UserStore
}

func (s *raceUserStore) FindByEmail(ctx context.Context, email string) (*entities.UserForAuth, error) {
	return nil, database.ErrNotFound
}

func (s *raceUserStore) Create(ctx context.Context, user *entities.User) error {
	return database.ErrDuplicate
}

func TestService_Signup_ConstraintViolationIsEmailTaken(t *testing.T) {
	svc, _ := setupService(t)
	svc.users = &raceUserStore{UserStore: svc.users}

	_, _, err := svc.Signup(context.Background(), "race@example.com", "Sup3rSecret1", "")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("constraint violation should surface as ErrEmailTaken, got %v", err)
	}
}

func TestService_Login_EnumerationResistance(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	if _, _, err := svc.Signup(ctx, "real@x.com", "Sup3rSecret1", ""); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	_, _, errUnknown := svc.Login(ctx, "nobody@x.com", "anything1234")
	_, _, errWrongPwd := svc.Login(ctx, "real@x.com", "wrongpass123")

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", errUnknown)
	}
	if !errors.Is(errWrongPwd, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", errWrongPwd)
	}
	// Byte-identical: same sentinel value, same message.
	if errUnknown.Error() != errWrongPwd.Error() {
		t.Errorf("error messages differ: %q vs %q", errUnknown, errWrongPwd)
	}
}

func TestService_Login_Success(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, signupToken, err := svc.Signup(ctx, "login@example.com", "Sup3rSecret1", "Log In")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	user, loginToken, err := svc.Login(ctx, "login@example.com", "Sup3rSecret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.LastLoginAt == nil {
		t.Error("last_login_at should be stamped on login")
	}
	if loginToken == signupToken {
		t.Error("each login must issue a distinct token")
	}

	// Both sessions are independently valid (no single-session invariant).
	for _, token := range []string{signupToken, loginToken} {
		if _, err := svc.ValidateSession(ctx, token); err != nil {
			t.Errorf("ValidateSession(%q...) error = %v", token[:8], err)
		}
	}
}

func TestService_Login_StampsInjectedClock(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	if _, _, err := svc.Signup(ctx, "clock@example.com", "Sup3rSecret1", ""); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	// The login stamp must come from the service clock, not a direct
	// time.Now() inside the repository.
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	user, _, err := svc.Login(ctx, "clock@example.com", "Sup3rSecret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.LastLoginAt == nil || !user.LastLoginAt.Equal(fixed) {
		t.Errorf("LastLoginAt = %v, want %v", user.LastLoginAt, fixed)
	}
}

func TestService_Logout(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, token, err := svc.Signup(ctx, "out@example.com", "Sup3rSecret1", "")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := svc.ValidateSession(ctx, token); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("session should be invalid after logout, got %v", err)
	}

	// Idempotent: a second logout of the same token is not an error.
	if err := svc.Logout(ctx, token); err != nil {
		t.Errorf("repeated Logout() error = %v", err)
	}
}

func TestService_SessionExpiryArithmetic(t *testing.T) {
	svc, db := setupService(t)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	user, _, err := svc.Signup(context.Background(), "clock@example.com", "Sup3rSecret1", "")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	var session entities.Session
	if err := db.First(&session, "user_id = ?", user.ID).Error; err != nil {
		t.Fatalf("expected a session row: %v", err)
	}

	want := time.Duration(testAuthConfig().SessionDurationDays) * 24 * time.Hour
	if got := session.ExpiresAt.Sub(session.CreatedAt); got != want {
		t.Errorf("expires_at - created_at = %v, want %v", got, want)
	}
}

func TestService_ValidateSession_Expired(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, "exp@example.com", "Sup3rSecret1", "")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	// Age the row directly in the store: the row exists but is expired.
	expired := time.Now().Add(-time.Second)
	if err := db.Model(&entities.Session{}).
		Where("user_id = ?", user.ID).
		Update("expires_at", expired).Error; err != nil {
		t.Fatalf("failed to age session: %v", err)
	}

	if _, err := svc.ValidateSession(ctx, token); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("expired session should be rejected, got %v", err)
	}
}

func TestService_ValidateSession_DeactivatedUser(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, "gone@example.com", "Sup3rSecret1", "")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if err := db.Model(&entities.User{}).
		Where("id = ?", user.ID).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate user: %v", err)
	}

	if _, err := svc.ValidateSession(ctx, token); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("deactivated user's session should be rejected, got %v", err)
	}
}

func TestService_ValidateSession_EmptyToken(t *testing.T) {
	svc, _ := setupService(t)

	if _, err := svc.ValidateSession(context.Background(), ""); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("empty token should be rejected, got %v", err)
	}
}
