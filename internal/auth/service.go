package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"grantscope/internal/config"
	"grantscope/internal/database"
	"grantscope/internal/entities"
	"grantscope/internal/validation"
)

// UserStore is the user repository consumed by the service.
type UserStore interface {
	Create(ctx context.Context, user *entities.User) error
	FindByEmail(ctx context.Context, email string) (*entities.UserForAuth, error)
	FindByID(ctx context.Context, id string) (*entities.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// SessionStore is the session repository consumed by the service and middleware.
type SessionStore interface {
	Insert(ctx context.Context, session *entities.Session) error
	FindActiveUser(ctx context.Context, tokenHash string, now time.Time) (*entities.User, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	CountForUser(ctx context.Context, userID string, now time.Time) (int64, error)
}

// Service orchestrates signup, login and logout. It owns the write path for
// password hashes and session rows, and it never touches cookies: callers
// receive the plaintext token exactly once and decide how to deliver it.
type Service struct {
	users    UserStore
	sessions SessionStore
	config   config.Auth

	now func() time.Time // override in tests
}

// NewService creates a new authentication service.
func NewService(users UserStore, sessions SessionStore, cfg config.Auth) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		config:   cfg,
		now:      time.Now,
	}
}

// Signup registers a new account and opens its first session. Returns the
// created user and the plaintext session token.
func (s *Service) Signup(ctx context.Context, email, password, fullName string) (*entities.User, string, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validation.ValidatePassword(password, s.config.PasswordMinLength); err != nil {
		return nil, "", err
	}

	// Advisory pre-check only: it saves the hashing cost for the common case,
	// but two concurrent signups can both pass it. The unique constraint on
	// the insert below is the authoritative signal.
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := HashPassword(password, SchemeArgon2)
	if err != nil {
		log.Printf("auth: hashing failed during signup: %v", err)
		return nil, "", err
	}

	user := &entities.User{
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies credentials and opens a new session. An unknown email and a
// wrong password return the identical ErrInvalidCredentials; nothing in the
// response distinguishes the two. Each login creates a fresh session, so a
// user may hold several concurrent sessions.
func (s *Service) Login(ctx context.Context, email, password string) (*entities.User, string, error) {
	userForAuth, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := VerifyPassword(password, userForAuth.PasswordHash)
	if err != nil {
		// A stored hash we cannot parse is an operational problem, not a
		// wrong password. Log the detail, keep the response opaque.
		log.Printf("auth: password verification error for user %s: %v", userForAuth.ID, err)
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	// Stamp before loading so the returned user carries this login's time.
	if err := s.users.UpdateLastLogin(ctx, userForAuth.ID, s.now()); err != nil {
		return nil, "", fmt.Errorf("failed to update last login: %w", err)
	}

	user, err := s.users.FindByID(ctx, userForAuth.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}

	token, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Logout deletes the session matching the token. Logging out an absent or
// already-deleted session succeeds, so the operation is idempotent.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteByTokenHash(ctx, HashToken(token))
}

// ValidateSession resolves a plaintext token to the owning user's context.
// A missing session, an expired session and a deactivated user all collapse
// to ErrSessionInvalid.
func (s *Service) ValidateSession(ctx context.Context, token string) (*UserCtx, error) {
	if token == "" {
		return nil, ErrSessionInvalid
	}

	user, err := s.sessions.FindActiveUser(ctx, HashToken(token), s.now())
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			log.Printf("auth: session lookup failed: %v", err)
		}
		return nil, ErrSessionInvalid
	}

	return &UserCtx{UserID: user.ID, Email: user.Email}, nil
}

// CurrentUser loads the full user record for an authenticated request.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*entities.User, error) {
	return s.users.FindByID(ctx, userID)
}

// ActiveSessionCount returns how many live sessions the user currently holds.
func (s *Service) ActiveSessionCount(ctx context.Context, userID string) (int64, error) {
	return s.sessions.CountForUser(ctx, userID, s.now())
}

func (s *Service) createSession(ctx context.Context, userID string) (string, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	now := s.now()
	session := &entities.Session{
		UserID:    userID,
		TokenHash: HashToken(token),
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.SessionDuration()),
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return token, nil
}
