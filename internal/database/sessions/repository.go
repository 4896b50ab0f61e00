// Package sessions provides database operations for server-side sessions.
// Rows hold only the SHA-256 digest of the client token.
package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"grantscope/internal/database"
	"grantscope/internal/entities"
)

// Repository handles all session database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sessions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores a new session row.
func (r *Repository) Insert(ctx context.Context, session *entities.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return database.TranslateError(err)
	}
	return nil
}

// FindActiveUser resolves a token digest to its owning user in a single
// joined query. The session must exist, must not be expired at now, and the
// user must be active; any failing condition yields database.ErrNotFound so
// callers cannot tell which check failed.
func (r *Repository) FindActiveUser(ctx context.Context, tokenHash string, now time.Time) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Joins("INNER JOIN sessions ON sessions.user_id = users.id").
		Where("sessions.token_hash = ? AND sessions.expires_at > ? AND users.is_active = ?", tokenHash, now, true).
		First(&user).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &user, nil
}

// DeleteByTokenHash removes the session with the given digest. Deleting an
// absent session is not an error, which makes logout idempotent.
func (r *Repository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Delete(&entities.Session{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions that expired before the cutoff and returns
// how many rows were swept. Expired sessions are already rejected lazily at
// validation time; this only bounds table growth.
func (r *Repository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", before).
		Delete(&entities.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// CountForUser returns the number of live sessions a user holds. Used by the
// account endpoint; concurrent sessions per user are allowed.
func (r *Repository) CountForUser(ctx context.Context, userID string, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Session{}).
		Where("user_id = ? AND expires_at > ?", userID, now).
		Count(&count).Error
	return count, err
}
