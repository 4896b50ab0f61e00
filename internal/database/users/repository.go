// Package users provides database operations for user accounts.
package users

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"grantscope/internal/database"
	"grantscope/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user. A unique-constraint violation on the email
// column is reported as database.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, user *entities.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return database.TranslateError(err)
	}
	return nil
}

// FindByEmail loads the minimal projection needed to verify a login.
// Deactivated accounts are invisible here.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*entities.UserForAuth, error) {
	var user entities.UserForAuth
	err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Select("id", "email", "password_hash").
		Where("email = ? AND is_active = ?", email, true).
		First(&user).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &user, nil
}

// FindByID retrieves an active user by ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&user).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &user, nil
}

// UpdateLastLogin stamps a successful login. The caller supplies the
// timestamp so the login time and the session clock come from the same source.
func (r *Repository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"last_login_at": at, "updated_at": at})
	if result.Error != nil {
		return fmt.Errorf("failed to update last login: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}
