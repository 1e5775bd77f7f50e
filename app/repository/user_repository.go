package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/premiumgate/premiumgate/app/models"
	"gorm.io/gorm"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	exists, err := r.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateEmail
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		// Lost a race against a concurrent registration with the same email.
		if exists, lookupErr := r.ExistsByEmail(ctx, user.Email); lookupErr == nil && exists {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ActivateSubscription flips the flag with a single conditional UPDATE so that
// the webhook and the return redirect can race without a read-modify-write.
func (r *userRepository) ActivateSubscription(ctx context.Context, id uint) (bool, error) {
	now := time.Now()
	tx := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND subscribed = ?", id, false).
		Updates(map[string]interface{}{
			"subscribed":    true,
			"subscribed_at": &now,
		})
	if tx.Error != nil {
		return false, fmt.Errorf("activate subscription for user %d: %w", id, tx.Error)
	}
	if tx.RowsAffected > 0 {
		return true, nil
	}

	// Nothing changed: either already subscribed or no such user.
	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// Count returns the total number of users
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// CountSubscribed returns the number of users with an active subscription
func (r *userRepository) CountSubscribed(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("subscribed = ?", true).Count(&count).Error
	return count, err
}
