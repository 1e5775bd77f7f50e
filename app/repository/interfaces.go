package repository

import (
	"context"
	"errors"
	"time"

	"github.com/premiumgate/premiumgate/app/models"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateEmail is returned by UserRepository.Create when the email is taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = gorm.ErrRecordNotFound
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ActivateSubscription sets subscribed=true. It reports whether this call
	// performed the transition; a user who is already subscribed yields false.
	ActivateSubscription(ctx context.Context, id uint) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountSubscribed(ctx context.Context) (int64, error)
}

// NotificationRepository persists the webhook audit trail.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.PaymentNotification) error
	MarkProcessed(ctx context.Context, id uint, result NotificationUpdate) error
	ListByPaymentID(ctx context.Context, paymentID string) ([]models.PaymentNotification, error)
}

// NotificationUpdate carries the processing outcome written back to a notification.
type NotificationUpdate struct {
	PaymentStatus   string
	Outcome         string
	UserID          *uint
	ProcessingError string
	ProcessedAt     time.Time
}

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Notification NotificationRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
