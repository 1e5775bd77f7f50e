package repository

import (
	"context"

	"github.com/premiumgate/premiumgate/app/models"
	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a notification repository backed by GORM.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.PaymentNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) MarkProcessed(ctx context.Context, id uint, result NotificationUpdate) error {
	processedAt := result.ProcessedAt
	updates := map[string]interface{}{
		"payment_status":   result.PaymentStatus,
		"outcome":          result.Outcome,
		"user_id":          result.UserID,
		"processing_error": result.ProcessingError,
		"processed_at":     &processedAt,
	}
	return r.db.WithContext(ctx).Model(&models.PaymentNotification{}).Where("id = ?", id).Updates(updates).Error
}

func (r *notificationRepository) ListByPaymentID(ctx context.Context, paymentID string) ([]models.PaymentNotification, error) {
	var out []models.PaymentNotification
	err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).Order("id").Find(&out).Error
	return out, err
}
