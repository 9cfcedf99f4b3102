package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
)

// GORMNotificationRepository is a GORM implementation of NotificationRepository.
type GORMNotificationRepository struct {
	db *gorm.DB
}

// NewGORMNotificationRepository creates a new instance of GORMNotificationRepository.
func NewGORMNotificationRepository(db *gorm.DB) *GORMNotificationRepository {
	return &GORMNotificationRepository{
		db: db,
	}
}

// Create persists a notification record.
func (r *GORMNotificationRepository) Create(n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if err := r.db.Create(n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ByRecipient returns the recipient's notifications, newest first.
func (r *GORMNotificationRepository) ByRecipient(recipientID string) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at desc").
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to get notifications for %s: %w", recipientID, err)
	}
	return notifications, nil
}

// MarkRead sets the read timestamp for the recipient's own notification.
func (r *GORMNotificationRepository) MarkRead(id, recipientID string, at time.Time) error {
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("read_at", at)
	if res.Error != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	return nil
}
