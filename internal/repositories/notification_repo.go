package repositories

import (
	"time"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
)

// NotificationRepository defines the interface for notification records.
// Rows are created once per dispatched event and mutated only to set the
// read timestamp.
type NotificationRepository interface {
	Create(n *models.Notification) error
	ByRecipient(recipientID string) ([]models.Notification, error)

	// MarkRead sets ReadAt for the recipient's own notification.
	// ErrNotFound when the row does not exist or belongs to someone else.
	MarkRead(id, recipientID string, at time.Time) error
}
