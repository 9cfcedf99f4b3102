package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
	"github.com/tsjr00/inpersonmarketplace-sub007/internal/repositories"
)

// NotificationPayload is the event data the registry renderers work from.
type NotificationPayload struct {
	OrderID     string `json:"order_id"`
	OrderItemID string `json:"order_item_id,omitempty"`
	ListingName string `json:"listing_name,omitempty"`
	VendorName  string `json:"vendor_name,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`
	RefundCents int64  `json:"refund_cents,omitempty"`
	FeeCents    int64  `json:"fee_cents,omitempty"`
}

// notificationSpec is one entry of the closed registry: how to render a
// notification type and where it goes.
type notificationSpec struct {
	title     func(NotificationPayload) string
	message   func(NotificationPayload) string
	actionURL func(NotificationPayload) string
	urgency   models.Urgency
	audience  models.Audience
}

func buyerOrderURL(p NotificationPayload) string {
	return fmt.Sprintf("/orders/%s", p.OrderID)
}

func vendorOrderURL(p NotificationPayload) string {
	return fmt.Sprintf("/vendor/orders/%s", p.OrderID)
}

// registry maps every NotificationType to its renderers, urgency and
// audience. Adding a type to models.AllNotificationTypes without an entry
// here fails the registry test.
var registry = map[models.NotificationType]notificationSpec{
	models.NotifyOrderReceived: {
		title: func(p NotificationPayload) string { return "New order received" },
		message: func(p NotificationPayload) string {
			return fmt.Sprintf("You have a new order for %d x %s.", p.Quantity, p.ListingName)
		},
		actionURL: vendorOrderURL,
		urgency:   models.UrgencyImmediate,
		audience:  models.AudienceVendor,
	},
	models.NotifyOrderConfirmed: {
		title: func(p NotificationPayload) string { return "Order confirmed" },
		message: func(p NotificationPayload) string {
			return fmt.Sprintf("%s confirmed your order for %s.", p.VendorName, p.ListingName)
		},
		actionURL: buyerOrderURL,
		urgency:   models.UrgencyStandard,
		audience:  models.AudienceBuyer,
	},
	models.NotifyOrderReady: {
		title: func(p NotificationPayload) string { return "Order ready for pickup" },
		message: func(p NotificationPayload) string {
			return fmt.Sprintf("Your order for %s is ready. Head to %s to pick it up.", p.ListingName, p.VendorName)
		},
		actionURL: buyerOrderURL,
		urgency:   models.UrgencyUrgent,
		audience:  models.AudienceBuyer,
	},
	models.NotifyOrderFulfilled: {
		title: func(p NotificationPayload) string { return "Order picked up" },
		message: func(p NotificationPayload) string {
			return fmt.Sprintf("Your order for %s has been handed off.", p.ListingName)
		},
		actionURL: buyerOrderURL,
		urgency:   models.UrgencyStandard,
		audience:  models.AudienceBuyer,
	},
	models.NotifyOrderCompleted: {
		title: func(p NotificationPayload) string { return "Order complete" },
		message: func(p NotificationPayload) string {
			return fmt.Sprintf("Your order for %s is complete. Thanks for shopping!", p.ListingName)
		},
		actionURL: buyerOrderURL,
		urgency:   models.UrgencyInfo,
		audience:  models.AudienceBuyer,
	},
	models.NotifyOrderCancelledBuyer: {
		title: func(p NotificationPayload) string { return "Order cancelled" },
		message: func(p NotificationPayload) string {
			if p.FeeCents > 0 {
				return fmt.Sprintf("Your order for %s was cancelled. A refund of %d cents is on its way; a cancellation fee of %d cents was retained.", p.ListingName, p.RefundCents, p.FeeCents)
			}
			return fmt.Sprintf("Your order for %s was cancelled. A full refund of %d cents is on its way.", p.ListingName, p.RefundCents)
		},
		actionURL: buyerOrderURL,
		urgency:   models.UrgencyStandard,
		audience:  models.AudienceBuyer,
	},
	models.NotifyOrderCancelledVendor: {
		title: func(p NotificationPayload) string { return "Order cancelled" },
		message: func(p NotificationPayload) string {
			return fmt.Sprintf("The order for %d x %s was cancelled.", p.Quantity, p.ListingName)
		},
		actionURL: vendorOrderURL,
		urgency:   models.UrgencyImmediate,
		audience:  models.AudienceVendor,
	},
	models.NotifyOrderExpiredBuyer: {
		title: func(p NotificationPayload) string { return "Order expired" },
		message: func(p NotificationPayload) string {
			return fmt.Sprintf("Your order for %s expired and a refund of %d cents is on its way.", p.ListingName, p.RefundCents)
		},
		actionURL: buyerOrderURL,
		urgency:   models.UrgencyStandard,
		audience:  models.AudienceBuyer,
	},
	models.NotifyOrderExpiredVendor: {
		title: func(p NotificationPayload) string { return "Order expired" },
		message: func(p NotificationPayload) string {
			return fmt.Sprintf("The order for %d x %s expired before pickup.", p.Quantity, p.ListingName)
		},
		actionURL: vendorOrderURL,
		urgency:   models.UrgencyStandard,
		audience:  models.AudienceVendor,
	},
}

// ChannelsFor maps an urgency tier to its delivery channel set.
func ChannelsFor(urgency models.Urgency) []models.Channel {
	switch urgency {
	case models.UrgencyImmediate:
		return []models.Channel{models.ChannelPush, models.ChannelInApp}
	case models.UrgencyUrgent:
		return []models.Channel{models.ChannelPush, models.ChannelInApp, models.ChannelSMS}
	default: // standard, info
		return []models.Channel{models.ChannelEmail, models.ChannelInApp}
	}
}

// DeliveryPublisher enqueues a rendered notification for one channel.
// Implemented by the RabbitMQ client.
type DeliveryPublisher interface {
	PublishDelivery(channel models.Channel, body []byte) error
}

// DeliveryTask is the message placed on a channel's delivery queue.
type DeliveryTask struct {
	NotificationID string         `json:"notification_id"`
	Channel        models.Channel `json:"channel"`
	RecipientID    string         `json:"recipient_id"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	ActionURL      string         `json:"action_url"`
}

// NotificationService renders lifecycle events into persisted notification
// records and enqueues delivery to each resolved channel. Delivery is best
// effort: enqueue failures are logged and never fail the triggering
// transition.
type NotificationService struct {
	repo      repositories.NotificationRepository
	publisher DeliveryPublisher
}

// NewNotificationService creates a new NotificationService. publisher may be
// nil, in which case deliveries are skipped and only the record is kept.
func NewNotificationService(repo repositories.NotificationRepository, publisher DeliveryPublisher) *NotificationService {
	return &NotificationService{
		repo:      repo,
		publisher: publisher,
	}
}

// Dispatch renders and persists one notification and enqueues its channel
// deliveries.
func (s *NotificationService) Dispatch(typ models.NotificationType, recipientID string, payload NotificationPayload) error {
	spec, ok := registry[typ]
	if !ok {
		return fmt.Errorf("unregistered notification type %s: %w", typ, ErrValidation)
	}

	n := &models.Notification{
		RecipientID: recipientID,
		Type:        typ,
		Urgency:     spec.urgency,
		Audience:    spec.audience,
		Title:       spec.title(payload),
		Message:     spec.message(payload),
		ActionURL:   spec.actionURL(payload),
	}
	if err := s.repo.Create(n); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	if s.publisher == nil {
		log.Printf("Delivery publisher not configured; skipping delivery for notification %s", n.ID)
		return nil
	}
	for _, channel := range ChannelsFor(spec.urgency) {
		task := DeliveryTask{
			NotificationID: n.ID,
			Channel:        channel,
			RecipientID:    recipientID,
			Title:          n.Title,
			Message:        n.Message,
			ActionURL:      n.ActionURL,
		}
		body, err := json.Marshal(task)
		if err != nil {
			log.Printf("Warning: failed to marshal delivery task for notification %s: %v", n.ID, err)
			continue
		}
		if err := s.publisher.PublishDelivery(channel, body); err != nil {
			log.Printf("Warning: failed to enqueue %s delivery for notification %s: %v", channel, n.ID, err)
		}
	}
	return nil
}

// DispatchTransition resolves the notification types for a lifecycle
// transition and dispatches each to its audience's recipient. All failures
// are logged and swallowed.
func (s *NotificationService) DispatchTransition(order *models.Order, item *models.OrderItem, to models.ItemStatus, payload NotificationPayload) {
	for _, typ := range typesForTransition(to) {
		recipientID := order.BuyerID
		if registry[typ].audience == models.AudienceVendor {
			recipientID = item.VendorID
		}
		if err := s.Dispatch(typ, recipientID, payload); err != nil {
			log.Printf("Warning: failed to dispatch %s for item %s: %v", typ, item.ID, err)
		}
	}
}

// typesForTransition maps a new item status to the notification types it
// triggers.
func typesForTransition(to models.ItemStatus) []models.NotificationType {
	switch to {
	case models.ItemStatusConfirmed:
		return []models.NotificationType{models.NotifyOrderConfirmed}
	case models.ItemStatusReady:
		return []models.NotificationType{models.NotifyOrderReady}
	case models.ItemStatusFulfilled:
		return []models.NotificationType{models.NotifyOrderFulfilled}
	case models.ItemStatusCompleted:
		return []models.NotificationType{models.NotifyOrderCompleted}
	case models.ItemStatusCancelled:
		return []models.NotificationType{models.NotifyOrderCancelledBuyer, models.NotifyOrderCancelledVendor}
	case models.ItemStatusExpired:
		return []models.NotificationType{models.NotifyOrderExpiredBuyer, models.NotifyOrderExpiredVendor}
	default:
		return nil
	}
}

// ListForRecipient returns the recipient's notifications.
func (s *NotificationService) ListForRecipient(recipientID string) ([]models.Notification, error) {
	return s.repo.ByRecipient(recipientID)
}

// MarkRead sets the read timestamp on the recipient's own notification.
func (s *NotificationService) MarkRead(id, recipientID string) error {
	return s.repo.MarkRead(id, recipientID, time.Now())
}
