package models

import (
	"time"

	"gorm.io/gorm"
)

// NotificationType is the closed set of dispatchable events. Adding a type
// here requires a matching registry entry in the dispatcher; the registry
// test walks AllNotificationTypes to enforce that.
type NotificationType string

const (
	NotifyOrderReceived        NotificationType = "order_received"
	NotifyOrderConfirmed       NotificationType = "order_confirmed"
	NotifyOrderReady           NotificationType = "order_ready"
	NotifyOrderFulfilled       NotificationType = "order_fulfilled"
	NotifyOrderCompleted       NotificationType = "order_completed"
	NotifyOrderCancelledBuyer  NotificationType = "order_cancelled_buyer"
	NotifyOrderCancelledVendor NotificationType = "order_cancelled_vendor"
	NotifyOrderExpiredBuyer    NotificationType = "order_expired_buyer"
	NotifyOrderExpiredVendor   NotificationType = "order_expired_vendor"
)

// AllNotificationTypes enumerates every dispatchable type.
var AllNotificationTypes = []NotificationType{
	NotifyOrderReceived,
	NotifyOrderConfirmed,
	NotifyOrderReady,
	NotifyOrderFulfilled,
	NotifyOrderCompleted,
	NotifyOrderCancelledBuyer,
	NotifyOrderCancelledVendor,
	NotifyOrderExpiredBuyer,
	NotifyOrderExpiredVendor,
}

// Urgency tiers map to delivery channel sets.
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyStandard  Urgency = "standard"
	UrgencyInfo      Urgency = "info"
)

// Audience identifies which side of the marketplace a notification targets.
type Audience string

const (
	AudienceBuyer  Audience = "buyer"
	AudienceVendor Audience = "vendor"
)

// Channel is a delivery transport.
type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
	ChannelInApp Channel = "inapp"
)

// Notification is a persisted, per-recipient notification record. It is
// created once per dispatched event and mutated only to set ReadAt.
type Notification struct {
	ID          string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RecipientID string           `json:"recipient_id" gorm:"type:varchar(36);index" validate:"required"`
	Type        NotificationType `json:"type" validate:"required"`
	Urgency     Urgency          `json:"urgency"`
	Audience    Audience         `json:"audience"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	ActionURL   string           `json:"action_url"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
	gorm.Model
}
