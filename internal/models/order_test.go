package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
)

func items(statuses ...models.ItemStatus) []models.OrderItem {
	out := make([]models.OrderItem, len(statuses))
	for i, s := range statuses {
		out[i] = models.OrderItem{Status: s}
	}
	return out
}

func TestDeriveOrderStatus(t *testing.T) {
	tests := []struct {
		name     string
		items    []models.OrderItem
		expected models.OrderStatus
	}{
		{"no items", nil, models.OrderStatusPending},
		{"all pending", items(models.ItemStatusPending, models.ItemStatusPending), models.OrderStatusPending},
		{"one confirmed", items(models.ItemStatusPending, models.ItemStatusConfirmed), models.OrderStatusActive},
		{"mixed progress", items(models.ItemStatusReady, models.ItemStatusFulfilled), models.OrderStatusActive},
		{"all completed", items(models.ItemStatusCompleted, models.ItemStatusCompleted), models.OrderStatusCompleted},
		{"completed and cancelled", items(models.ItemStatusCompleted, models.ItemStatusCancelled), models.OrderStatusCompleted},
		{"all cancelled", items(models.ItemStatusCancelled, models.ItemStatusCancelled), models.OrderStatusCancelled},
		{"cancelled and expired", items(models.ItemStatusCancelled, models.ItemStatusExpired), models.OrderStatusCancelled},
		{"cancelled with live item", items(models.ItemStatusCancelled, models.ItemStatusPending), models.OrderStatusActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, models.DeriveOrderStatus(tt.items))
		})
	}
}

func TestItemStatusTerminal(t *testing.T) {
	for _, s := range []models.ItemStatus{models.ItemStatusCompleted, models.ItemStatusCancelled, models.ItemStatusExpired} {
		assert.True(t, s.Terminal(), "%s", s)
	}
	for _, s := range []models.ItemStatus{models.ItemStatusPending, models.ItemStatusConfirmed, models.ItemStatusReady, models.ItemStatusFulfilled} {
		assert.False(t, s.Terminal(), "%s", s)
	}
}
