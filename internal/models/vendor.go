package models

import "gorm.io/gorm"

// Vendor is a seller on the marketplace. PaymentsEnabled mirrors the
// vendor's managed account state at the payment processor; confirming an
// order item requires it to be true.
type Vendor struct {
	ID                 string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	DisplayName        string `json:"display_name" gorm:"type:varchar(200)" validate:"required,min=1,max=200"`
	VerticalID         string `json:"vertical_id" gorm:"type:varchar(36);index"`
	ProcessorAccountID string `json:"processor_account_id" gorm:"uniqueIndex;type:varchar(64)"`
	PaymentsEnabled    bool   `json:"payments_enabled"`
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
