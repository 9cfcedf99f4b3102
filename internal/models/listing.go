package models

import "gorm.io/gorm"

// Listing is a vendor's sellable item. A nil Quantity means unlimited
// inventory; when set it is never negative. Quantity is decremented by the
// atomic reservation at checkout and incremented only through restoration.
type Listing struct {
	ID             string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	VendorID       string `json:"vendor_id" gorm:"type:varchar(36);index" validate:"required"`
	VerticalID     string `json:"vertical_id" gorm:"type:varchar(36);index"`
	Name           string `json:"name" validate:"required,min=1,max=200"`
	Description    string `json:"description" validate:"omitempty,max=500"`
	UnitPriceCents int64  `json:"unit_price_cents" validate:"required,gt=0"`
	Quantity       *int64 `json:"quantity" validate:"omitempty,gte=0"` // nil = unlimited
	gorm.Model     // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Unlimited reports whether the listing has no inventory cap.
func (l *Listing) Unlimited() bool {
	return l.Quantity == nil
}
