package models

import "time"

const (
	FeeKindDelivery = "delivery"
	FeeKindPacking  = "packing"
)

// FeeTier is a threshold-tiered fee: the tier with the highest MinAmount not
// exceeding the order subtotal applies.
type FeeTier struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind      string `gorm:"type:varchar(16);not null;index" json:"kind"`
	MinAmount string `gorm:"type:decimal(18,2);not null" json:"min_amount"`
	Fee       string `gorm:"type:decimal(18,2);not null" json:"fee"`
	IsActive  bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
