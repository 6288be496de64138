package settings

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"printease-system/internal/database/models"
)

// SelectFee picks the applicable fee for a subtotal: among active tiers of
// the kind, the one with the highest MinAmount not exceeding the subtotal
// wins. No matching tier means no fee.
func SelectFee(tiers []models.FeeTier, kind string, subtotal decimal.Decimal) decimal.Decimal {
	best := decimal.Zero
	bestMin := decimal.NewFromInt(-1)
	for _, tier := range tiers {
		if tier.Kind != kind || !tier.IsActive {
			continue
		}
		min, err := decimal.NewFromString(tier.MinAmount)
		if err != nil {
			continue
		}
		if min.GreaterThan(subtotal) {
			continue
		}
		if min.GreaterThan(bestMin) {
			bestMin = min
			fee, err := decimal.NewFromString(tier.Fee)
			if err != nil {
				fee = decimal.Zero
			}
			best = fee
		}
	}
	return best
}

// OrderFees resolves the delivery and packing fees for a subtotal from the
// active tiers in the database.
func OrderFees(db *gorm.DB, subtotal decimal.Decimal) (delivery, packing decimal.Decimal, err error) {
	var tiers []models.FeeTier
	if err := db.Where("is_active = ?", true).Find(&tiers).Error; err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return SelectFee(tiers, models.FeeKindDelivery, subtotal),
		SelectFee(tiers, models.FeeKindPacking, subtotal),
		nil
}
