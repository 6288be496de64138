package settings

import (
	"testing"

	"github.com/shopspring/decimal"

	"printease-system/internal/database/models"
)

func amount(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestSelectFee_HighestQualifyingTierWins(t *testing.T) {
	tiers := []models.FeeTier{
		{Kind: models.FeeKindDelivery, MinAmount: "0.00", Fee: "80.00", IsActive: true},
		{Kind: models.FeeKindDelivery, MinAmount: "500.00", Fee: "40.00", IsActive: true},
		{Kind: models.FeeKindDelivery, MinAmount: "1000.00", Fee: "0.00", IsActive: true},
		{Kind: models.FeeKindPacking, MinAmount: "0.00", Fee: "20.00", IsActive: true},
	}

	cases := []struct {
		subtotal string
		want     string
	}{
		{"100.00", "80"},
		{"499.99", "80"},
		{"500.00", "40"},
		{"999.99", "40"},
		{"1000.00", "0"},
		{"5000.00", "0"},
	}
	for _, tc := range cases {
		got := SelectFee(tiers, models.FeeKindDelivery, amount(t, tc.subtotal))
		if !got.Equal(amount(t, tc.want)) {
			t.Errorf("subtotal %s: fee = %s, want %s", tc.subtotal, got, tc.want)
		}
	}
}

func TestSelectFee_IgnoresInactiveAndOtherKinds(t *testing.T) {
	tiers := []models.FeeTier{
		{Kind: models.FeeKindDelivery, MinAmount: "0.00", Fee: "80.00", IsActive: false},
		{Kind: models.FeeKindPacking, MinAmount: "0.00", Fee: "20.00", IsActive: true},
	}

	if got := SelectFee(tiers, models.FeeKindDelivery, amount(t, "300.00")); !got.IsZero() {
		t.Errorf("inactive tier applied: fee = %s", got)
	}
	if got := SelectFee(tiers, models.FeeKindPacking, amount(t, "300.00")); !got.Equal(amount(t, "20")) {
		t.Errorf("packing fee = %s, want 20", got)
	}
}

func TestSelectFee_NoQualifyingTierMeansNoFee(t *testing.T) {
	tiers := []models.FeeTier{
		{Kind: models.FeeKindDelivery, MinAmount: "200.00", Fee: "40.00", IsActive: true},
	}
	if got := SelectFee(tiers, models.FeeKindDelivery, amount(t, "150.00")); !got.IsZero() {
		t.Errorf("fee = %s, want 0", got)
	}
}
