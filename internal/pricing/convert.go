package pricing

import (
	"github.com/shopspring/decimal"

	"printease-system/internal/database/models"
)

// parsePrice degrades unparsable amounts to zero, matching the engine's
// missing-option behavior. Write-time validation keeps garbage out of the
// catalog; a historical snapshot with a bad value still prices instead of
// failing.
func parsePrice(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func optionFromModel(m models.PricingOption) Option {
	return Option{
		Value:        m.Value,
		PricePerPage: parsePrice(m.PricePerPage),
		PricePerCopy: parsePrice(m.PricePerCopy),
	}
}

func optionsFromModel(list models.OptionList) []Option {
	options := make([]Option, 0, len(list))
	for _, m := range list {
		options = append(options, optionFromModel(m))
	}
	return options
}

func bindingFromModel(m models.BindingOption) BindingOption {
	ranges := make([]PriceRange, 0, len(m.PriceRanges))
	for _, r := range m.PriceRanges {
		ranges = append(ranges, PriceRange{Min: r.Min, Max: r.Max, Price: parsePrice(r.Price)})
	}
	return BindingOption{
		Option:      optionFromModel(m.PricingOption),
		MinPages:    m.MinPages,
		FixedPrice:  parsePrice(m.FixedPrice),
		PriceRanges: ranges,
	}
}

// ServiceFromModel builds the read-only snapshot the engine consumes.
func ServiceFromModel(m models.Service) Service {
	bindings := make([]BindingOption, 0, len(m.BindingOptions))
	for _, b := range m.BindingOptions {
		bindings = append(bindings, bindingFromModel(b))
	}
	return Service{
		ID:               m.ID,
		Name:             m.Name,
		BasePricePerPage: parsePrice(m.BasePricePerPage),
		CustomQuotation:  m.CustomQuotation,
		PrintTypes:       optionsFromModel(m.PrintTypes),
		PaperSizes:       optionsFromModel(m.PaperSizes),
		PaperTypes:       optionsFromModel(m.PaperTypes),
		GSMOptions:       optionsFromModel(m.GSMOptions),
		PrintSides:       optionsFromModel(m.PrintSides),
		BindingOptions:   bindings,
	}
}

func ConfigurationFromModel(c models.Configuration) Configuration {
	return Configuration{
		PrintType:     c.PrintType,
		PaperSize:     c.PaperSize,
		PaperType:     c.PaperType,
		GSM:           c.GSM,
		PrintSide:     c.PrintSide,
		BindingOption: c.BindingOption,
		Copies:        c.Copies,
	}
}

func ConfigurationToModel(c Configuration) models.Configuration {
	return models.Configuration{
		PrintType:     c.PrintType,
		PaperSize:     c.PaperSize,
		PaperType:     c.PaperType,
		GSM:           c.GSM,
		PrintSide:     c.PrintSide,
		BindingOption: c.BindingOption,
		Copies:        c.Copies,
	}
}

// Snapshot serializes a breakdown for storage with an order. Amounts are
// fixed to two decimal places; the admin and invoice views re-derive display
// strings from the IsPerCopy flags.
func (p ItemPricing) Snapshot() models.PricingSnapshot {
	return models.PricingSnapshot{
		BasePricePerPage:   p.BasePricePerPage.StringFixed(2),
		PrintTypePrice:     p.PrintTypePrice.StringFixed(2),
		PrintTypeIsPerCopy: p.PrintTypeIsPerCopy,
		PaperSizePrice:     p.PaperSizePrice.StringFixed(2),
		PaperSizeIsPerCopy: p.PaperSizeIsPerCopy,
		PaperTypePrice:     p.PaperTypePrice.StringFixed(2),
		PaperTypeIsPerCopy: p.PaperTypeIsPerCopy,
		GSMPrice:           p.GSMPrice.StringFixed(2),
		GSMIsPerCopy:       p.GSMIsPerCopy,
		PrintSidePrice:     p.PrintSidePrice.StringFixed(2),
		PrintSideIsPerCopy: p.PrintSideIsPerCopy,
		BindingPrice:       p.BindingPrice.StringFixed(2),
		BindingIsPerCopy:   p.BindingIsPerCopy,
		PricePerPage:       p.PricePerPage.StringFixed(2),
		TotalPages:         p.TotalPages,
		Copies:             p.Copies,
		Subtotal:           p.Subtotal.StringFixed(2),
	}
}

// BindingToModel converts an engine binding option back to its catalog shape
// for API responses.
func BindingToModel(b BindingOption) models.BindingOption {
	ranges := make([]models.PriceRange, 0, len(b.PriceRanges))
	for _, r := range b.PriceRanges {
		ranges = append(ranges, models.PriceRange{Min: r.Min, Max: r.Max, Price: r.Price.StringFixed(2)})
	}
	m := models.BindingOption{
		PricingOption: models.PricingOption{Value: b.Value},
		MinPages:      b.MinPages,
		PriceRanges:   ranges,
	}
	if b.PricePerPage.IsPositive() {
		m.PricePerPage = b.PricePerPage.StringFixed(2)
	}
	if b.PricePerCopy.IsPositive() {
		m.PricePerCopy = b.PricePerCopy.StringFixed(2)
	}
	if b.FixedPrice.IsPositive() {
		m.FixedPrice = b.FixedPrice.StringFixed(2)
	}
	return m
}
