package pricing

import "github.com/shopspring/decimal"

// DoubleSided is the print-side value that halves the physical sheet count.
const DoubleSided = "double-side"

type Option struct {
	Value        string
	PricePerPage decimal.Decimal
	PricePerCopy decimal.Decimal
}

type PriceRange struct {
	Min   int
	Max   int
	Price decimal.Decimal
}

type BindingOption struct {
	Option
	MinPages    int
	FixedPrice  decimal.Decimal
	PriceRanges []PriceRange
}

// Service is a read-only catalog snapshot handed to the engine. The engine
// never fetches anything itself; cache invalidation belongs to the caller.
type Service struct {
	ID               int64
	Name             string
	BasePricePerPage decimal.Decimal
	CustomQuotation  bool
	PrintTypes       []Option
	PaperSizes       []Option
	PaperTypes       []Option
	GSMOptions       []Option
	PrintSides       []Option
	BindingOptions   []BindingOption
}

type Configuration struct {
	PrintType     string
	PaperSize     string
	PaperType     string
	GSM           string
	PrintSide     string
	BindingOption string
	Copies        int
}

type ItemPricing struct {
	BasePricePerPage decimal.Decimal

	PrintTypePrice     decimal.Decimal
	PrintTypeIsPerCopy bool
	PaperSizePrice     decimal.Decimal
	PaperSizeIsPerCopy bool
	PaperTypePrice     decimal.Decimal
	PaperTypeIsPerCopy bool
	GSMPrice           decimal.Decimal
	GSMIsPerCopy       bool
	PrintSidePrice     decimal.Decimal
	PrintSideIsPerCopy bool
	BindingPrice       decimal.Decimal
	BindingIsPerCopy   bool

	PricePerPage decimal.Decimal
	TotalPages   int
	Copies       int
	Subtotal     decimal.Decimal
}

func findOption(options []Option, value string) (Option, bool) {
	if value == "" {
		return Option{}, false
	}
	for _, opt := range options {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}

func findBindingOption(options []BindingOption, value string) (BindingOption, bool) {
	if value == "" {
		return BindingOption{}, false
	}
	for _, opt := range options {
		if opt.Value == value {
			return opt, true
		}
	}
	return BindingOption{}, false
}

// optionSurcharge resolves a non-binding option to its surcharge amount and
// mode. An option is per-copy only when pricePerCopy is positive and
// pricePerPage is zero; everything else, including the no-surcharge case,
// counts as per-page.
func optionSurcharge(opt Option, found bool) (decimal.Decimal, bool) {
	if !found {
		return decimal.Zero, false
	}
	if opt.PricePerCopy.IsPositive() && !opt.PricePerPage.IsPositive() {
		return opt.PricePerCopy, true
	}
	return opt.PricePerPage, false
}

// bindingSurcharge uses the inverted convention: binding is per-copy unless
// pricePerPage is positive. The zero/zero case is therefore per-copy here,
// the opposite of the other categories.
func bindingSurcharge(opt BindingOption, found bool) (decimal.Decimal, bool) {
	if !found {
		return decimal.Zero, true
	}
	if opt.PricePerPage.IsPositive() {
		return opt.PricePerPage, false
	}
	if opt.PricePerCopy.IsPositive() {
		return opt.PricePerCopy, true
	}
	return opt.FixedPrice, true
}

// CalculateItemPricing computes the full price breakdown for one line item.
// It is pure and never fails: an option value missing from the service lists
// contributes zero. Callers validate configurations and clamp copies to >= 1
// before invoking; the engine multiplies with whatever it is given.
func CalculateItemPricing(service Service, config Configuration, pageCount int) ItemPricing {
	p := ItemPricing{
		BasePricePerPage: service.BasePricePerPage,
		Copies:           config.Copies,
	}

	printType, ok := findOption(service.PrintTypes, config.PrintType)
	p.PrintTypePrice, p.PrintTypeIsPerCopy = optionSurcharge(printType, ok)

	paperSize, ok := findOption(service.PaperSizes, config.PaperSize)
	p.PaperSizePrice, p.PaperSizeIsPerCopy = optionSurcharge(paperSize, ok)

	paperType, ok := findOption(service.PaperTypes, config.PaperType)
	p.PaperTypePrice, p.PaperTypeIsPerCopy = optionSurcharge(paperType, ok)

	gsm, ok := findOption(service.GSMOptions, config.GSM)
	p.GSMPrice, p.GSMIsPerCopy = optionSurcharge(gsm, ok)

	printSide, ok := findOption(service.PrintSides, config.PrintSide)
	p.PrintSidePrice, p.PrintSideIsPerCopy = optionSurcharge(printSide, ok)

	binding, ok := findBindingOption(service.BindingOptions, config.BindingOption)
	p.BindingPrice, p.BindingIsPerCopy = bindingSurcharge(binding, ok)

	p.TotalPages = pageCount
	if config.PrintSide == DoubleSided {
		p.TotalPages = (pageCount + 1) / 2
	}

	perPage := service.BasePricePerPage
	perCopy := decimal.Zero

	accumulate := func(amount decimal.Decimal, isPerCopy bool) {
		if isPerCopy {
			perCopy = perCopy.Add(amount)
		} else {
			perPage = perPage.Add(amount)
		}
	}
	accumulate(p.PrintTypePrice, p.PrintTypeIsPerCopy)
	accumulate(p.PaperSizePrice, p.PaperSizeIsPerCopy)
	accumulate(p.PaperTypePrice, p.PaperTypeIsPerCopy)
	accumulate(p.GSMPrice, p.GSMIsPerCopy)
	accumulate(p.PrintSidePrice, p.PrintSideIsPerCopy)
	accumulate(p.BindingPrice, p.BindingIsPerCopy)

	p.PricePerPage = perPage

	copies := decimal.NewFromInt(int64(config.Copies))
	totalPages := decimal.NewFromInt(int64(p.TotalPages))
	p.Subtotal = perPage.Mul(totalPages).Mul(copies).Add(perCopy.Mul(copies))

	return p
}

// AvailableBindingOptions returns the binding choices unlocked at the given
// page count. Tiers unlock in bands: of all options whose MinPages threshold
// is satisfied, only the highest qualifying tier is offered. An empty result
// means binding is unavailable at this page count and must be surfaced as
// such, never silently defaulted.
func AvailableBindingOptions(service Service, pageCount int) []BindingOption {
	var satisfied []BindingOption
	for _, opt := range service.BindingOptions {
		if opt.MinPages == 0 || pageCount >= opt.MinPages {
			satisfied = append(satisfied, opt)
		}
	}
	if len(satisfied) == 0 {
		return nil
	}

	maxThreshold := 0
	for _, opt := range satisfied {
		if opt.MinPages > maxThreshold {
			maxThreshold = opt.MinPages
		}
	}

	var available []BindingOption
	for _, opt := range satisfied {
		if opt.MinPages == maxThreshold {
			available = append(available, opt)
		}
	}
	return available
}

// InvalidFields reports configuration values that do not exist in the
// service's option lists. The engine itself prices unknown values at zero,
// so callers use this to reject typos before trusting a breakdown.
func InvalidFields(service Service, config Configuration, pageCount int) []string {
	var invalid []string

	check := func(field, value string, options []Option) {
		if value == "" {
			return
		}
		if _, ok := findOption(options, value); !ok {
			invalid = append(invalid, field)
		}
	}
	check("print_type", config.PrintType, service.PrintTypes)
	check("paper_size", config.PaperSize, service.PaperSizes)
	check("paper_type", config.PaperType, service.PaperTypes)
	check("gsm", config.GSM, service.GSMOptions)
	check("print_side", config.PrintSide, service.PrintSides)

	if config.BindingOption != "" {
		available := AvailableBindingOptions(service, pageCount)
		if _, ok := findBindingOption(available, config.BindingOption); !ok {
			invalid = append(invalid, "binding_option")
		}
	}
	return invalid
}
