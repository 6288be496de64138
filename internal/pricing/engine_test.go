package pricing

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decEqual(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s, want %s", name, got.String(), want)
	}
}

func fixtureService() Service {
	return Service{
		ID:               1,
		Name:             "Document Printing",
		BasePricePerPage: dec("2"),
		PrintTypes: []Option{
			{Value: "bw"},
			{Value: "color", PricePerPage: dec("5")},
		},
		PaperSizes: []Option{
			{Value: "a4"},
			{Value: "a3", PricePerPage: dec("3")},
		},
		PaperTypes: []Option{
			{Value: "standard"},
			{Value: "glossy", PricePerCopy: dec("15")},
		},
		GSMOptions: []Option{
			{Value: "75"},
			{Value: "100", PricePerPage: dec("1")},
		},
		PrintSides: []Option{
			{Value: "single-side"},
			{Value: "double-side", PricePerPage: dec("0.5")},
		},
		BindingOptions: []BindingOption{
			{Option: Option{Value: "none"}},
			{Option: Option{Value: "spiral", PricePerCopy: dec("50")}, MinPages: 20},
			{Option: Option{Value: "perfect", PricePerCopy: dec("120")}, MinPages: 50},
		},
	}
}

func TestCalculateItemPricing_EndToEnd(t *testing.T) {
	service := fixtureService()
	config := Configuration{
		PrintType:     "color",
		PaperSize:     "a4",
		PrintSide:     "single-side",
		BindingOption: "spiral",
		Copies:        3,
	}

	p := CalculateItemPricing(service, config, 25)

	decEqual(t, "pricePerPage", p.PricePerPage, "7")
	if p.TotalPages != 25 {
		t.Fatalf("totalPages = %d, want 25", p.TotalPages)
	}
	decEqual(t, "bindingPrice", p.BindingPrice, "50")
	if !p.BindingIsPerCopy {
		t.Fatalf("binding surcharge should be per-copy")
	}
	// 7*25*3 + 50*3
	decEqual(t, "subtotal", p.Subtotal, "675")
}

// Every combination of zero/nonzero surcharges across the five non-binding
// categories must route its contribution to exactly one accumulator,
// selected by which price field is positive.
func TestCalculateItemPricing_Additivity(t *testing.T) {
	const pageCount = 10
	const copies = 2

	type category struct {
		name    string
		perPage string // surcharge when enabled, per-page mode
		perCopy string // surcharge when enabled, per-copy mode
	}
	categories := []category{
		{name: "print_type", perPage: "5"},
		{name: "paper_size", perPage: "3"},
		{name: "paper_type", perCopy: "15"},
		{name: "gsm", perPage: "1"},
		{name: "print_side", perCopy: "4"},
	}

	for mask := 0; mask < 1<<len(categories); mask++ {
		mask := mask
		t.Run(fmt.Sprintf("mask_%05b", mask), func(t *testing.T) {
			service := Service{BasePricePerPage: dec("2")}
			expectedPerPage := dec("2")
			expectedPerCopy := decimal.Zero

			build := func(c category, enabled bool) []Option {
				opt := Option{Value: "sel"}
				if enabled {
					if c.perPage != "" {
						opt.PricePerPage = dec(c.perPage)
						expectedPerPage = expectedPerPage.Add(opt.PricePerPage)
					} else {
						opt.PricePerCopy = dec(c.perCopy)
						expectedPerCopy = expectedPerCopy.Add(opt.PricePerCopy)
					}
				}
				return []Option{opt}
			}

			service.PrintTypes = build(categories[0], mask&1 != 0)
			service.PaperSizes = build(categories[1], mask&2 != 0)
			service.PaperTypes = build(categories[2], mask&4 != 0)
			service.GSMOptions = build(categories[3], mask&8 != 0)
			service.PrintSides = build(categories[4], mask&16 != 0)

			config := Configuration{
				PrintType: "sel",
				PaperSize: "sel",
				PaperType: "sel",
				GSM:       "sel",
				PrintSide: "sel",
				Copies:    copies,
			}

			p := CalculateItemPricing(service, config, pageCount)

			want := expectedPerPage.
				Mul(decimal.NewFromInt(pageCount)).
				Mul(decimal.NewFromInt(copies)).
				Add(expectedPerCopy.Mul(decimal.NewFromInt(copies)))
			decEqual(t, "subtotal", p.Subtotal, want.String())
		})
	}
}

func TestCalculateItemPricing_DuplexHalving(t *testing.T) {
	service := fixtureService()

	cases := []struct {
		pageCount int
		want      int
	}{
		{1, 1}, {2, 1}, {3, 2}, {4, 2}, {99, 50}, {100, 50},
	}
	for _, tc := range cases {
		config := Configuration{PrintSide: "double-side", Copies: 1}
		p := CalculateItemPricing(service, config, tc.pageCount)
		if p.TotalPages != tc.want {
			t.Fatalf("double-side totalPages(%d) = %d, want %d", tc.pageCount, p.TotalPages, tc.want)
		}

		single := CalculateItemPricing(service, Configuration{PrintSide: "single-side", Copies: 1}, tc.pageCount)
		if single.TotalPages != tc.pageCount {
			t.Fatalf("single-side totalPages(%d) = %d, want unchanged", tc.pageCount, single.TotalPages)
		}
	}
}

func TestCalculateItemPricing_MissingOptionContributesZero(t *testing.T) {
	service := fixtureService()
	config := Configuration{
		PrintType: "holographic", // not in catalog
		PaperSize: "a4",
		Copies:    1,
	}

	p := CalculateItemPricing(service, config, 10)

	decEqual(t, "printTypePrice", p.PrintTypePrice, "0")
	decEqual(t, "pricePerPage", p.PricePerPage, "2")
	decEqual(t, "subtotal", p.Subtotal, "20")
}

func TestCalculateItemPricing_ZeroPagesPerCopyOnly(t *testing.T) {
	service := fixtureService()
	config := Configuration{
		PaperType:     "glossy",
		BindingOption: "none",
		Copies:        4,
	}

	p := CalculateItemPricing(service, config, 0)

	// 15 per copy from glossy paper, nothing per-page survives zero pages.
	decEqual(t, "subtotal", p.Subtotal, "60")
}

// A binding option with both prices at zero is still per-copy mode. The
// non-binding categories default the same case to per-page. The asymmetry is
// deliberate behavioral parity, not an accident of this port.
func TestCalculateItemPricing_BindingModeAsymmetry(t *testing.T) {
	service := Service{
		BasePricePerPage: dec("1"),
		PrintTypes:       []Option{{Value: "bw"}},
		BindingOptions:   []BindingOption{{Option: Option{Value: "none"}}},
	}
	config := Configuration{PrintType: "bw", BindingOption: "none", Copies: 1}

	p := CalculateItemPricing(service, config, 5)

	if p.PrintTypeIsPerCopy {
		t.Fatalf("zero/zero non-binding option should default to per-page mode")
	}
	if !p.BindingIsPerCopy {
		t.Fatalf("zero/zero binding option should default to per-copy mode")
	}
	decEqual(t, "bindingPrice", p.BindingPrice, "0")
}

func TestCalculateItemPricing_Idempotent(t *testing.T) {
	service := fixtureService()
	config := Configuration{
		PrintType:     "color",
		PaperSize:     "a3",
		PaperType:     "glossy",
		GSM:           "100",
		PrintSide:     "double-side",
		BindingOption: "spiral",
		Copies:        7,
	}

	first := CalculateItemPricing(service, config, 33)
	second := CalculateItemPricing(service, config, 33)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different breakdowns:\n%+v\n%+v", first, second)
	}
}

func TestAvailableBindingOptions_ThresholdBands(t *testing.T) {
	service := fixtureService() // thresholds 0, 20, 50

	cases := []struct {
		pageCount int
		want      []string
	}{
		{10, []string{"none"}},
		{35, []string{"spiral"}},
		{100, []string{"perfect"}},
	}
	for _, tc := range cases {
		got := AvailableBindingOptions(service, tc.pageCount)
		var values []string
		for _, opt := range got {
			values = append(values, opt.Value)
		}
		if !reflect.DeepEqual(values, tc.want) {
			t.Fatalf("available(%d) = %v, want %v", tc.pageCount, values, tc.want)
		}
	}
}

func TestAvailableBindingOptions_EmptyWithoutZeroTier(t *testing.T) {
	service := Service{
		BindingOptions: []BindingOption{
			{Option: Option{Value: "spiral"}, MinPages: 20},
			{Option: Option{Value: "perfect"}, MinPages: 50},
		},
	}

	if got := AvailableBindingOptions(service, 0); got != nil {
		t.Fatalf("expected no bindings at 0 pages, got %v", got)
	}
}

func TestAvailableBindingOptions_TiesAtSameThreshold(t *testing.T) {
	service := Service{
		BindingOptions: []BindingOption{
			{Option: Option{Value: "spiral"}, MinPages: 20},
			{Option: Option{Value: "wiro"}, MinPages: 20},
			{Option: Option{Value: "none"}},
		},
	}

	got := AvailableBindingOptions(service, 25)
	if len(got) != 2 || got[0].Value != "spiral" || got[1].Value != "wiro" {
		t.Fatalf("expected both 20-page tiers, got %v", got)
	}
}

func TestInvalidFields(t *testing.T) {
	service := fixtureService()
	config := Configuration{
		PrintType:     "color",
		PaperSize:     "b5",      // unknown
		BindingOption: "perfect", // locked below 50 pages
		Copies:        1,
	}

	got := InvalidFields(service, config, 30)
	want := []string{"paper_size", "binding_option"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("InvalidFields = %v, want %v", got, want)
	}
}
