package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	ServiceStatusActive   = "active"
	ServiceStatusInactive = "inactive"
)

// PricingOption carries at most one positive pricing mode. A zero or empty
// price means no surcharge in that mode.
type PricingOption struct {
	Value        string `json:"value"`
	PricePerPage string `json:"price_per_page,omitempty"`
	PricePerCopy string `json:"price_per_copy,omitempty"`
}

type PriceRange struct {
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Price string `json:"price"`
}

// BindingOption becomes selectable once the document reaches MinPages.
type BindingOption struct {
	PricingOption
	MinPages    int          `json:"min_pages,omitempty"`
	FixedPrice  string       `json:"fixed_price,omitempty"`
	PriceRanges []PriceRange `json:"price_ranges,omitempty"`
}

type OptionList []PricingOption

func (a *OptionList) Scan(value interface{}) error {
	if value == nil {
		*a = OptionList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan OptionList: %v", value)
	}
	return json.Unmarshal(bytes, a)
}

func (a OptionList) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

type BindingOptionList []BindingOption

func (a *BindingOptionList) Scan(value interface{}) error {
	if value == nil {
		*a = BindingOptionList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan BindingOptionList: %v", value)
	}
	return json.Unmarshal(bytes, a)
}

func (a BindingOptionList) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

type Service struct {
	ID               int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string `gorm:"type:varchar(128);uniqueIndex;not null" json:"name"`
	Description      string `gorm:"type:text" json:"description"`
	BasePricePerPage string `gorm:"type:decimal(18,2);not null" json:"base_price_per_page"`
	CustomQuotation  bool   `gorm:"not null;default:false" json:"custom_quotation"`
	Status           string `gorm:"type:varchar(16);not null;default:'active'" json:"status"`

	PrintTypes     OptionList        `gorm:"type:jsonb" json:"print_types"`
	PaperSizes     OptionList        `gorm:"type:jsonb" json:"paper_sizes"`
	PaperTypes     OptionList        `gorm:"type:jsonb" json:"paper_types"`
	GSMOptions     OptionList        `gorm:"type:jsonb" json:"gsm_options"`
	PrintSides     OptionList        `gorm:"type:jsonb" json:"print_sides"`
	BindingOptions BindingOptionList `gorm:"type:jsonb" json:"binding_options"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
