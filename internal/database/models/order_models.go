package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusPrinting   = "printing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"

	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// orderStatusRank orders the forward-only delivery pipeline. Cancelled sits
// outside the pipeline and is handled separately.
var orderStatusRank = map[string]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusProcessing: 2,
	OrderStatusPrinting:   3,
	OrderStatusShipped:    4,
	OrderStatusDelivered:  5,
}

func CanTransitionOrderStatus(from, to string) bool {
	if from == OrderStatusCancelled || from == OrderStatusDelivered {
		return false
	}
	if to == OrderStatusCancelled {
		return from == OrderStatusPending || from == OrderStatusConfirmed
	}
	fromRank, ok := orderStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := orderStatusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// CanCancelOrder gates user-initiated cancellation. Once an order is paid or
// has entered production it can no longer be cancelled by the customer.
func CanCancelOrder(status, paymentStatus string) bool {
	if paymentStatus == PaymentStatusPaid {
		return false
	}
	return status == OrderStatusPending || status == OrderStatusConfirmed
}

func CanTransitionPaymentStatus(from, to string) bool {
	switch from {
	case PaymentStatusPending:
		return to == PaymentStatusPaid || to == PaymentStatusFailed
	case PaymentStatusPaid:
		return to == PaymentStatusRefunded
	case PaymentStatusFailed:
		return to == PaymentStatusPaid
	}
	return false
}

// Configuration is the customer's selection, one value per option category.
type Configuration struct {
	PrintType     string `json:"print_type"`
	PaperSize     string `json:"paper_size"`
	PaperType     string `json:"paper_type"`
	GSM           string `json:"gsm"`
	PrintSide     string `json:"print_side"`
	BindingOption string `json:"binding_option"`
	Copies        int    `json:"copies"`
}

func (c *Configuration) Scan(value interface{}) error {
	if value == nil {
		*c = Configuration{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan Configuration: %v", value)
	}
	return json.Unmarshal(bytes, c)
}

func (c Configuration) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// PricingSnapshot is the frozen per-item price breakdown stored with the
// order. Later catalog edits never change it.
type PricingSnapshot struct {
	BasePricePerPage   string `json:"base_price_per_page"`
	PrintTypePrice     string `json:"print_type_price"`
	PrintTypeIsPerCopy bool   `json:"print_type_is_per_copy"`
	PaperSizePrice     string `json:"paper_size_price"`
	PaperSizeIsPerCopy bool   `json:"paper_size_is_per_copy"`
	PaperTypePrice     string `json:"paper_type_price"`
	PaperTypeIsPerCopy bool   `json:"paper_type_is_per_copy"`
	GSMPrice           string `json:"gsm_price"`
	GSMIsPerCopy       bool   `json:"gsm_is_per_copy"`
	PrintSidePrice     string `json:"print_side_price"`
	PrintSideIsPerCopy bool   `json:"print_side_is_per_copy"`
	BindingPrice       string `json:"binding_price"`
	BindingIsPerCopy   bool   `json:"binding_is_per_copy"`
	PricePerPage       string `json:"price_per_page"`
	TotalPages         int    `json:"total_pages"`
	Copies             int    `json:"copies"`
	Subtotal           string `json:"subtotal"`
}

func (p *PricingSnapshot) Scan(value interface{}) error {
	if value == nil {
		*p = PricingSnapshot{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan PricingSnapshot: %v", value)
	}
	return json.Unmarshal(bytes, p)
}

func (p PricingSnapshot) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// ServiceSnapshot freezes the service definition the item was priced against.
type ServiceSnapshot struct {
	Service
}

func (s *ServiceSnapshot) Scan(value interface{}) error {
	if value == nil {
		*s = ServiceSnapshot{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan ServiceSnapshot: %v", value)
	}
	return json.Unmarshal(bytes, s)
}

func (s ServiceSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

type Order struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`
	UserID      *int64 `gorm:"index" json:"user_id,omitempty"`

	CustomerName  string `gorm:"type:varchar(128);not null" json:"customer_name"`
	CustomerEmail string `gorm:"type:varchar(128);not null" json:"customer_email"`
	CustomerPhone string `gorm:"type:varchar(32);not null" json:"customer_phone"`

	DeliveryAddress string `gorm:"type:text;not null" json:"delivery_address"`
	DeliveryCity    string `gorm:"type:varchar(64);not null" json:"delivery_city"`
	DeliveryState   string `gorm:"type:varchar(64);not null" json:"delivery_state"`
	DeliveryPincode string `gorm:"type:varchar(16);not null" json:"delivery_pincode"`

	Subtotal    string `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	DeliveryFee string `gorm:"type:decimal(18,2);not null;default:'0.00'" json:"delivery_fee"`
	PackingFee  string `gorm:"type:decimal(18,2);not null;default:'0.00'" json:"packing_fee"`
	TotalAmount string `gorm:"type:decimal(18,2);not null" json:"total_amount"`

	Status        string `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	PaymentStatus string `gorm:"type:varchar(16);not null;default:'pending'" json:"payment_status"`

	PaymentOrderID *string `gorm:"type:varchar(64)" json:"payment_order_id,omitempty"`
	PaymentID      *string `gorm:"type:varchar(64)" json:"payment_id,omitempty"`

	Notes *string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

type OrderItem struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64  `gorm:"index;not null" json:"order_id"`
	ServiceID   int64  `gorm:"not null" json:"service_id"`
	ServiceName string `gorm:"type:varchar(128);not null" json:"service_name"`

	FileName string `gorm:"type:varchar(256);not null" json:"file_name"`
	FileURL  string `gorm:"type:varchar(512);not null" json:"file_url"`

	PageCount int `gorm:"not null" json:"page_count"`

	ServiceSnapshot ServiceSnapshot `gorm:"type:jsonb" json:"service_snapshot"`
	Configuration   Configuration   `gorm:"type:jsonb" json:"configuration"`
	Pricing         PricingSnapshot `gorm:"type:jsonb" json:"pricing"`

	Subtotal  string    `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	CreatedAt time.Time `json:"created_at"`
}
