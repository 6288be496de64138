package models

import "time"

const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusClosed    = "closed"
)

// QuotationLead is captured for customQuotation services instead of a
// configured order.
type QuotationLead struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	ServiceID   int64   `gorm:"index;not null" json:"service_id"`
	ServiceName string  `gorm:"type:varchar(128);not null" json:"service_name"`
	Name        string  `gorm:"type:varchar(128);not null" json:"name"`
	Email       string  `gorm:"type:varchar(128);not null" json:"email"`
	Phone       string  `gorm:"type:varchar(32);not null" json:"phone"`
	Message     string  `gorm:"type:text" json:"message"`
	Status      string  `gorm:"type:varchar(16);not null;default:'new'" json:"status"`
	AdminNotes  *string `gorm:"type:text" json:"admin_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func CanTransitionLeadStatus(from, to string) bool {
	switch from {
	case LeadStatusNew:
		return to == LeadStatusContacted || to == LeadStatusClosed
	case LeadStatusContacted:
		return to == LeadStatusClosed
	}
	return false
}
