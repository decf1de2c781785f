package models

import (
	"strings"
	"time"
)

const (
	CallTypePaymentCash = "payment_cash"
	CallTypePaymentCard = "payment_card"
	CallTypeHelp        = "help"
)

const (
	CallStatusPending      = "pending"
	CallStatusAcknowledged = "acknowledged"
	CallStatusCompleted    = "completed"
)

// WaiterCall is a table-side request for staff. Status moves
// pending => acknowledged => completed, the acknowledge step may be skipped.
type WaiterCall struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	TableNumber    int        `gorm:"not null;index" json:"table_number"`
	CallType       string     `gorm:"type:varchar(20);not null" json:"call_type"`
	Message        string     `gorm:"type:text" json:"message"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt      time.Time  `gorm:"not null;index" json:"created_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// IsValidCallType reports whether t is a known call type.
func IsValidCallType(t string) bool {
	switch t {
	case CallTypePaymentCash, CallTypePaymentCard, CallTypeHelp:
		return true
	}
	return false
}

// IsUrgent marks payment calls so the dashboard can prioritise them.
func (wc *WaiterCall) IsUrgent() bool {
	return strings.HasPrefix(wc.CallType, "payment")
}
