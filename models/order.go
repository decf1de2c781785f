package models

import (
	"time"
)

// Order statuses. Transitions only move forward, see CanTransition.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
)

var orderStatusRank = map[string]int{
	OrderStatusPending:   0,
	OrderStatusPreparing: 1,
	OrderStatusReady:     2,
	OrderStatusCompleted: 3,
}

type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	TableNumber int         `gorm:"not null;index" json:"table_number"`
	OrderNumber int         `gorm:"not null" json:"order_number"`
	Status      string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalBGN    float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_bgn"`
	TotalEUR    float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_eur"`
	IsPaid      bool        `gorm:"not null;default:false" json:"is_paid"`
	CreatedAt   time.Time   `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
}

// IsValidOrderStatus reports whether s is one of the known order statuses.
func IsValidOrderStatus(s string) bool {
	_, ok := orderStatusRank[s]
	return ok
}

// CanTransition reports whether an order may move from its current status to
// next. Skipping ahead is allowed (pending => completed), going back or
// re-applying the same status is not.
func (o *Order) CanTransition(next string) bool {
	from, ok := orderStatusRank[o.Status]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// ActiveOrderStatuses are the statuses shown on the staff dashboard.
func ActiveOrderStatuses() []string {
	return []string{OrderStatusPending, OrderStatusPreparing, OrderStatusReady}
}
