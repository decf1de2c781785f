package models

import (
	"time"
)

// PushSubscription is a registered staff browser/device. Subscriptions are
// never hard-deleted; delivery failures with a terminal status code flip
// IsActive off instead.
type PushSubscription struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Endpoint   string     `gorm:"type:varchar(500);not null;uniqueIndex" json:"endpoint"`
	P256dh     string     `gorm:"type:varchar(255);not null" json:"p256dh"`
	Auth       string     `gorm:"type:varchar(255);not null" json:"auth"`
	IsActive   bool       `gorm:"not null;default:true" json:"is_active"`
	LastUsed   *time.Time `json:"last_used,omitempty"`
	DeviceName string     `gorm:"type:varchar(100)" json:"device_name"`
	UserAgent  string     `gorm:"type:varchar(255)" json:"user_agent"`
	StaffID    *uint      `gorm:"index" json:"staff_id,omitempty"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
}
