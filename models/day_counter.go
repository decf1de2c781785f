package models

// DayCounter backs the per-day order numbering. One row per calendar day,
// incremented atomically inside the order-creation transaction.
type DayCounter struct {
	Day   string `gorm:"primaryKey;type:varchar(10)"`
	Count int    `gorm:"not null;default:0"`
}
