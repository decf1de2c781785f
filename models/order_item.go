package models

import (
	"time"
)

// OrderItem is a line of an order. Name and unit prices are snapshots taken
// at order time, so later product edits never change past orders. ProductName
// always holds the Bulgarian name regardless of the customer's locale.
type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order       Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID   string    `gorm:"type:varchar(64);not null" json:"product_id"`
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	PriceBGN    float64   `gorm:"type:decimal(10,2);not null" json:"price_bgn"`
	PriceEUR    float64   `gorm:"type:decimal(10,2);not null" json:"price_eur"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}
