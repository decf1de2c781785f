package models

import (
	"fmt"
	"time"
)

// BarTable maps a printed QR short link (/t/{table_number}) to a live
// destination. TableNumber is immutable once provisioned; RedirectURL may be
// changed at any time without reprinting the code.
type BarTable struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	TableNumber   int        `gorm:"not null;uniqueIndex" json:"table_number"`
	TableName     string     `gorm:"type:varchar(100)" json:"table_name"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	RedirectURL   *string    `gorm:"type:varchar(500)" json:"redirect_url,omitempty"`
	ScanCount     int64      `gorm:"not null;default:0" json:"scan_count"`
	LastScannedAt *time.Time `json:"last_scanned_at,omitempty"`
	QRCodePNG     []byte     `gorm:"type:blob" json:"-"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

// ShortPath is the stable path printed inside the QR code.
func (t *BarTable) ShortPath() string {
	return fmt.Sprintf("/t/%d", t.TableNumber)
}

// Destination resolves where a scan of this table should land.
func (t *BarTable) Destination() string {
	if t.RedirectURL != nil && *t.RedirectURL != "" {
		return *t.RedirectURL
	}
	return fmt.Sprintf("/order?table=%d", t.TableNumber)
}
