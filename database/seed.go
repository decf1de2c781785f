package database

import (
	"fmt"

	"gorm.io/gorm"

	"barmenu-backend/models"
	"barmenu-backend/utils"
)

// SeedTables provisions bar tables 1..count. Idempotent: existing rows are
// left untouched so admin edits (redirects, active gates, scan counters)
// survive restarts.
func SeedTables(db *gorm.DB, count int) error {
	created := 0
	for n := 1; n <= count; n++ {
		table := models.BarTable{
			TableNumber: n,
			TableName:   fmt.Sprintf("Table %d", n),
			IsActive:    true,
		}
		res := db.Where("table_number = ?", n).FirstOrCreate(&table)
		if res.Error != nil {
			return fmt.Errorf("seed table %d: %w", n, res.Error)
		}
		if res.RowsAffected > 0 {
			created++
		}
	}
	if created > 0 {
		utils.InfoLogger.Printf("Seeded %d new tables (total %d)", created, count)
	}
	return nil
}
