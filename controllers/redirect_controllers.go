package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"barmenu-backend/models"
	"barmenu-backend/utils"
)

type RedirectController struct {
	DB *gorm.DB
	// Fallback is where malformed, unknown and inactive tokens land. All
	// three cases look identical to the visitor.
	Fallback string
}

func NewRedirectController(db *gorm.DB, fallback string) *RedirectController {
	return &RedirectController{DB: db, Fallback: fallback}
}

// Resolve -> GET /t/{token}. Always answers with a redirect, never an error
// page: a printed QR code must not strand a customer on a 404.
func (rc *RedirectController) Resolve(c *gin.Context) {
	token := c.Param("token")

	number, err := strconv.Atoi(token)
	if err != nil || number <= 0 {
		c.Redirect(http.StatusFound, rc.Fallback)
		return
	}

	var table models.BarTable
	if err := rc.DB.Where("table_number = ?", number).First(&table).Error; err != nil {
		c.Redirect(http.StatusFound, rc.Fallback)
		return
	}
	if !table.IsActive {
		c.Redirect(http.StatusFound, rc.Fallback)
		return
	}

	// Scan tracking is best-effort; a failed counter update must not block
	// the redirect.
	now := time.Now()
	if err := rc.DB.Model(&models.BarTable{}).
		Where("id = ?", table.ID).
		Updates(map[string]interface{}{
			"scan_count":      gorm.Expr("scan_count + 1"),
			"last_scanned_at": now,
		}).Error; err != nil {
		utils.ErrorLogger.Printf("scan tracking for table %d: %v", table.TableNumber, err)
	}

	c.Redirect(http.StatusFound, table.Destination())
}
