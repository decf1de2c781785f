package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"barmenu-backend/models"
	"barmenu-backend/utils"
)

type TableController struct {
	DB *gorm.DB
	// PublicBaseURL is the absolute origin baked into generated QR codes.
	PublicBaseURL string
}

func NewTableController(db *gorm.DB, publicBaseURL string) *TableController {
	return &TableController{DB: db, PublicBaseURL: publicBaseURL}
}

// GetAllTables -> admin list with scan counters.
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.BarTable
	if err := tc.DB.Order("table_number ASC").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// UpdateTable -> admin edits name, active gate or redirect destination.
// TableNumber itself is immutable; printed codes keep working.
func (tc *TableController) UpdateTable(c *gin.Context) {
	number := c.Param("table_number")

	var body struct {
		TableName   *string `json:"table_name"`
		IsActive    *bool   `json:"is_active"`
		RedirectURL *string `json:"redirect_url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.BarTable
	if err := tc.DB.Where("table_number = ?", number).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if body.TableName != nil {
		table.TableName = *body.TableName
	}
	if body.IsActive != nil {
		table.IsActive = *body.IsActive
	}
	if body.RedirectURL != nil {
		if *body.RedirectURL == "" {
			// Empty string resets to the computed default destination.
			table.RedirectURL = nil
		} else {
			table.RedirectURL = body.RedirectURL
		}
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Table %d updated (active=%v, redirect=%v)",
		table.TableNumber, table.IsActive, table.RedirectURL)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// GetTableQR -> PNG of the table's short link, generated once and cached on
// the row. The code always encodes /t/{n}; destination edits never require
// reprinting.
func (tc *TableController) GetTableQR(c *gin.Context) {
	number := c.Param("table_number")

	var table models.BarTable
	if err := tc.DB.Where("table_number = ?", number).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if len(table.QRCodePNG) == 0 {
		png, err := qrcode.Encode(tc.PublicBaseURL+table.ShortPath(), qrcode.Medium, 512)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		table.QRCodePNG = png
		if err := tc.DB.Model(&table).Update("qr_code_png", png).Error; err != nil {
			// Cache miss next time, still serve the artifact now.
			utils.ErrorLogger.Printf("cache QR for table %d: %v", table.TableNumber, err)
		}
	}

	c.Data(http.StatusOK, "image/png", table.QRCodePNG)
}
