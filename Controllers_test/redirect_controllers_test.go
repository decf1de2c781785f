package Controllers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"barmenu-backend/controllers"
	"barmenu-backend/models"
	"barmenu-backend/utils"
)

func setupTestDBForRedirects(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(&models.BarTable{}); err != nil {
		panic(err)
	}
	return db
}

func setupRedirectRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	redirectCtrl := controllers.NewRedirectController(db, "/menu")
	router.GET("/t/:token", redirectCtrl.Resolve)
	return router
}

func resolve(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/t/"+token, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestResolveFallbackIndistinguishable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForRedirects(t)
	db.Create(&models.BarTable{TableNumber: 7, TableName: "Table 7", IsActive: false})
	router := setupRedirectRouter(db)

	// Malformed token, unknown table and inactive table must be
	// indistinguishable from the outside.
	for _, token := range []string{"abc", "-1", "99", "7"} {
		w := resolve(router, token)
		assert.Equal(t, http.StatusFound, w.Code, "token %q", token)
		assert.Equal(t, "/menu", w.Header().Get("Location"), "token %q", token)
	}

	// The inactive table's scan counter did not move.
	var table models.BarTable
	db.Where("table_number = ?", 7).First(&table)
	assert.Equal(t, int64(0), table.ScanCount)
	assert.Nil(t, table.LastScannedAt)
}

func TestResolveActiveTableDefaultDestination(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForRedirects(t)
	db.Create(&models.BarTable{TableNumber: 5, TableName: "Table 5", IsActive: true})
	router := setupRedirectRouter(db)

	w := resolve(router, "5")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/order?table=5", w.Header().Get("Location"))

	var table models.BarTable
	db.Where("table_number = ?", 5).First(&table)
	assert.Equal(t, int64(1), table.ScanCount)
	assert.NotNil(t, table.LastScannedAt)

	// Each resolved scan increments by exactly one
	resolve(router, "5")
	resolve(router, "5")
	db.Where("table_number = ?", 5).First(&table)
	assert.Equal(t, int64(3), table.ScanCount)
}

func TestResolveCustomRedirect(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForRedirects(t)
	dest := "https://other-system.example.com/order/5"
	db.Create(&models.BarTable{TableNumber: 5, TableName: "Table 5", IsActive: true, RedirectURL: &dest})
	router := setupRedirectRouter(db)

	w := resolve(router, "5")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, dest, w.Header().Get("Location"))

	// Editing the destination takes effect without touching the short link
	newDest := "/specials"
	db.Model(&models.BarTable{}).Where("table_number = ?", 5).Update("redirect_url", newDest)

	w = resolve(router, "5")
	assert.Equal(t, newDest, w.Header().Get("Location"))
}
