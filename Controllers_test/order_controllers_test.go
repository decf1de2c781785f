package Controllers_test

import (
	"bytes"
	"encoding/json"
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
	"barmenu-backend/services"
	"barmenu-backend/staff"
	"barmenu-backend/utils"
)

func setupTestDBForOrders(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.DayCounter{}, &models.PushSubscription{})
	if err != nil {
		panic(err)
	}
	return db
}

func setupOrderRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	notifier := services.NewNotifier(db, staff.NewHub(), nil, 0)
	orderCtrl := controllers.NewOrderController(db, notifier, services.CounterAllocator{})
	router.POST("/orders", orderCtrl.CreateOrder)
	router.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
	router.GET("/orders/all", orderCtrl.GetAllOrders)
	router.GET("/orders/active", orderCtrl.GetActiveOrders)
	router.GET("/orders/completed", orderCtrl.GetCompletedOrders)
	return router
}

func postOrder(t *testing.T, router *gin.Engine, payload map[string]interface{}) *httptest.ResponseRecorder {
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)
	req, err := http.NewRequest("POST", "/orders", bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func espressoOrder(table int) map[string]interface{} {
	return map[string]interface{}{
		"table_number": table,
		"items": []map[string]interface{}{
			{
				"product_id":   "p1",
				"product_name": "Espresso",
				"price_bgn":    3.50,
				"quantity":     2,
			},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	w := postOrder(t, router, espressoOrder(5))
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Order created", resp["message"])

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["order_number"])

	order := data["order"].(map[string]interface{})
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, float64(5), order["table_number"])
	assert.InDelta(t, 7.00, order["total_bgn"].(float64), 0.001)
	assert.InDelta(t, 3.58, order["total_eur"].(float64), 0.001)
	assert.Nil(t, order["completed_at"])

	items := order["items"].([]interface{})
	assert.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "Espresso", item["product_name"])
	assert.Equal(t, float64(2), item["quantity"])
	assert.InDelta(t, 3.50, item["price_bgn"].(float64), 0.001)
	assert.InDelta(t, 1.79, item["price_eur"].(float64), 0.001)
}

func TestCreateOrderValidation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	// Missing table number
	w := postOrder(t, router, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "p1", "product_name": "Espresso", "price_bgn": 3.5, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Empty items
	w = postOrder(t, router, map[string]interface{}{
		"table_number": 5,
		"items":        []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Non-positive quantity
	w = postOrder(t, router, map[string]interface{}{
		"table_number": 5,
		"items": []map[string]interface{}{
			{"product_id": "p1", "product_name": "Espresso", "price_bgn": 3.5, "quantity": 0},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing was persisted
	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestOrderNumbersSequentialPerDay(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	seen := map[float64]bool{}
	for i := 1; i <= 3; i++ {
		w := postOrder(t, router, espressoOrder(i))
		assert.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		number := resp["data"].(map[string]interface{})["order_number"].(float64)
		assert.Equal(t, float64(i), number)
		assert.False(t, seen[number], "order number assigned twice")
		seen[number] = true
	}
}

func patchStatus(t *testing.T, router *gin.Engine, orderID uint, status string) *httptest.ResponseRecorder {
	payloadBytes, _ := json.Marshal(map[string]string{"status": status})
	req, err := http.NewRequest("PATCH", fmt.Sprintf("/orders/%d/status", orderID), bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOrderStatusTransitions(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	w := postOrder(t, router, espressoOrder(5))
	assert.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	assert.NoError(t, db.First(&order).Error)

	// Forward transitions succeed and completed_at stays empty until the end
	w = patchStatus(t, router, order.ID, "preparing")
	assert.Equal(t, http.StatusOK, w.Code)
	db.First(&order, order.ID)
	assert.Equal(t, "preparing", order.Status)
	assert.Nil(t, order.CompletedAt)

	w = patchStatus(t, router, order.ID, "ready")
	assert.Equal(t, http.StatusOK, w.Code)

	w = patchStatus(t, router, order.ID, "completed")
	assert.Equal(t, http.StatusOK, w.Code)
	db.First(&order, order.ID)
	assert.Equal(t, "completed", order.Status)
	assert.NotNil(t, order.CompletedAt)

	// Backward and repeated transitions are rejected
	w = patchStatus(t, router, order.ID, "preparing")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = patchStatus(t, router, order.ID, "completed")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown status value
	w = patchStatus(t, router, order.ID, "cancelled")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The rejected transitions changed nothing
	db.First(&order, order.ID)
	assert.Equal(t, "completed", order.Status)
	assert.NotNil(t, order.CompletedAt)
}

func TestOrderListFilters(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	for i := 0; i < 3; i++ {
		w := postOrder(t, router, espressoOrder(i+1))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
	// Complete the first order
	var first models.Order
	assert.NoError(t, db.Order("id ASC").First(&first).Error)
	w := patchStatus(t, router, first.ID, "completed")
	assert.Equal(t, http.StatusOK, w.Code)

	listLen := func(path string) int {
		req, _ := http.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return len(resp["data"].([]interface{}))
	}

	assert.Equal(t, 3, listLen("/orders/all"))
	assert.Equal(t, 2, listLen("/orders/active"))
	assert.Equal(t, 1, listLen("/orders/completed"))
}
