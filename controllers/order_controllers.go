package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"barmenu-backend/models"
	"barmenu-backend/services"
	"barmenu-backend/utils"
)

type OrderController struct {
	DB       *gorm.DB
	Notifier *services.Notifier
	Numbers  services.OrderNumberAllocator
}

func NewOrderController(db *gorm.DB, notifier *services.Notifier, numbers services.OrderNumberAllocator) *OrderController {
	return &OrderController{DB: db, Notifier: notifier, Numbers: numbers}
}

// CreateOrder -> customer submits an order for a table.
// Order + items are written in one transaction; the per-day order number is
// allocated inside the same transaction so two simultaneous submissions
// cannot share a number.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	type ItemReq struct {
		ProductID   string  `json:"product_id"`
		ProductName string  `json:"product_name"`
		PriceBGN    float64 `json:"price_bgn"`
		Quantity    int     `json:"quantity"`
	}
	type ReqBody struct {
		TableNumber int       `json:"table_number"`
		Items       []ItemReq `json:"items"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidOrder)
		return
	}
	if body.TableNumber <= 0 || len(body.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidOrder)
		return
	}
	for _, it := range body.Items {
		if it.Quantity <= 0 || it.PriceBGN < 0 || it.ProductName == "" {
			utils.RespondError(c, http.StatusBadRequest, ErrInvalidOrder)
			return
		}
	}

	now := time.Now()
	var order models.Order

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		number, err := oc.Numbers.Next(c.Request.Context(), tx, now)
		if err != nil {
			return err
		}

		var totalBGN float64
		items := make([]models.OrderItem, 0, len(body.Items))
		for _, it := range body.Items {
			totalBGN += it.PriceBGN * float64(it.Quantity)
			items = append(items, models.OrderItem{
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				PriceBGN:    utils.Round2(it.PriceBGN),
				PriceEUR:    utils.BGNToEUR(it.PriceBGN),
				CreatedAt:   now,
			})
		}

		order = models.Order{
			TableNumber: body.TableNumber,
			OrderNumber: number,
			Status:      models.OrderStatusPending,
			TotalBGN:    utils.Round2(totalBGN),
			TotalEUR:    utils.BGNToEUR(totalBGN),
			CreatedAt:   now,
			UpdatedAt:   now,
			Items:       items,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Reload with items for the notification payload and the response.
	if err := oc.DB.Preload("Items").First(&order, order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Best-effort: the order is already committed, delivery failures are
	// logged inside the notifier and never surfaced to the customer.
	oc.Notifier.OrderCreated(order)

	utils.InfoLogger.Printf("Order #%d created for table %d (%.2f BGN)",
		order.OrderNumber, order.TableNumber, order.TotalBGN)
	utils.RespondJSON(c, http.StatusCreated, "Order created", gin.H{
		"order":        order,
		"order_number": order.OrderNumber,
	})
}

// UpdateOrderStatus -> staff moves an order through
// pending => preparing => ready => completed. Backward transitions are
// rejected.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("order_id")

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !models.IsValidOrderStatus(body.Status) {
		utils.RespondError(c, http.StatusBadRequest, ErrUnknownStatus)
		return
	}

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if !order.CanTransition(body.Status) {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("cannot transition order from %s to %s", order.Status, body.Status))
		return
	}

	order.Status = body.Status
	order.UpdatedAt = time.Now()
	if body.Status == models.OrderStatusCompleted {
		now := time.Now()
		order.CompletedAt = &now
	} else {
		// No stale completion timestamp on anything not completed.
		order.CompletedAt = nil
	}

	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Fan-out failure never rolls back the status write.
	oc.Notifier.OrderStatusChanged(order)

	utils.InfoLogger.Printf("Order #%d (id=%d) -> %s", order.OrderNumber, order.ID, order.Status)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// GetAllOrders -> today's orders, newest first.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.todaysOrders()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetActiveOrders -> today's orders still in the kitchen flow.
func (oc *OrderController) GetActiveOrders(c *gin.Context) {
	orders, err := oc.todaysOrders("status IN ?", models.ActiveOrderStatuses())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active orders", orders)
}

// GetCompletedOrders -> today's completed orders.
func (oc *OrderController) GetCompletedOrders(c *gin.Context) {
	orders, err := oc.todaysOrders("status = ?", models.OrderStatusCompleted)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Completed orders", orders)
}

func (oc *OrderController) todaysOrders(conds ...interface{}) ([]models.Order, error) {
	q := oc.DB.Preload("Items").
		Where("created_at >= ?", services.StartOfDay(time.Now())).
		Order("created_at DESC")
	if len(conds) > 0 {
		q = q.Where(conds[0], conds[1:]...)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
