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

type WaiterCallController struct {
	DB       *gorm.DB
	Notifier *services.Notifier
}

func NewWaiterCallController(db *gorm.DB, notifier *services.Notifier) *WaiterCallController {
	return &WaiterCallController{DB: db, Notifier: notifier}
}

// CreateCall -> customer presses "call waiter" at the table. The message is
// already locale-resolved by the caller; it is stored as-is.
func (wc *WaiterCallController) CreateCall(c *gin.Context) {
	var body struct {
		TableNumber int    `json:"table_number"`
		CallType    string `json:"call_type"`
		Message     string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidCall)
		return
	}
	if body.TableNumber <= 0 || !models.IsValidCallType(body.CallType) {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidCall)
		return
	}

	call := models.WaiterCall{
		TableNumber: body.TableNumber,
		CallType:    body.CallType,
		Message:     body.Message,
		Status:      models.CallStatusPending,
		CreatedAt:   time.Now(),
	}
	if err := wc.DB.Create(&call).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Best-effort. The call exists once the write succeeded.
	wc.Notifier.CallCreated(call)

	utils.InfoLogger.Printf("Waiter call %d (%s) from table %d", call.ID, call.CallType, call.TableNumber)
	utils.RespondJSON(c, http.StatusCreated, "Call created", call)
}

// AcknowledgeCall -> staff accepts a call. Only valid while pending; a
// completed call stays completed.
func (wc *WaiterCallController) AcknowledgeCall(c *gin.Context) {
	callID := c.Param("call_id")

	var call models.WaiterCall
	if err := wc.DB.First(&call, callID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if call.Status != models.CallStatusPending {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("call is %s, only pending calls can be acknowledged", call.Status))
		return
	}

	now := time.Now()
	call.Status = models.CallStatusAcknowledged
	call.AcknowledgedAt = &now
	if err := wc.DB.Save(&call).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	wc.Notifier.CallStatusChanged(call)
	utils.RespondJSON(c, http.StatusOK, "Call acknowledged", call)
}

// CompleteCall -> staff resolves a call, from pending or acknowledged.
// The acknowledge step is optional.
func (wc *WaiterCallController) CompleteCall(c *gin.Context) {
	callID := c.Param("call_id")

	var call models.WaiterCall
	if err := wc.DB.First(&call, callID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if call.Status == models.CallStatusCompleted {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("call is already completed"))
		return
	}

	now := time.Now()
	call.Status = models.CallStatusCompleted
	call.CompletedAt = &now
	if err := wc.DB.Save(&call).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	wc.Notifier.CallStatusChanged(call)
	utils.RespondJSON(c, http.StatusOK, "Call completed", call)
}

// GetAllCalls -> today's calls, newest first.
func (wc *WaiterCallController) GetAllCalls(c *gin.Context) {
	var calls []models.WaiterCall
	if err := wc.DB.
		Where("created_at >= ?", services.StartOfDay(time.Now())).
		Order("created_at DESC").
		Find(&calls).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of calls", calls)
}
