package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"barmenu-backend/models"
	"barmenu-backend/services"
	"barmenu-backend/utils"
)

type PushController struct {
	DB       *gorm.DB
	Notifier *services.Notifier
}

func NewPushController(db *gorm.DB, notifier *services.Notifier) *PushController {
	return &PushController{DB: db, Notifier: notifier}
}

// Subscribe -> register a staff device. Upserts by endpoint so re-subscribing
// after an unsubscribe (or a key rotation) reactivates the existing row.
func (pc *PushController) Subscribe(c *gin.Context) {
	var body struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
		DeviceName string `json:"device_name"`
		StaffID    *uint  `json:"staff_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var sub models.PushSubscription
	err := pc.DB.Where("endpoint = ?", body.Endpoint).First(&sub).Error
	switch {
	case err == nil:
		sub.P256dh = body.Keys.P256dh
		sub.Auth = body.Keys.Auth
		sub.IsActive = true
		if body.DeviceName != "" {
			sub.DeviceName = body.DeviceName
		}
		sub.StaffID = body.StaffID
		sub.UserAgent = c.Request.UserAgent()
		if err := pc.DB.Save(&sub).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	case err == gorm.ErrRecordNotFound:
		sub = models.PushSubscription{
			Endpoint:   body.Endpoint,
			P256dh:     body.Keys.P256dh,
			Auth:       body.Keys.Auth,
			IsActive:   true,
			DeviceName: body.DeviceName,
			UserAgent:  c.Request.UserAgent(),
			StaffID:    body.StaffID,
			CreatedAt:  time.Now(),
		}
		if err := pc.DB.Create(&sub).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Push subscription %d registered (%s)", sub.ID, sub.DeviceName)
	utils.RespondJSON(c, http.StatusCreated, "Subscription registered", sub)
}

// Unsubscribe -> mark a device inactive. Rows are kept for audit; nothing is
// hard-deleted.
func (pc *PushController) Unsubscribe(c *gin.Context) {
	var body struct {
		Endpoint string `json:"endpoint" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res := pc.DB.Model(&models.PushSubscription{}).
		Where("endpoint = ?", body.Endpoint).
		Update("is_active", false)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, gorm.ErrRecordNotFound)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Subscription removed", nil)
}

// SendPush -> internal trigger for a push fan-out, optionally targeting one
// staff member. Returns delivery counts; a non-zero failed count is still a
// 200, delivery is best-effort.
func (pc *PushController) SendPush(c *gin.Context) {
	var body struct {
		Title   string `json:"title" binding:"required"`
		Body    string `json:"body"`
		URL     string `json:"url"`
		StaffID *uint  `json:"staff_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result := pc.Notifier.PushAll(c.Request.Context(), services.PushPayload{
		Title: body.Title,
		Body:  body.Body,
		URL:   body.URL,
	}, body.StaffID)

	utils.RespondJSON(c, http.StatusOK, "Push fan-out finished", result)
}
