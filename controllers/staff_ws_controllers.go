package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"barmenu-backend/staff"
	"barmenu-backend/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // access control sits in front of this service
	},
}

type StaffWSController struct {
	Hub *staff.Hub
}

func NewStaffWSController(hub *staff.Hub) *StaffWSController {
	return &StaffWSController{Hub: hub}
}

// Handle -> staff dashboard websocket endpoint. The connection stays
// registered until the read loop fails (client closed or network dropped).
func (sc *StaffWSController) Handle(c *gin.Context) {
	label := c.Query("device")
	if label == "" {
		label = c.ClientIP()
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	sc.Hub.Register(ws, label)
	utils.InfoLogger.Printf("Staff client %s connected (%d online)", label, sc.Hub.ClientCount())

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	sc.Hub.Unregister(ws)
	utils.InfoLogger.Printf("Staff client %s disconnected", label)
}
