package staff

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"barmenu-backend/models"
	"barmenu-backend/utils"
)

// ChannelStaff is the single shared channel all staff dashboards listen on.
const ChannelStaff = "staff-channel"

// Event types carried on the staff channel.
const (
	EventNewOrder    = "new-order"
	EventWaiterCall  = "waiter-call"
	EventOrderStatus = "order-status-change"
	EventCallStatus  = "call-status-change"
)

// Message is the wire format of one staff-channel event. ID lets clients
// drop duplicates if a message is ever seen twice.
type Message struct {
	ID      string      `json:"id"`
	Channel string      `json:"channel"`
	Event   string      `json:"event"`
	Data    interface{} `json:"data"`
}

// Hub holds the connected staff dashboards. Constructed explicitly and
// passed into controllers; there is no package-level singleton.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> device label
	mu      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]string),
	}
}

// Register adds a connection to the broadcast set.
func (h *Hub) Register(conn *websocket.Conn, label string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = label
}

// Unregister removes and closes a connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// ClientCount returns the number of connected dashboards.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// PublishNewOrder announces a freshly created order.
func (h *Hub) PublishNewOrder(order models.Order) int {
	return h.publish(EventNewOrder, order)
}

// PublishOrderStatus announces an order status change.
func (h *Hub) PublishOrderStatus(order models.Order) int {
	return h.publish(EventOrderStatus, map[string]interface{}{
		"id":           order.ID,
		"status":       order.Status,
		"completed_at": order.CompletedAt,
	})
}

// PublishWaiterCall announces a new waiter call. Payment calls are flagged
// urgent so dashboards can sound a different alert.
func (h *Hub) PublishWaiterCall(call models.WaiterCall) int {
	return h.publish(EventWaiterCall, map[string]interface{}{
		"call":   call,
		"urgent": call.IsUrgent(),
	})
}

// PublishCallStatus announces a waiter-call status change.
func (h *Hub) PublishCallStatus(call models.WaiterCall) int {
	return h.publish(EventCallStatus, map[string]interface{}{
		"id":              call.ID,
		"status":          call.Status,
		"acknowledged_at": call.AcknowledgedAt,
		"completed_at":    call.CompletedAt,
	})
}

// publish fans a message out to every connected client. Fire-and-forget: a
// failed write drops that client's delivery, never the others. Returns how
// many clients were written to successfully.
func (h *Hub) publish(event string, data interface{}) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg := Message{
		ID:      uuid.NewString(),
		Channel: ChannelStaff,
		Event:   event,
		Data:    data,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("staff hub: marshal %s event: %v", event, err)
		return 0
	}

	delivered := 0
	for conn, label := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.ErrorLogger.Printf("staff hub: write to %s failed: %v", label, err)
			continue
		}
		delivered++
	}
	return delivered
}
