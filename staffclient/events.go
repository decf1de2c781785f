package staffclient

import (
	"encoding/json"
	"fmt"
	"time"

	"barmenu-backend/models"
	"barmenu-backend/staff"
)

// StateEvent is the tagged union of everything that can change dashboard
// state. Keeping it a closed set makes the reducer exhaustively testable.
type StateEvent interface {
	stateEvent()
}

type OrderCreated struct {
	Order models.Order
}

type OrderStatusChanged struct {
	ID          uint
	Status      string
	CompletedAt *time.Time
}

type CallCreated struct {
	Call   models.WaiterCall
	Urgent bool
}

type CallStatusChanged struct {
	ID             uint
	Status         string
	AcknowledgedAt *time.Time
	CompletedAt    *time.Time
}

func (OrderCreated) stateEvent()       {}
func (OrderStatusChanged) stateEvent() {}
func (CallCreated) stateEvent()        {}
func (CallStatusChanged) stateEvent()  {}

// wireMessage mirrors staff.Message with the payload left raw until the
// event type is known.
type wireMessage struct {
	ID      string          `json:"id"`
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Data    json.RawMessage `json:"data"`
}

// DecodeEvent parses one staff-channel frame into a StateEvent.
func DecodeEvent(raw []byte) (StateEvent, error) {
	var msg wireMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}

	switch msg.Event {
	case staff.EventNewOrder:
		var order models.Order
		if err := json.Unmarshal(msg.Data, &order); err != nil {
			return nil, fmt.Errorf("decode %s: %w", msg.Event, err)
		}
		return OrderCreated{Order: order}, nil

	case staff.EventOrderStatus:
		var data struct {
			ID          uint       `json:"id"`
			Status      string     `json:"status"`
			CompletedAt *time.Time `json:"completed_at"`
		}
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, fmt.Errorf("decode %s: %w", msg.Event, err)
		}
		return OrderStatusChanged{ID: data.ID, Status: data.Status, CompletedAt: data.CompletedAt}, nil

	case staff.EventWaiterCall:
		var data struct {
			Call   models.WaiterCall `json:"call"`
			Urgent bool              `json:"urgent"`
		}
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, fmt.Errorf("decode %s: %w", msg.Event, err)
		}
		return CallCreated{Call: data.Call, Urgent: data.Urgent}, nil

	case staff.EventCallStatus:
		var data struct {
			ID             uint       `json:"id"`
			Status         string     `json:"status"`
			AcknowledgedAt *time.Time `json:"acknowledged_at"`
			CompletedAt    *time.Time `json:"completed_at"`
		}
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, fmt.Errorf("decode %s: %w", msg.Event, err)
		}
		return CallStatusChanged{ID: data.ID, Status: data.Status,
			AcknowledgedAt: data.AcknowledgedAt, CompletedAt: data.CompletedAt}, nil

	default:
		return nil, fmt.Errorf("unknown event %q", msg.Event)
	}
}
