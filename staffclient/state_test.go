package staffclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"barmenu-backend/models"
)

func TestApplyPrependsNewOrders(t *testing.T) {
	var s State
	s.Apply(OrderCreated{Order: models.Order{ID: 1, OrderNumber: 1}})
	s.Apply(OrderCreated{Order: models.Order{ID: 2, OrderNumber: 2}})

	orders := s.Orders()
	assert.Len(t, orders, 2)
	assert.Equal(t, uint(2), orders[0].ID, "newest first")
	assert.Equal(t, uint(1), orders[1].ID)
}

func TestApplyIgnoresDuplicateCreates(t *testing.T) {
	var s State
	s.Apply(OrderCreated{Order: models.Order{ID: 1}})
	s.Apply(OrderCreated{Order: models.Order{ID: 1}})
	assert.Len(t, s.Orders(), 1)

	s.Apply(CallCreated{Call: models.WaiterCall{ID: 7}})
	s.Apply(CallCreated{Call: models.WaiterCall{ID: 7}})
	assert.Len(t, s.Calls(), 1)
}

func TestApplyPatchesStatusByID(t *testing.T) {
	var s State
	s.Apply(OrderCreated{Order: models.Order{ID: 1, Status: "pending"}})
	s.Apply(OrderCreated{Order: models.Order{ID: 2, Status: "pending"}})

	now := time.Now()
	s.Apply(OrderStatusChanged{ID: 1, Status: "completed", CompletedAt: &now})

	orders := s.Orders()
	assert.Equal(t, "pending", orders[0].Status)
	assert.Equal(t, "completed", orders[1].Status)
	assert.NotNil(t, orders[1].CompletedAt)
}

func TestApplyStatusForUnknownIDIsDropped(t *testing.T) {
	var s State
	s.Apply(OrderStatusChanged{ID: 42, Status: "ready"})
	assert.Empty(t, s.Orders())

	s.Apply(CallStatusChanged{ID: 42, Status: "completed"})
	assert.Empty(t, s.Calls())
}

func TestApplyCallLifecycle(t *testing.T) {
	var s State
	s.Apply(CallCreated{Call: models.WaiterCall{ID: 1, Status: "pending"}, Urgent: true})

	now := time.Now()
	s.Apply(CallStatusChanged{ID: 1, Status: "acknowledged", AcknowledgedAt: &now})
	calls := s.Calls()
	assert.Equal(t, "acknowledged", calls[0].Status)
	assert.NotNil(t, calls[0].AcknowledgedAt)

	s.Apply(CallStatusChanged{ID: 1, Status: "completed", AcknowledgedAt: &now, CompletedAt: &now})
	calls = s.Calls()
	assert.Equal(t, "completed", calls[0].Status)
	assert.NotNil(t, calls[0].CompletedAt)
}

func TestApplyLastReceivedWins(t *testing.T) {
	// The channel gives no cross-event ordering guarantee; the reducer
	// deliberately applies events in receipt order.
	var s State
	s.Apply(OrderCreated{Order: models.Order{ID: 1, Status: "pending"}})
	s.Apply(OrderStatusChanged{ID: 1, Status: "ready"})
	s.Apply(OrderStatusChanged{ID: 1, Status: "preparing"})

	assert.Equal(t, "preparing", s.Orders()[0].Status)
}

func TestReplaceSwapsStateWholesale(t *testing.T) {
	var s State
	s.Apply(OrderCreated{Order: models.Order{ID: 1}})
	s.Apply(CallCreated{Call: models.WaiterCall{ID: 1}})

	s.Replace(
		[]models.Order{{ID: 10}, {ID: 11}},
		[]models.WaiterCall{{ID: 20}},
	)

	orders := s.Orders()
	assert.Len(t, orders, 2)
	assert.Equal(t, uint(10), orders[0].ID)
	assert.Len(t, s.Calls(), 1)
}
