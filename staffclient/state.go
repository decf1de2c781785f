package staffclient

import (
	"sync"

	"barmenu-backend/models"
)

// State is the dashboard's in-memory view of today's orders and calls.
// It is reconciled from three sources: the initial bulk fetch, incremental
// realtime events, and full resyncs after the page was backgrounded.
type State struct {
	mu     sync.Mutex
	orders []models.Order
	calls  []models.WaiterCall
}

// Apply merges one event into local state. Creates prepend, status changes
// patch the matching record by id. A status change for an id we have never
// seen is dropped; the next resync will pick the record up.
func (s *State) Apply(ev StateEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := ev.(type) {
	case OrderCreated:
		for _, o := range s.orders {
			if o.ID == e.Order.ID {
				return // duplicate delivery
			}
		}
		s.orders = append([]models.Order{e.Order}, s.orders...)

	case OrderStatusChanged:
		for i := range s.orders {
			if s.orders[i].ID == e.ID {
				s.orders[i].Status = e.Status
				s.orders[i].CompletedAt = e.CompletedAt
				return
			}
		}

	case CallCreated:
		for _, wc := range s.calls {
			if wc.ID == e.Call.ID {
				return
			}
		}
		s.calls = append([]models.WaiterCall{e.Call}, s.calls...)

	case CallStatusChanged:
		for i := range s.calls {
			if s.calls[i].ID == e.ID {
				s.calls[i].Status = e.Status
				s.calls[i].AcknowledgedAt = e.AcknowledgedAt
				s.calls[i].CompletedAt = e.CompletedAt
				return
			}
		}
	}
}

// Replace swaps in a fresh server snapshot wholesale. Used by the initial
// fetch and by visibility resyncs.
func (s *State) Replace(orders []models.Order, calls []models.WaiterCall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = orders
	s.calls = calls
}

// Orders returns a copy of the current order list.
func (s *State) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Calls returns a copy of the current call list.
func (s *State) Calls() []models.WaiterCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.WaiterCall, len(s.calls))
	copy(out, s.calls)
	return out
}
