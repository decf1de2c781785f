package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"barmenu-backend/models"
	"barmenu-backend/staff"
	"barmenu-backend/utils"
)

var (
	RealtimeEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_events_published_total",
			Help: "Events published to the staff channel",
		},
		[]string{"event"},
	)

	PushDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_deliveries_total",
			Help: "Push delivery attempts by result",
		},
		[]string{"result"},
	)
)

// InitMetrics registers the fan-out collectors. Called once from main.
func InitMetrics() {
	prometheus.MustRegister(RealtimeEventsTotal, PushDeliveriesTotal)
}

// FanoutResult counts one push fan-out batch. Callers log it but never treat
// a non-zero Failed as an error: delivery is best-effort, at most once.
type FanoutResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
	Total  int `json:"total"`
}

// Notifier fans a domain event out to the realtime staff channel and to all
// registered push devices. The two paths are independent and neither may
// block or fail the write that triggered them.
type Notifier struct {
	DB          *gorm.DB
	Hub         *staff.Hub
	Pusher      WebPusher // nil disables the push path
	PushTimeout time.Duration
}

func NewNotifier(db *gorm.DB, hub *staff.Hub, pusher WebPusher, pushTimeout time.Duration) *Notifier {
	if pushTimeout <= 0 {
		pushTimeout = 5 * time.Second
	}
	return &Notifier{DB: db, Hub: hub, Pusher: pusher, PushTimeout: pushTimeout}
}

// OrderCreated announces a new order on both paths.
func (n *Notifier) OrderCreated(order models.Order) {
	n.Hub.PublishNewOrder(order)
	RealtimeEventsTotal.WithLabelValues(staff.EventNewOrder).Inc()

	n.pushAsync(PushPayload{
		Title:              fmt.Sprintf("New order #%d", order.OrderNumber),
		Body:               fmt.Sprintf("Table %d, %.2f BGN", order.TableNumber, order.TotalBGN),
		URL:                "/staff/orders",
		Tag:                fmt.Sprintf("order-%d", order.ID),
		Vibrate:            []int{200, 100, 200},
		RequireInteraction: true,
	}, nil)
}

// OrderStatusChanged announces an order status transition.
func (n *Notifier) OrderStatusChanged(order models.Order) {
	n.Hub.PublishOrderStatus(order)
	RealtimeEventsTotal.WithLabelValues(staff.EventOrderStatus).Inc()

	n.pushAsync(PushPayload{
		Title: fmt.Sprintf("Order #%d %s", order.OrderNumber, order.Status),
		Body:  fmt.Sprintf("Table %d", order.TableNumber),
		URL:   "/staff/orders",
		Tag:   fmt.Sprintf("order-%d", order.ID),
	}, nil)
}

// CallCreated announces a new waiter call. Payment calls vibrate harder and
// stay on screen until dismissed.
func (n *Notifier) CallCreated(call models.WaiterCall) {
	n.Hub.PublishWaiterCall(call)
	RealtimeEventsTotal.WithLabelValues(staff.EventWaiterCall).Inc()

	payload := PushPayload{
		Title: fmt.Sprintf("Table %d calls a waiter", call.TableNumber),
		Body:  call.Message,
		URL:   "/staff/calls",
		Tag:   fmt.Sprintf("call-%d", call.ID),
	}
	if call.IsUrgent() {
		payload.Vibrate = []int{300, 100, 300, 100, 300}
		payload.RequireInteraction = true
	}
	n.pushAsync(payload, nil)
}

// CallStatusChanged announces a waiter-call status transition. Realtime only:
// staff acting on a call do not need a push about their own action.
func (n *Notifier) CallStatusChanged(call models.WaiterCall) {
	n.Hub.PublishCallStatus(call)
	RealtimeEventsTotal.WithLabelValues(staff.EventCallStatus).Inc()
}

// pushAsync runs the push fan-out off the request path. Failures are logged
// and swallowed.
func (n *Notifier) pushAsync(payload PushPayload, staffID *uint) {
	if n.Pusher == nil {
		return
	}
	go func() {
		res := n.PushAll(context.Background(), payload, staffID)
		if res.Failed > 0 {
			utils.InfoLogger.Printf("push fan-out %q: %d sent, %d failed of %d",
				payload.Title, res.Sent, res.Failed, res.Total)
		}
	}()
}

// PushAll delivers payload to every active subscription, optionally filtered
// to one staff member. Attempts run in parallel with all-settled semantics:
// one subscription failing never aborts the others. A 404/410 from the
// provider marks that subscription inactive.
func (n *Notifier) PushAll(ctx context.Context, payload PushPayload, staffID *uint) FanoutResult {
	var result FanoutResult
	if n.Pusher == nil {
		return result
	}

	q := n.DB.Where("is_active = ?", true)
	if staffID != nil {
		q = q.Where("staff_id = ?", *staffID)
	}
	var subs []models.PushSubscription
	if err := q.Find(&subs).Error; err != nil {
		utils.ErrorLogger.Printf("push fan-out: load subscriptions: %v", err)
		return result
	}
	result.Total = len(subs)
	if len(subs) == 0 {
		return result
	}

	body, err := json.Marshal(payload)
	if err != nil {
		utils.ErrorLogger.Printf("push fan-out: marshal payload: %v", err)
		result.Failed = result.Total
		return result
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, sub := range subs {
		wg.Add(1)
		go func(sub models.PushSubscription) {
			defer wg.Done()

			attemptCtx, cancel := context.WithTimeout(ctx, n.PushTimeout)
			defer cancel()

			code, err := n.Pusher.Send(attemptCtx, sub, body)
			ok := err == nil && code < 400

			mu.Lock()
			if ok {
				result.Sent++
			} else {
				result.Failed++
			}
			mu.Unlock()

			switch {
			case err != nil:
				utils.InfoLogger.Printf("push to %s failed: %v", sub.Endpoint, err)
			case IsSubscriptionGone(code):
				// Subscription expired or unsubscribed at the provider.
				if derr := n.DB.Model(&models.PushSubscription{}).
					Where("id = ?", sub.ID).
					Update("is_active", false).Error; derr != nil {
					utils.ErrorLogger.Printf("deactivate subscription %d: %v", sub.ID, derr)
				} else {
					utils.InfoLogger.Printf("subscription %d gone (HTTP %d), marked inactive", sub.ID, code)
				}
			case code >= 400:
				utils.InfoLogger.Printf("push to %s rejected: HTTP %d", sub.Endpoint, code)
			default:
				now := time.Now()
				if uerr := n.DB.Model(&models.PushSubscription{}).
					Where("id = ?", sub.ID).
					Update("last_used", now).Error; uerr != nil {
					utils.ErrorLogger.Printf("update last_used for %d: %v", sub.ID, uerr)
				}
			}
		}(sub)
	}
	wg.Wait()

	PushDeliveriesTotal.WithLabelValues("sent").Add(float64(result.Sent))
	PushDeliveriesTotal.WithLabelValues("failed").Add(float64(result.Failed))
	return result
}
