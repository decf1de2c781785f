package staffclient

import (
	"sync"
	"time"
)

// MaxVisible caps how many popups are rendered at once; the rest wait in the
// queue until something is dismissed.
const MaxVisible = 9

type Notification struct {
	ID     string
	Title  string
	Body   string
	Urgent bool
	At     time.Time
}

// NotificationQueue holds transient, dismissible popups fed by realtime
// events.
type NotificationQueue struct {
	mu    sync.Mutex
	items []Notification
}

// Push enqueues a popup.
func (q *NotificationQueue) Push(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n.At.IsZero() {
		n.At = time.Now()
	}
	q.items = append(q.items, n)
}

// Visible returns the popups currently on screen, oldest first.
func (q *NotificationQueue) Visible() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	if n > MaxVisible {
		n = MaxVisible
	}
	out := make([]Notification, n)
	copy(out, q.items[:n])
	return out
}

// Dismiss removes one popup by id.
func (q *NotificationQueue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

// DismissAll clears the queue. Offered in the UI whenever more than one
// popup is queued.
func (q *NotificationQueue) DismissAll() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}

// Len is the total queued count, including popups beyond the visible cap.
func (q *NotificationQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// HasMultiple reports whether the "dismiss all" affordance should show.
func (q *NotificationQueue) HasMultiple() bool {
	return q.Len() > 1
}
