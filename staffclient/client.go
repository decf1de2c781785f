package staffclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"barmenu-backend/models"
)

// Client is a staff dashboard connection with an explicit lifecycle:
// construct, Connect, Run, Close. No lazily built package-global.
type Client struct {
	BaseURL string
	Device  string

	State State
	Queue NotificationQueue
	Guard ResyncGuard

	// OnChange fires after every state mutation so a renderer can repaint.
	OnChange func()

	httpc *http.Client

	connMu sync.Mutex
	conn   *websocket.Conn
}

func New(baseURL, device string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Device:  device,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Connect dials the staff websocket channel.
func (c *Client) Connect(ctx context.Context) error {
	wsURL := strings.Replace(c.BaseURL, "http", "ws", 1) + "/ws/staff?device=" + c.Device
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	return nil
}

// Close tears the websocket down. Safe to call from another goroutine while
// Run is blocked in a read; the read unblocks with an error.
func (c *Client) Close() {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// Run reads the channel until the connection drops or ctx is cancelled,
// merging each event into local state and queueing a popup for it.
func (c *Client) Run(ctx context.Context) error {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return fmt.Errorf("not connected")
	}
	go func() {
		<-ctx.Done()
		c.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		ev, err := DecodeEvent(raw)
		if err != nil {
			// Unknown or malformed frame; skip, the resync will catch up.
			continue
		}
		c.State.Apply(ev)
		c.enqueue(ev)
		c.changed()
	}
}

// Bootstrap replaces local state with a fresh server snapshot.
func (c *Client) Bootstrap(ctx context.Context) error {
	orders, err := fetchList[models.Order](ctx, c.httpc, c.BaseURL+"/orders/all")
	if err != nil {
		return err
	}
	calls, err := fetchList[models.WaiterCall](ctx, c.httpc, c.BaseURL+"/waiter-calls/all")
	if err != nil {
		return err
	}
	c.State.Replace(orders, calls)
	c.changed()
	return nil
}

// OnVisible runs a full resync when the dashboard returns to the foreground.
// The guard drops the trigger if a resync is already in flight or one just
// finished.
func (c *Client) OnVisible(ctx context.Context) error {
	if !c.Guard.TryBegin() {
		return nil
	}
	defer c.Guard.End()
	return c.Bootstrap(ctx)
}

// Healthy probes /health with a hard 2s budget, distinguishing "server down"
// from "network down" before the UI declares itself offline.
func (c *Client) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) enqueue(ev StateEvent) {
	switch e := ev.(type) {
	case OrderCreated:
		c.Queue.Push(Notification{
			ID:    fmt.Sprintf("order-%d", e.Order.ID),
			Title: fmt.Sprintf("New order #%d", e.Order.OrderNumber),
			Body:  fmt.Sprintf("Table %d, %.2f BGN", e.Order.TableNumber, e.Order.TotalBGN),
		})
	case CallCreated:
		c.Queue.Push(Notification{
			ID:     fmt.Sprintf("call-%d", e.Call.ID),
			Title:  fmt.Sprintf("Table %d calls a waiter", e.Call.TableNumber),
			Body:   e.Call.Message,
			Urgent: e.Urgent,
		})
	}
}

func (c *Client) changed() {
	if c.OnChange != nil {
		c.OnChange()
	}
}

// fetchList pulls one list endpoint and unwraps the response envelope.
func fetchList[T any](ctx context.Context, httpc *http.Client, url string) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}

	var envelope struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    []T    `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return envelope.Data, nil
}
