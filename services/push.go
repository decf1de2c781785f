package services

import (
	"context"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"barmenu-backend/models"
)

// PushPayload is the structured notification shown on a staff device.
type PushPayload struct {
	Title              string `json:"title"`
	Body               string `json:"body"`
	URL                string `json:"url"`
	Tag                string `json:"tag,omitempty"`
	Vibrate            []int  `json:"vibrate,omitempty"`
	RequireInteraction bool   `json:"requireInteraction"`
}

// WebPusher delivers one payload to one subscription and reports the
// provider's status code. Abstracted so tests can swap in a fake.
type WebPusher interface {
	Send(ctx context.Context, sub models.PushSubscription, payload []byte) (int, error)
}

// VAPIDPusher sends Web Push messages signed with the configured VAPID keys.
type VAPIDPusher struct {
	PublicKey  string
	PrivateKey string
	Subject    string
}

func (p *VAPIDPusher) Send(ctx context.Context, sub models.PushSubscription, payload []byte) (int, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      p.Subject,
		VAPIDPublicKey:  p.PublicKey,
		VAPIDPrivateKey: p.PrivateKey,
		TTL:             60,
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// IsSubscriptionGone reports whether a delivery status means the
// subscription no longer exists at the provider.
func IsSubscriptionGone(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode == http.StatusGone
}
