package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"main/model"
)

// WebPusher posts reminder payloads to a push relay that handles the Web
// Push encryption and VAPID signing. Delivery transport internals stay
// outside this system; the only contract honored here is the error
// taxonomy: gone/not-found responses surface as model.ErrSubscriptionGone.
type WebPusher struct {
	RelayURL string
	Client   *http.Client
}

func NewWebPusher(relayURL string) *WebPusher {
	return &WebPusher{
		RelayURL: relayURL,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type pushRequest struct {
	Endpoint string                `json:"endpoint"`
	P256DH   string                `json:"p256dh"`
	Auth     string                `json:"auth"`
	Payload  model.ReminderPayload `json:"payload"`
}

func (p *WebPusher) Send(ctx context.Context, sub *model.PushSubscription, payload model.ReminderPayload) error {
	body, err := json.Marshal(pushRequest{
		Endpoint: sub.Endpoint,
		P256DH:   sub.P256DH,
		Auth:     sub.Auth,
		Payload:  payload,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.RelayURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		return model.ErrSubscriptionGone
	case resp.StatusCode >= 400:
		return fmt.Errorf("push relay returned status %d", resp.StatusCode)
	}
	return nil
}
