// Package push delivers Web Push notifications for upcoming events and
// overdue pet-care tasks.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dukerupert/homebase/internal/model"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// ErrExpired is returned when the push service no longer knows the
// subscription (404 or 410). The caller should forget it.
var ErrExpired = errors.New("push subscription expired")

// DefaultSubscriber is the VAPID contact used when none is configured.
const DefaultSubscriber = "mailto:admin@homebase.local"

const defaultTTL = 24 * time.Hour

// Payload is the JSON the service worker receives. Urgency and TTL steer
// the push service and are not sent to the browser.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`

	Urgency webpush.Urgency `json:"-"`
	TTL     time.Duration   `json:"-"`
}

func (p Payload) options() (webpush.Urgency, int) {
	urgency := p.Urgency
	if urgency == "" {
		urgency = webpush.UrgencyNormal
	}
	ttl := p.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return urgency, int(ttl / time.Second)
}

// Sender delivers one payload to one subscription.
type Sender interface {
	Send(ctx context.Context, sub *model.PushSubscription, payload Payload) error
}

// Service sends notifications signed with the household's VAPID keys.
type Service struct {
	publicKey  string
	privateKey string
	subscriber string
	client     webpush.HTTPClient
}

func NewService(publicKey, privateKey, subscriber string) *Service {
	if subscriber == "" {
		subscriber = DefaultSubscriber
	}
	return &Service{
		publicKey:  publicKey,
		privateKey: privateKey,
		subscriber: subscriber,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

// VAPIDPublicKey returns the key browsers subscribe with.
func (s *Service) VAPIDPublicKey() string {
	return s.publicKey
}

// Send encrypts payload for the subscription and posts it to the
// subscription's push service.
func (s *Service) Send(ctx context.Context, sub *model.PushSubscription, payload Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	urgency, ttl := payload.options()
	resp, err := webpush.SendNotificationWithContext(ctx, data, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys:     webpush.Keys{P256dh: sub.P256dhKey, Auth: sub.AuthKey},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             ttl,
		Urgency:         urgency,
	})
	if err != nil {
		return fmt.Errorf("send push to subscription %d: %w", sub.ID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone, resp.StatusCode == http.StatusNotFound:
		return ErrExpired
	case resp.StatusCode >= 400:
		return fmt.Errorf("push service returned %d for subscription %d", resp.StatusCode, sub.ID)
	}
	return nil
}

// GenerateVAPIDKeys returns a fresh base64url P-256 key pair, public key
// first.
func GenerateVAPIDKeys() (publicKey, privateKey string, err error) {
	privateKey, publicKey, err = webpush.GenerateVAPIDKeys()
	if err != nil {
		return "", "", fmt.Errorf("generate VAPID keys: %w", err)
	}
	return publicKey, privateKey, nil
}
