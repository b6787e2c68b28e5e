// Package notification fans a ready-transition out to the registered push
// recipients of a (store, queue number) pair and records the outcome.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"tableqr-backend/internal/model"
	"tableqr-backend/internal/store"
)

// ErrDeliveryFailed reports a failed fan-out. It never rolls back the status
// transition that triggered it; callers surface it as a warning.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// Sender delivers one notification to a set of device tokens and reports how
// many deliveries failed.
type Sender interface {
	Send(ctx context.Context, tokens []string, title, body string) (failed int, err error)
}

// WebPushSender delivers through the Web Push protocol. Tokens are serialized
// push subscriptions as produced by the browser's PushManager.
type WebPushSender struct {
	Options *webpush.Options
}

type pushPayload struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Urgency   string `json:"urgency"`
	Renotify  bool   `json:"renotify"`
	Vibrate   []int  `json:"vibrate"`
	Sound     string `json:"sound"`
	Timestamp int64  `json:"timestamp"`
}

// Send pushes to every token and counts per-token failures. An undecodable
// token counts as a failure rather than aborting the batch.
func (s *WebPushSender) Send(ctx context.Context, tokens []string, title, body string) (int, error) {
	payload, err := json.Marshal(pushPayload{
		Title:     title,
		Body:      body,
		Urgency:   "high",
		Renotify:  true,
		Vibrate:   []int{200, 100, 200, 100, 200},
		Sound:     "default",
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		return len(tokens), fmt.Errorf("failed to marshal push payload: %w", err)
	}

	failed := 0
	for _, token := range tokens {
		var sub webpush.Subscription
		if err := json.Unmarshal([]byte(token), &sub); err != nil {
			log.Printf("Skipping undecodable push token: %v", err)
			failed++
			continue
		}
		resp, err := webpush.SendNotification(payload, &sub, s.Options)
		if err != nil {
			log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
			failed++
			continue
		}
		resp.Body.Close()
		if resp.StatusCode >= 400 {
			log.Printf("Push endpoint %s returned %d", sub.Endpoint, resp.StatusCode)
			failed++
		}
	}
	return failed, nil
}

// Notifier looks up recipients, sends, and records the outcome.
type Notifier struct {
	store  store.Store
	sender Sender
}

// NewNotifier creates a notifier using the given transport.
func NewNotifier(s store.Store, sender Sender) *Notifier {
	return &Notifier{store: s, sender: sender}
}

// NotifyReady tells every registered device that the ticket's order is ready.
// The outcome is stamped on each recipient row touched in this attempt. Any
// failure along the way marks the fetched recipients as failed at the same
// timestamp and returns ErrDeliveryFailed.
func (n *Notifier) NotifyReady(ctx context.Context, storeID int64, queueNumber int) error {
	recipients, err := n.store.ListRecipients(ctx, storeID, queueNumber)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	if len(recipients) == 0 {
		return nil
	}

	tokens := make([]string, len(recipients))
	ids := make([]int64, len(recipients))
	for i, r := range recipients {
		tokens[i] = r.Token
		ids[i] = r.ID
	}

	title := "주문 준비 완료"
	body := fmt.Sprintf("#%03d 주문이 준비되었습니다.", queueNumber)

	now := time.Now().UTC()
	failedCount, err := n.sender.Send(ctx, tokens, title, body)
	if err != nil || failedCount > 0 {
		if recordErr := n.store.RecordSendOutcome(ctx, ids, model.SendStatusFailure, now); recordErr != nil {
			log.Printf("Error recording failed send outcome: %v", recordErr)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
		}
		return fmt.Errorf("%w: %d of %d deliveries failed", ErrDeliveryFailed, failedCount, len(tokens))
	}

	if err := n.store.RecordSendOutcome(ctx, ids, model.SendStatusSuccess, now); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}
