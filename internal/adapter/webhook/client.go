package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/polkiloo/catering/internal/domain/model"
)

// Notifier tells an external collaborator about lifecycle events.
type Notifier interface {
	Notify(ctx context.Context, event model.LifecycleEvent) error
}

// NopNotifier is used when no webhook is configured.
type NopNotifier struct{}

// Notify does nothing.
func (NopNotifier) Notify(context.Context, model.LifecycleEvent) error { return nil }

// HTTPNotifier posts events to a fixed URL, retrying transient failures.
type HTTPNotifier struct {
	endpoint string
	client   *retryablehttp.Client
	logger   *slog.Logger
}

// payload mirrors the JSON body sent to the webhook.
type payload struct {
	OrderID     uuid.UUID  `json:"order_id"`
	OrderNumber string     `json:"order_number"`
	Event       string     `json:"event"`
	OldStatus   *string    `json:"old_status"`
	NewStatus   string     `json:"new_status"`
	InvoiceID   *uuid.UUID `json:"invoice_id,omitempty"`
	ActorID     *uuid.UUID `json:"actor_id"`
	OccurredAt  time.Time  `json:"occurred_at"`
}

// NewHTTPNotifier creates a webhook client. retries is the number of extra
// attempts after the first one; timeout bounds each attempt.
func NewHTTPNotifier(endpoint string, timeout time.Duration, retries int, logger *slog.Logger) (*HTTPNotifier, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse webhook url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("webhook url must be absolute")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = logger

	return &HTTPNotifier{endpoint: parsed.String(), client: client, logger: logger}, nil
}

// Notify posts event and fails unless the collaborator answers 2xx.
func (n *HTTPNotifier) Notify(ctx context.Context, event model.LifecycleEvent) error {
	body, err := json.Marshal(toPayload(event))
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook %s: %w", event.Event, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		reply, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		n.logger.Error("webhook rejected event", slog.Int("status", resp.StatusCode), slog.String("body", string(reply)))
		return fmt.Errorf("webhook error: %s", resp.Status)
	}
	return nil
}

func toPayload(e model.LifecycleEvent) payload {
	p := payload{
		OrderID:     e.OrderID,
		OrderNumber: e.OrderNumber,
		Event:       string(e.Event),
		NewStatus:   string(e.NewStatus),
		InvoiceID:   e.InvoiceID,
		ActorID:     e.ActorID,
		OccurredAt:  e.OccurredAt.UTC(),
	}
	if e.OldStatus != nil {
		old := string(*e.OldStatus)
		p.OldStatus = &old
	}
	return p
}
