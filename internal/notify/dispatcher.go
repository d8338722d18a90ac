// Package notify turns committed lifecycle events into durable notifications
// and queues their live push and webhook delivery.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/catering/internal/adapter/webhook"
	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/domain/repository"
	"github.com/polkiloo/catering/internal/lifecycle"
	"github.com/polkiloo/catering/internal/worker"
)

// Publisher pushes a stored notification to its recipient's live channel.
type Publisher interface {
	Publish(ctx context.Context, n model.Notification) error
}

// Queue accepts delivery jobs without blocking.
type Queue interface {
	Submit(job worker.Job) error
}

// Dispatcher implements the lifecycle event sink. It never reports failures
// to the caller: the transition has already committed.
type Dispatcher struct {
	notifications repository.NotificationRepository
	publisher     Publisher
	webhook       webhook.Notifier
	queue         Queue
	logger        *slog.Logger
	now           func() time.Time
}

// NewDispatcher constructs Dispatcher.
func NewDispatcher(
	notifications repository.NotificationRepository,
	publisher Publisher,
	notifier webhook.Notifier,
	queue Queue,
	logger *slog.Logger,
) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = webhook.NopNotifier{}
	}
	return &Dispatcher{
		notifications: notifications,
		publisher:     publisher,
		webhook:       notifier,
		queue:         queue,
		logger:        logger,
		now:           time.Now,
	}
}

type recipient struct {
	userID uuid.UUID
	role   model.Role
}

// OnTransition notifies the counterpart of the actor. previous is nil for
// the creation entry, which goes to the owner.
func (d *Dispatcher) OnTransition(ctx context.Context, order model.Order, previous *model.OrderStatus, next model.OrderStatus, actor model.Actor) {
	event := model.EventStatusChanged
	if previous == nil {
		event = model.EventOrderPlaced
	}

	var to []recipient
	switch {
	case event == model.EventOrderPlaced:
		to = []recipient{ownerOf(order)}
	case actor.Role == model.RoleOwner:
		to = []recipient{customerOf(order)}
	case actor.Role == model.RoleCustomer:
		to = []recipient{ownerOf(order)}
	default:
		to = []recipient{customerOf(order), ownerOf(order)}
	}

	title, message := describeTransition(order, previous, next, event)
	d.dispatch(ctx, to, title, message, model.LifecycleEvent{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Event:       event,
		OldStatus:   previous,
		NewStatus:   next,
		ActorID:     actor.Ref(),
		OccurredAt:  d.now(),
	})
}

// OnInvoiceEvent notifies the customer of a new invoice and the owner of a
// payment.
func (d *Dispatcher) OnInvoiceEvent(ctx context.Context, order model.Order, invoice model.Invoice, event model.EventTag, actor model.Actor) {
	var to []recipient
	switch event {
	case model.EventInvoiceCreated:
		to = []recipient{customerOf(order)}
	case model.EventInvoicePaid:
		to = []recipient{ownerOf(order)}
	default:
		d.logger.Warn("unknown invoice event", slog.String("event", string(event)))
		return
	}

	title, message := describeInvoice(order, invoice, event)
	invoiceID := invoice.ID
	d.dispatch(ctx, to, title, message, model.LifecycleEvent{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Event:       event,
		NewStatus:   lifecycle.DeriveEffectiveStatus(order, &invoice),
		InvoiceID:   &invoiceID,
		ActorID:     actor.Ref(),
		OccurredAt:  d.now(),
	})
}

func (d *Dispatcher) dispatch(ctx context.Context, to []recipient, title, message string, event model.LifecycleEvent) {
	orderID := event.OrderID
	for _, r := range to {
		if r.userID == uuid.Nil {
			continue
		}
		n := model.Notification{
			UserID:  r.userID,
			OrderID: &orderID,
			Role:    r.role,
			Event:   event.Event,
			Title:   title,
			Message: message,
		}
		if err := d.notifications.Create(ctx, &n); err != nil {
			d.logger.Error("store notification failed",
				slog.String("order", event.OrderNumber),
				slog.String("user", r.userID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		d.push(n)
	}

	_ = d.queue.Submit(worker.Job{
		Name: "webhook:" + string(event.Event),
		Run: func(ctx context.Context) error {
			return d.webhook.Notify(ctx, event)
		},
	})
}

func (d *Dispatcher) push(n model.Notification) {
	if d.publisher == nil {
		return
	}
	_ = d.queue.Submit(worker.Job{
		Name: "push:" + n.UserID.String(),
		Run: func(ctx context.Context) error {
			return d.publisher.Publish(ctx, n)
		},
	})
}

func customerOf(o model.Order) recipient {
	return recipient{userID: o.CustomerID, role: model.RoleCustomer}
}

func ownerOf(o model.Order) recipient {
	return recipient{userID: o.OwnerID, role: model.RoleOwner}
}

func describeTransition(o model.Order, previous *model.OrderStatus, next model.OrderStatus, event model.EventTag) (string, string) {
	switch {
	case event == model.EventOrderPlaced:
		return "New order", fmt.Sprintf("Order %s was placed (%s)", o.Number, o.Total.StringFixed(2))
	case lifecycle.Canonical(next) == model.StatusCancelled:
		return "Order cancelled", fmt.Sprintf("Order %s was cancelled", o.Number)
	default:
		return "Order status updated", fmt.Sprintf("Order %s moved from %s to %s", o.Number, lifecycle.Label(*previous), lifecycle.Label(next))
	}
}

func describeInvoice(o model.Order, inv model.Invoice, event model.EventTag) (string, string) {
	if event == model.EventInvoicePaid {
		return "Invoice paid", fmt.Sprintf("Invoice for order %s was paid (%s)", o.Number, inv.Total.StringFixed(2))
	}
	return "Invoice issued", fmt.Sprintf("Invoice for order %s: %s due", o.Number, inv.Total.StringFixed(2))
}
