package test

import (
	"context"
	"sync"

	"github.com/polkiloo/catering/internal/domain/model"
)

// RecordedEvent is one call observed by EventRecorder.
type RecordedEvent struct {
	Order    model.Order
	Previous *model.OrderStatus
	Next     model.OrderStatus
	Invoice  *model.Invoice
	Event    model.EventTag
	Actor    model.Actor
}

// EventRecorder captures lifecycle events emitted by use cases.
type EventRecorder struct {
	mu     sync.Mutex
	Events []RecordedEvent
}

// OnTransition records a committed transition.
func (r *EventRecorder) OnTransition(_ context.Context, order model.Order, previous *model.OrderStatus, next model.OrderStatus, actor model.Actor) {
	event := model.EventStatusChanged
	if previous == nil {
		event = model.EventOrderPlaced
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, RecordedEvent{Order: order, Previous: previous, Next: next, Event: event, Actor: actor})
}

// OnInvoiceEvent records an invoice event.
func (r *EventRecorder) OnInvoiceEvent(_ context.Context, order model.Order, invoice model.Invoice, event model.EventTag, actor model.Actor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, RecordedEvent{Order: order, Next: order.Status, Invoice: &invoice, Event: event, Actor: actor})
}

// Tags returns the event tags in emission order.
func (r *EventRecorder) Tags() []model.EventTag {
	r.mu.Lock()
	defer r.mu.Unlock()
	tags := make([]model.EventTag, 0, len(r.Events))
	for _, e := range r.Events {
		tags = append(tags, e.Event)
	}
	return tags
}
