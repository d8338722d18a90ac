package usecase

import (
	"context"

	"github.com/polkiloo/catering/internal/domain/model"
)

// EventSink reacts to committed lifecycle events. Implementations must not
// fail the caller; delivery problems are theirs to log.
type EventSink interface {
	// OnTransition is called after a ledger entry commits. previous is nil
	// for the creation entry.
	OnTransition(ctx context.Context, order model.Order, previous *model.OrderStatus, next model.OrderStatus, actor model.Actor)
	OnInvoiceEvent(ctx context.Context, order model.Order, invoice model.Invoice, event model.EventTag, actor model.Actor)
}

type nopSink struct{}

func (nopSink) OnTransition(context.Context, model.Order, *model.OrderStatus, model.OrderStatus, model.Actor) {
}

func (nopSink) OnInvoiceEvent(context.Context, model.Order, model.Invoice, model.EventTag, model.Actor) {
}

func sinkOrNop(s EventSink) EventSink {
	if s == nil {
		return nopSink{}
	}
	return s
}

// authorizeParty allows the order's own customer and owner plus admins and
// the system.
func authorizeParty(actor model.Actor, order model.Order) bool {
	switch actor.Role {
	case model.RoleAdmin, model.RoleSystem:
		return true
	case model.RoleCustomer:
		return actor.UserID == order.CustomerID
	case model.RoleOwner:
		return actor.UserID == order.OwnerID
	default:
		return false
	}
}
