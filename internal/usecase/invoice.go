package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/domain/repository"
	"github.com/polkiloo/catering/internal/lifecycle"
)

// InvoiceUseCase issues invoices and confirms their payment.
type InvoiceUseCase struct {
	orders   repository.OrderRepository
	invoices repository.InvoiceRepository
	events   EventSink
}

// NewInvoiceUseCase constructs InvoiceUseCase.
func NewInvoiceUseCase(orders repository.OrderRepository, invoices repository.InvoiceRepository, events EventSink) *InvoiceUseCase {
	return &InvoiceUseCase{orders: orders, invoices: invoices, events: sinkOrNop(events)}
}

// Generate issues the single invoice of an order once the customer accepted
// it. The amount is the total stored on the order.
func (u *InvoiceUseCase) Generate(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Invoice, error) {
	order, err := u.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role == model.RoleCustomer || !authorizeParty(actor, *order) {
		return nil, domainErrors.ErrForbiddenForRole
	}

	existing, err := u.invoices.GetByOrder(ctx, order.ID)
	switch {
	case err == nil:
		return existing, domainErrors.ErrAlreadyExists
	case !errors.Is(err, domainErrors.ErrNotFound):
		return nil, err
	}

	if !lifecycle.ReachedAtLeast(*order, nil, model.StatusCustomerAccepted) {
		return nil, domainErrors.ErrNotYetAccepted
	}

	// The store refuses a second row for the order, so concurrent callers
	// that both passed the read above still produce one invoice.
	invoice, err := u.invoices.Create(ctx, order.ID, order.Total)
	if err != nil {
		return nil, err
	}

	u.events.OnInvoiceEvent(ctx, *order, *invoice, model.EventInvoiceCreated, actor)
	return invoice, nil
}

// MarkPaid flips the paid flag once and moves the order to paid in the same
// transaction.
func (u *InvoiceUseCase) MarkPaid(ctx context.Context, actor model.Actor, invoiceID uuid.UUID) (*model.Invoice, error) {
	invoice, err := u.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	order, err := u.orders.Get(ctx, invoice.OrderID)
	if err != nil {
		return nil, err
	}
	if !authorizeParty(actor, *order) {
		return nil, domainErrors.ErrForbiddenForRole
	}
	if invoice.Paid {
		return invoice, domainErrors.ErrAlreadyPaid
	}

	next, err := lifecycle.RequestTransition(*order, model.StatusPaid, model.RoleSystem)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	paid, err := u.invoices.MarkPaid(ctx, invoice.ID, model.StatusChange{
		OrderID:   order.ID,
		OldStatus: model.StatusPtr(previous),
		NewStatus: next,
		ChangedBy: actor.Ref(),
	})
	if err != nil {
		return nil, err
	}
	order.Status = next

	u.events.OnInvoiceEvent(ctx, *order, *paid, model.EventInvoicePaid, actor)
	return paid, nil
}

// ListForCustomer returns the invoices of the calling customer.
func (u *InvoiceUseCase) ListForCustomer(ctx context.Context, actor model.Actor) ([]model.Invoice, error) {
	if actor.Role != model.RoleCustomer {
		return nil, domainErrors.ErrForbiddenForRole
	}
	return u.invoices.ListByCustomer(ctx, actor.UserID)
}
