package app

import (
	"context"
	"iter"

	"github.com/google/uuid"

	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/feed"
	"github.com/polkiloo/catering/internal/pkg/auth"
	"github.com/polkiloo/catering/internal/usecase"
)

// CateringFacade gathers the use cases behind the HTTP API.
type CateringFacade struct {
	orders        *usecase.OrderUseCase
	invoices      *usecase.InvoiceUseCase
	ledger        *usecase.LedgerUseCase
	notifications *usecase.NotificationUseCase
	tokens        auth.Strategy
	live          feed.Source
	feedLimit     int
}

// NewCateringFacade constructs CateringFacade.
func NewCateringFacade(
	orders *usecase.OrderUseCase,
	invoices *usecase.InvoiceUseCase,
	ledger *usecase.LedgerUseCase,
	notifications *usecase.NotificationUseCase,
	tokens auth.Strategy,
	live feed.Source,
	feedLimit int,
) *CateringFacade {
	return &CateringFacade{
		orders:        orders,
		invoices:      invoices,
		ledger:        ledger,
		notifications: notifications,
		tokens:        tokens,
		live:          live,
		feedLimit:     feedLimit,
	}
}

func (f *CateringFacade) ParseToken(token string) (model.Actor, error) {
	return f.tokens.ParseToken(token)
}

func (f *CateringFacade) PlaceOrder(ctx context.Context, actor model.Actor, in usecase.PlaceOrderInput) (*model.Order, error) {
	return f.orders.Place(ctx, actor, in)
}

func (f *CateringFacade) Orders(ctx context.Context, actor model.Actor, filter usecase.OrderFilter) ([]model.OrderView, error) {
	return f.orders.List(ctx, actor, filter)
}

func (f *CateringFacade) Order(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.OrderView, error) {
	return f.orders.Get(ctx, actor, orderID)
}

func (f *CateringFacade) Transition(ctx context.Context, actor model.Actor, orderID uuid.UUID, requested model.OrderStatus, expected *model.OrderStatus) (*model.OrderView, error) {
	return f.orders.Transition(ctx, actor, orderID, requested, expected)
}

// Timeline checks that actor may see the order before handing out its history.
func (f *CateringFacade) Timeline(ctx context.Context, actor model.Actor, orderID uuid.UUID) (iter.Seq2[model.TimelineEntry, error], error) {
	if _, err := f.orders.Get(ctx, actor, orderID); err != nil {
		return nil, err
	}
	return f.ledger.Timeline(ctx, orderID), nil
}

// Audit verifies the stored history of an order visible to actor.
func (f *CateringFacade) Audit(ctx context.Context, actor model.Actor, orderID uuid.UUID) ([]model.StatusChange, error) {
	if _, err := f.orders.Get(ctx, actor, orderID); err != nil {
		return nil, err
	}
	return f.ledger.Verify(ctx, orderID)
}

func (f *CateringFacade) GenerateInvoice(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Invoice, error) {
	return f.invoices.Generate(ctx, actor, orderID)
}

func (f *CateringFacade) PayInvoice(ctx context.Context, actor model.Actor, invoiceID uuid.UUID) (*model.Invoice, error) {
	return f.invoices.MarkPaid(ctx, actor, invoiceID)
}

func (f *CateringFacade) Invoices(ctx context.Context, actor model.Actor) ([]model.Invoice, error) {
	return f.invoices.ListForCustomer(ctx, actor)
}

func (f *CateringFacade) Notifications(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) ([]model.Notification, error) {
	return f.notifications.List(ctx, userID, filter)
}

func (f *CateringFacade) UnreadCount(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) (int, error) {
	return f.notifications.UnreadCount(ctx, userID, filter)
}

func (f *CateringFacade) MarkAllRead(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) (int64, error) {
	return f.notifications.MarkAllRead(ctx, userID, filter)
}

// FollowFeed runs a live feed for the user until ctx is done, reporting every
// change to onChange.
func (f *CateringFacade) FollowFeed(ctx context.Context, userID uuid.UUID, filter model.RoleFilter, onChange func(feed.Snapshot)) error {
	fd := feed.New(userID, filter, f.live, f.notifications, feed.WithLimit(f.feedLimit), feed.OnChange(onChange))
	return fd.Run(ctx)
}
