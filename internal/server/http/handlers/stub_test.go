package handlers

import (
	"context"
	"iter"

	"github.com/google/uuid"

	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/feed"
	"github.com/polkiloo/catering/internal/usecase"
)

// facadeStub implements CateringFacade with per-method overrides.
type facadeStub struct {
	ParseTokenFn      func(string) (model.Actor, error)
	PlaceOrderFn      func(context.Context, model.Actor, usecase.PlaceOrderInput) (*model.Order, error)
	OrdersFn          func(context.Context, model.Actor, usecase.OrderFilter) ([]model.OrderView, error)
	OrderFn           func(context.Context, model.Actor, uuid.UUID) (*model.OrderView, error)
	TransitionFn      func(context.Context, model.Actor, uuid.UUID, model.OrderStatus, *model.OrderStatus) (*model.OrderView, error)
	TimelineFn        func(context.Context, model.Actor, uuid.UUID) (iter.Seq2[model.TimelineEntry, error], error)
	AuditFn           func(context.Context, model.Actor, uuid.UUID) ([]model.StatusChange, error)
	GenerateInvoiceFn func(context.Context, model.Actor, uuid.UUID) (*model.Invoice, error)
	PayInvoiceFn      func(context.Context, model.Actor, uuid.UUID) (*model.Invoice, error)
	InvoicesFn        func(context.Context, model.Actor) ([]model.Invoice, error)
	NotificationsFn   func(context.Context, uuid.UUID, model.RoleFilter) ([]model.Notification, error)
	UnreadCountFn     func(context.Context, uuid.UUID, model.RoleFilter) (int, error)
	MarkAllReadFn     func(context.Context, uuid.UUID, model.RoleFilter) (int64, error)
	FollowFeedFn      func(context.Context, uuid.UUID, model.RoleFilter, func(feed.Snapshot)) error
}

func (s facadeStub) ParseToken(token string) (model.Actor, error) {
	if s.ParseTokenFn != nil {
		return s.ParseTokenFn(token)
	}
	return model.Actor{UserID: uuid.New(), Role: model.RoleCustomer}, nil
}

func (s facadeStub) PlaceOrder(ctx context.Context, actor model.Actor, in usecase.PlaceOrderInput) (*model.Order, error) {
	if s.PlaceOrderFn != nil {
		return s.PlaceOrderFn(ctx, actor, in)
	}
	return &model.Order{ID: uuid.New(), Number: "CT-1", Status: model.StatusOrdered, Total: in.Total, CustomerID: actor.UserID, RestaurantID: in.RestaurantID}, nil
}

func (s facadeStub) Orders(ctx context.Context, actor model.Actor, filter usecase.OrderFilter) ([]model.OrderView, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, actor, filter)
	}
	return nil, nil
}

func (s facadeStub) Order(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.OrderView, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, actor, id)
	}
	return &model.OrderView{Order: model.Order{ID: id, Status: model.StatusOrdered}, Effective: model.StatusOrdered}, nil
}

func (s facadeStub) Transition(ctx context.Context, actor model.Actor, id uuid.UUID, requested model.OrderStatus, expected *model.OrderStatus) (*model.OrderView, error) {
	if s.TransitionFn != nil {
		return s.TransitionFn(ctx, actor, id, requested, expected)
	}
	return &model.OrderView{Order: model.Order{ID: id, Status: requested}, Effective: requested}, nil
}

func (s facadeStub) Timeline(ctx context.Context, actor model.Actor, id uuid.UUID) (iter.Seq2[model.TimelineEntry, error], error) {
	if s.TimelineFn != nil {
		return s.TimelineFn(ctx, actor, id)
	}
	return func(func(model.TimelineEntry, error) bool) {}, nil
}

func (s facadeStub) Audit(ctx context.Context, actor model.Actor, id uuid.UUID) ([]model.StatusChange, error) {
	if s.AuditFn != nil {
		return s.AuditFn(ctx, actor, id)
	}
	return []model.StatusChange{}, nil
}

func (s facadeStub) GenerateInvoice(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Invoice, error) {
	if s.GenerateInvoiceFn != nil {
		return s.GenerateInvoiceFn(ctx, actor, id)
	}
	return &model.Invoice{ID: uuid.New(), OrderID: id}, nil
}

func (s facadeStub) PayInvoice(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Invoice, error) {
	if s.PayInvoiceFn != nil {
		return s.PayInvoiceFn(ctx, actor, id)
	}
	return &model.Invoice{ID: id, Paid: true}, nil
}

func (s facadeStub) Invoices(ctx context.Context, actor model.Actor) ([]model.Invoice, error) {
	if s.InvoicesFn != nil {
		return s.InvoicesFn(ctx, actor)
	}
	return nil, nil
}

func (s facadeStub) Notifications(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) ([]model.Notification, error) {
	if s.NotificationsFn != nil {
		return s.NotificationsFn(ctx, userID, filter)
	}
	return nil, nil
}

func (s facadeStub) UnreadCount(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) (int, error) {
	if s.UnreadCountFn != nil {
		return s.UnreadCountFn(ctx, userID, filter)
	}
	return 0, nil
}

func (s facadeStub) MarkAllRead(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) (int64, error) {
	if s.MarkAllReadFn != nil {
		return s.MarkAllReadFn(ctx, userID, filter)
	}
	return 0, nil
}

func (s facadeStub) FollowFeed(ctx context.Context, userID uuid.UUID, filter model.RoleFilter, onChange func(feed.Snapshot)) error {
	if s.FollowFeedFn != nil {
		return s.FollowFeedFn(ctx, userID, filter, onChange)
	}
	<-ctx.Done()
	return ctx.Err()
}

var _ CateringFacade = facadeStub{}
