package handlers

import (
	"context"
	"iter"

	"github.com/google/uuid"

	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/feed"
	"github.com/polkiloo/catering/internal/server/http/middleware"
	"github.com/polkiloo/catering/internal/usecase"
)

// OrderFacade encapsulates order lifecycle operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, actor model.Actor, in usecase.PlaceOrderInput) (*model.Order, error)
	Orders(ctx context.Context, actor model.Actor, filter usecase.OrderFilter) ([]model.OrderView, error)
	Order(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.OrderView, error)
	Transition(ctx context.Context, actor model.Actor, orderID uuid.UUID, requested model.OrderStatus, expected *model.OrderStatus) (*model.OrderView, error)
	Timeline(ctx context.Context, actor model.Actor, orderID uuid.UUID) (iter.Seq2[model.TimelineEntry, error], error)
	Audit(ctx context.Context, actor model.Actor, orderID uuid.UUID) ([]model.StatusChange, error)
}

// InvoiceFacade provides invoice operations.
type InvoiceFacade interface {
	GenerateInvoice(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.Invoice, error)
	PayInvoice(ctx context.Context, actor model.Actor, invoiceID uuid.UUID) (*model.Invoice, error)
	Invoices(ctx context.Context, actor model.Actor) ([]model.Invoice, error)
}

// NotificationFacade reads, acknowledges and follows a user's notifications.
type NotificationFacade interface {
	Notifications(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) (int, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) (int64, error)
	FollowFeed(ctx context.Context, userID uuid.UUID, filter model.RoleFilter, onChange func(feed.Snapshot)) error
}

// CateringFacade aggregates the full set of operations used across handlers.
type CateringFacade interface {
	middleware.TokenParser
	OrderFacade
	InvoiceFacade
	NotificationFacade
}
