package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/domain/repository"
	"github.com/polkiloo/catering/internal/lifecycle"
)

const numberAttempts = 3

// PlaceOrderInput carries what a customer submits when ordering.
type PlaceOrderInput struct {
	RestaurantID   uuid.UUID
	Total          decimal.Decimal
	SpecialRequest *string
}

// OrderFilter narrows listings. Status accepts synonyms; Range is one of
// "today", "last7" and "last30".
type OrderFilter struct {
	RestaurantID *uuid.UUID
	Status       string
	Range        string
	Limit        int
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders   repository.OrderRepository
	invoices repository.InvoiceRepository
	ledger   *LedgerUseCase
	events   EventSink
	logger   *slog.Logger
	now      func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	invoices repository.InvoiceRepository,
	ledger *LedgerUseCase,
	events EventSink,
	logger *slog.Logger,
) *OrderUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderUseCase{
		orders:   orders,
		invoices: invoices,
		ledger:   ledger,
		events:   sinkOrNop(events),
		logger:   logger,
		now:      time.Now,
	}
}

// Place creates an order in the initial status together with its creation
// ledger entry.
func (u *OrderUseCase) Place(ctx context.Context, actor model.Actor, in PlaceOrderInput) (*model.Order, error) {
	if actor.Role != model.RoleCustomer || actor.IsSystem() {
		return nil, domainErrors.ErrForbiddenForRole
	}
	if in.Total.IsNegative() {
		return nil, domainErrors.ErrInvalidAmount
	}

	var (
		order *model.Order
		err   error
	)
	for attempt := 0; attempt < numberAttempts; attempt++ {
		order = &model.Order{
			ID:             uuid.New(),
			Status:         lifecycle.Initial,
			Total:          in.Total.Round(2),
			SpecialRequest: in.SpecialRequest,
			CustomerID:     actor.UserID,
			RestaurantID:   in.RestaurantID,
		}
		order.Number = orderNumber(order.ID)

		err = u.orders.Create(ctx, order, model.StatusChange{
			OrderID:   order.ID,
			NewStatus: lifecycle.Initial,
			ChangedBy: actor.Ref(),
		})
		if !errors.Is(err, domainErrors.ErrAlreadyExists) {
			break
		}
		u.logger.Warn("order number collision", slog.String("number", order.Number))
	}
	if err != nil {
		return nil, err
	}

	u.events.OnTransition(ctx, *order, nil, order.Status, actor)
	return order, nil
}

func orderNumber(id uuid.UUID) string {
	return "CT-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

// Transition moves the order to requested on behalf of actor. When expected
// is set it must match the status the actor last saw. The HTTP API always
// sets it; internal callers may pass nil, in which case the status read here
// is the one the ledger checks against.
func (u *OrderUseCase) Transition(ctx context.Context, actor model.Actor, orderID uuid.UUID, requested model.OrderStatus, expected *model.OrderStatus) (*model.OrderView, error) {
	order, err := u.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !authorizeParty(actor, *order) {
		return nil, domainErrors.ErrForbiddenForRole
	}
	if expected != nil && lifecycle.Canonical(*expected) != lifecycle.Canonical(order.Status) {
		return nil, domainErrors.ErrConflictingWrite
	}

	next, err := lifecycle.RequestTransition(*order, requested, actor.Role)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	if err := u.ledger.Append(ctx, order.ID, previous, next, actor); err != nil {
		return nil, err
	}
	order.Status = next

	u.events.OnTransition(ctx, *order, &previous, next, actor)
	return u.view(ctx, actor, *order)
}

// Get returns the order as seen by actor.
func (u *OrderUseCase) Get(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.OrderView, error) {
	order, err := u.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !authorizeParty(actor, *order) {
		return nil, domainErrors.ErrForbiddenForRole
	}
	return u.view(ctx, actor, *order)
}

// List returns the orders visible to actor, newest first.
func (u *OrderUseCase) List(ctx context.Context, actor model.Actor, f OrderFilter) ([]model.OrderView, error) {
	q := model.OrderQuery{RestaurantID: f.RestaurantID, Limit: f.Limit}

	switch actor.Role {
	case model.RoleCustomer:
		q.CustomerID = &actor.UserID
	case model.RoleOwner:
		q.OwnerID = &actor.UserID
	case model.RoleAdmin, model.RoleSystem:
	default:
		return nil, domainErrors.ErrForbiddenForRole
	}

	if f.Status != "" {
		status, err := lifecycle.ParseStatus(f.Status)
		if err != nil {
			return nil, fmt.Errorf("status %q: %w", f.Status, domainErrors.ErrInvalidFilter)
		}
		q.Statuses = lifecycle.Variants(status)
	}
	since, err := rangeStart(f.Range, u.now())
	if err != nil {
		return nil, err
	}
	q.Since = since

	orders, err := u.orders.List(ctx, q)
	if err != nil {
		return nil, err
	}

	views := make([]model.OrderView, 0, len(orders))
	for _, o := range orders {
		v, err := u.view(ctx, actor, o)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

func rangeStart(r string, now time.Time) (*time.Time, error) {
	var since time.Time
	switch r {
	case "":
		return nil, nil
	case "today":
		y, m, d := now.Date()
		since = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case "last7":
		since = now.AddDate(0, 0, -7)
	case "last30":
		since = now.AddDate(0, 0, -30)
	default:
		return nil, fmt.Errorf("range %q: %w", r, domainErrors.ErrInvalidFilter)
	}
	return &since, nil
}

func (u *OrderUseCase) view(ctx context.Context, actor model.Actor, order model.Order) (*model.OrderView, error) {
	invoice, err := u.invoices.GetByOrder(ctx, order.ID)
	if err != nil {
		if !errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
		invoice = nil
	}
	return &model.OrderView{
		Order:     order,
		Invoice:   invoice,
		Effective: lifecycle.DeriveEffectiveStatus(order, invoice),
		Next:      lifecycle.NextStates(order.Status, actor.Role),
	}, nil
}
