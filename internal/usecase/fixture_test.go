package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/test"
)

type fixture struct {
	store      *test.MemoryStore
	events     *test.EventRecorder
	ledger     *LedgerUseCase
	orders     *OrderUseCase
	invoices   *InvoiceUseCase
	customer   model.Actor
	owner      model.Actor
	admin      model.Actor
	restaurant uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := test.NewMemoryStore()
	events := &test.EventRecorder{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	ledger := NewLedgerUseCase(store.History())

	f := &fixture{
		store:    store,
		events:   events,
		ledger:   ledger,
		orders:   NewOrderUseCase(store.Orders(), store.Invoices(), ledger, events, logger),
		invoices: NewInvoiceUseCase(store.Orders(), store.Invoices(), events),
		customer: model.Actor{UserID: uuid.New(), Role: model.RoleCustomer},
		owner:    model.Actor{UserID: uuid.New(), Role: model.RoleOwner},
		admin:    model.Actor{UserID: uuid.New(), Role: model.RoleAdmin},
	}
	f.restaurant = store.AddRestaurant(f.owner.UserID)
	return f
}

func (f *fixture) place(t *testing.T, total string) *model.Order {
	t.Helper()
	order, err := f.orders.Place(context.Background(), f.customer, PlaceOrderInput{
		RestaurantID: f.restaurant,
		Total:        decimal.RequireFromString(total),
	})
	require.NoError(t, err)
	return order
}

func (f *fixture) move(t *testing.T, actor model.Actor, orderID uuid.UUID, to model.OrderStatus) *model.OrderView {
	t.Helper()
	view, err := f.orders.Transition(context.Background(), actor, orderID, to, nil)
	require.NoError(t, err)
	return view
}

// pairs renders ledger rows as (old, new) with "" for the creation entry.
func pairs(entries []model.StatusChange) [][2]model.OrderStatus {
	out := make([][2]model.OrderStatus, 0, len(entries))
	for _, e := range entries {
		var old model.OrderStatus
		if e.OldStatus != nil {
			old = *e.OldStatus
		}
		out = append(out, [2]model.OrderStatus{old, e.NewStatus})
	}
	return out
}
