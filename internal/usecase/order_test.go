package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
)

func TestOrderUseCasePlace(t *testing.T) {
	f := newFixture(t)
	note := "vegetarian please"

	order, err := f.orders.Place(context.Background(), f.customer, PlaceOrderInput{
		RestaurantID:   f.restaurant,
		Total:          decimal.RequireFromString("60.00"),
		SpecialRequest: &note,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusOrdered, order.Status)
	assert.Equal(t, f.owner.UserID, order.OwnerID)
	assert.Regexp(t, `^CT-[0-9A-F]{8}$`, order.Number)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(60)))

	history := f.store.HistoryOf(order.ID)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].OldStatus)
	assert.Equal(t, model.StatusOrdered, history[0].NewStatus)
	assert.Equal(t, f.customer.UserID, *history[0].ChangedBy)

	assert.Equal(t, []model.EventTag{model.EventOrderPlaced}, f.events.Tags())
}

func TestOrderUseCasePlaceRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orders.Place(ctx, f.owner, PlaceOrderInput{RestaurantID: f.restaurant})
	assert.ErrorIs(t, err, domainErrors.ErrForbiddenForRole)

	_, err = f.orders.Place(ctx, f.customer, PlaceOrderInput{RestaurantID: f.restaurant, Total: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domainErrors.ErrInvalidAmount)

	_, err = f.orders.Place(ctx, f.customer, PlaceOrderInput{RestaurantID: uuid.New(), Total: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)

	assert.Empty(t, f.events.Tags())
}

func TestOrderUseCaseTransition(t *testing.T) {
	f := newFixture(t)
	order := f.place(t, "25.00")

	view := f.move(t, f.owner, order.ID, model.StatusOwnerAccepted)
	assert.Equal(t, model.StatusOwnerAccepted, view.Order.Status)
	assert.Equal(t, model.StatusOwnerAccepted, view.Effective)
	assert.Equal(t, []model.OrderStatus{model.StatusCancelled}, view.Next)

	last := f.events.Events[len(f.events.Events)-1]
	assert.Equal(t, model.StatusOrdered, *last.Previous)
	assert.Equal(t, model.StatusOwnerAccepted, last.Next)
	assert.Equal(t, f.owner, last.Actor)
}

func TestOrderUseCaseTransitionErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.place(t, "10")

	_, err := f.orders.Transition(ctx, f.customer, order.ID, model.StatusOwnerAccepted, nil)
	assert.ErrorIs(t, err, domainErrors.ErrForbiddenForRole)

	stranger := model.Actor{UserID: uuid.New(), Role: model.RoleOwner}
	_, err = f.orders.Transition(ctx, stranger, order.ID, model.StatusOwnerAccepted, nil)
	assert.ErrorIs(t, err, domainErrors.ErrForbiddenForRole)

	_, err = f.orders.Transition(ctx, f.owner, order.ID, model.StatusDelivered, nil)
	assert.ErrorIs(t, err, domainErrors.ErrIllegalTransition)

	_, err = f.orders.Transition(ctx, f.owner, order.ID, model.StatusOwnerAccepted, model.StatusPtr(model.StatusOwnerAccepted))
	assert.ErrorIs(t, err, domainErrors.ErrConflictingWrite)

	_, err = f.orders.Transition(ctx, f.owner, uuid.New(), model.StatusOwnerAccepted, nil)
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)

	assert.Len(t, f.store.HistoryOf(order.ID), 1)
	assert.Equal(t, []model.EventTag{model.EventOrderPlaced}, f.events.Tags())
}

func TestOrderUseCaseTransitionAcceptsLegacyExpectation(t *testing.T) {
	f := newFixture(t)
	order := f.place(t, "10")
	f.store.SetStatus(order.ID, model.StatusPending)

	view, err := f.orders.Transition(context.Background(), f.owner, order.ID, model.StatusOwnerReview, model.StatusPtr(model.StatusOrdered))
	require.NoError(t, err)
	assert.Equal(t, model.StatusOwnerAccepted, view.Order.Status)

	history := f.store.HistoryOf(order.ID)
	assert.Equal(t, model.StatusPending, *history[len(history)-1].OldStatus)
}

func TestCancelledOrderIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.place(t, "10")
	f.move(t, f.customer, order.ID, model.StatusCancelled)
	before := f.store.HistoryOf(order.ID)

	for _, to := range []model.OrderStatus{model.StatusOrdered, model.StatusOwnerAccepted, model.StatusPaid, model.StatusCancelled} {
		_, err := f.orders.Transition(ctx, f.admin, order.ID, to, nil)
		assert.ErrorIs(t, err, domainErrors.ErrOrderTerminal, "to %s", to)
	}

	view, err := f.orders.Get(ctx, f.customer, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, view.Order.Status)
	assert.Equal(t, before, f.store.HistoryOf(order.ID))
}

func TestConcurrentTransitionsCommitOnce(t *testing.T) {
	f := newFixture(t)
	order := f.place(t, "10")
	observed := model.StatusPtr(model.StatusOrdered)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	requests := []struct {
		actor model.Actor
		to    model.OrderStatus
	}{
		{f.owner, model.StatusOwnerAccepted},
		{f.customer, model.StatusCancelled},
	}
	for i, r := range requests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.orders.Transition(context.Background(), r.actor, order.ID, r.to, observed)
		}()
	}
	wg.Wait()

	committed, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			committed++
		case errors.Is(err, domainErrors.ErrConflictingWrite):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, committed)
	assert.Equal(t, 1, conflicts)

	history := f.store.HistoryOf(order.ID)
	require.Len(t, history, 2)
	assert.Equal(t, model.StatusOrdered, *history[1].OldStatus)
}

func TestOrderUseCaseGetVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.place(t, "10")

	_, err := f.orders.Get(ctx, model.Actor{UserID: uuid.New(), Role: model.RoleCustomer}, order.ID)
	assert.ErrorIs(t, err, domainErrors.ErrForbiddenForRole)

	view, err := f.orders.Get(ctx, f.admin, order.ID)
	require.NoError(t, err)
	assert.Nil(t, view.Invoice)
	assert.Equal(t, []model.OrderStatus{model.StatusOwnerAccepted, model.StatusCancelled}, view.Next)
}

func TestOrderUseCaseList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.place(t, "10")
	second := f.place(t, "20")
	f.move(t, f.owner, second.ID, model.StatusOwnerAccepted)

	otherOwner := model.Actor{UserID: uuid.New(), Role: model.RoleOwner}
	otherRestaurant := f.store.AddRestaurant(otherOwner.UserID)
	_, err := f.orders.Place(ctx, f.customer, PlaceOrderInput{RestaurantID: otherRestaurant, Total: decimal.NewFromInt(5)})
	require.NoError(t, err)

	views, err := f.orders.List(ctx, f.customer, OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, views, 3)

	views, err = f.orders.List(ctx, f.owner, OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, views, 2)

	views, err = f.orders.List(ctx, f.owner, OrderFilter{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, first.ID, views[0].Order.ID)

	views, err = f.orders.List(ctx, f.owner, OrderFilter{RestaurantID: &otherRestaurant})
	require.NoError(t, err)
	assert.Empty(t, views)

	views, err = f.orders.List(ctx, f.admin, OrderFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, views, 2)

	_, err = f.orders.List(ctx, f.owner, OrderFilter{Status: "lost"})
	assert.ErrorIs(t, err, domainErrors.ErrInvalidFilter)

	_, err = f.orders.List(ctx, f.owner, OrderFilter{Range: "forever"})
	assert.ErrorIs(t, err, domainErrors.ErrInvalidFilter)
}

func TestOrderUseCaseListRange(t *testing.T) {
	f := newFixture(t)
	f.place(t, "10")

	f.orders.now = func() time.Time { return time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC) }
	views, err := f.orders.List(context.Background(), f.owner, OrderFilter{Range: "today"})
	require.NoError(t, err)
	assert.Len(t, views, 1)

	f.orders.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	views, err = f.orders.List(context.Background(), f.owner, OrderFilter{Range: "last30"})
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestRangeStart(t *testing.T) {
	now := time.Date(2025, 5, 10, 15, 30, 0, 0, time.UTC)

	since, err := rangeStart("", now)
	require.NoError(t, err)
	assert.Nil(t, since)

	since, err = rangeStart("today", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), *since)

	since, err = rangeStart("last7", now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -7), *since)
}

func TestAdminCannotSkipInvoicing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := acceptedOrder(t, f, "60.00")

	for _, to := range []model.OrderStatus{model.StatusInvoiced, model.StatusPaid} {
		_, err := f.orders.Transition(ctx, f.admin, order.ID, to, model.StatusPtr(model.StatusCustomerAccepted))
		assert.ErrorIs(t, err, domainErrors.ErrForbiddenForRole, "to %s", to)
	}
	assert.Zero(t, f.store.InvoiceCount())

	view, err := f.orders.Get(ctx, f.admin, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCustomerAccepted, view.Effective)
	assert.Nil(t, view.Invoice)

	invoice, err := f.invoices.Generate(ctx, f.admin, order.ID)
	require.NoError(t, err)
	_, err = f.invoices.MarkPaid(ctx, f.admin, invoice.ID)
	require.NoError(t, err)

	view, err = f.orders.Get(ctx, f.admin, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, view.Effective)
	assert.True(t, view.Invoice.Paid)
}
