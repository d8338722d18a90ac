package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
)

func TestDeriveEffectiveStatus(t *testing.T) {
	unpaid := &model.Invoice{}
	paid := &model.Invoice{Paid: true}

	cases := []struct {
		name    string
		status  model.OrderStatus
		invoice *model.Invoice
		want    model.OrderStatus
	}{
		{"accepted without invoice", model.StatusCustomerAccepted, nil, model.StatusCustomerAccepted},
		{"accepted with unpaid invoice", model.StatusCustomerAccepted, unpaid, model.StatusInvoiced},
		{"accepted with paid invoice", model.StatusCustomerAccepted, paid, model.StatusPaid},
		{"invoiced and paid", model.StatusInvoiced, paid, model.StatusPaid},
		{"invoiced unpaid", model.StatusInvoiced, unpaid, model.StatusInvoiced},
		{"legacy pending", model.StatusPending, nil, model.StatusOrdered},
		{"legacy completed", model.StatusCompleted, paid, model.StatusDelivered},
		{"scheduled ignores invoice", model.StatusScheduled, paid, model.StatusScheduled},
		{"cancelled stays cancelled", model.StatusCancelled, paid, model.StatusCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := model.Order{Status: tc.status}
			first := DeriveEffectiveStatus(order, tc.invoice)
			assert.Equal(t, tc.want, first)
			assert.Equal(t, first, DeriveEffectiveStatus(order, tc.invoice), "must be idempotent")
		})
	}
}

func TestReachedAtLeast(t *testing.T) {
	accepted := model.Order{Status: model.StatusCustomerAccepted}
	assert.True(t, ReachedAtLeast(accepted, nil, model.StatusCustomerAccepted))
	assert.False(t, ReachedAtLeast(model.Order{Status: model.StatusOwnerAccepted}, nil, model.StatusCustomerAccepted))
	assert.True(t, ReachedAtLeast(model.Order{Status: model.StatusScheduled}, nil, model.StatusCustomerAccepted))
	assert.False(t, ReachedAtLeast(model.Order{Status: model.StatusCancelled}, nil, model.StatusCustomerAccepted))
	assert.True(t, ReachedAtLeast(accepted, &model.Invoice{Paid: true}, model.StatusPaid))
}

func walk(pairs ...[2]model.OrderStatus) []model.StatusChange {
	out := make([]model.StatusChange, 0, len(pairs))
	for _, p := range pairs {
		c := model.StatusChange{NewStatus: p[1]}
		if p[0] != "" {
			c.OldStatus = model.StatusPtr(p[0])
		}
		out = append(out, c)
	}
	return out
}

func TestValidateWalk(t *testing.T) {
	valid := walk(
		[2]model.OrderStatus{"", model.StatusOrdered},
		[2]model.OrderStatus{model.StatusOrdered, model.StatusOwnerAccepted},
		[2]model.OrderStatus{model.StatusOwnerAccepted, model.StatusCustomerAccepted},
		[2]model.OrderStatus{model.StatusCustomerAccepted, model.StatusPaid},
		[2]model.OrderStatus{model.StatusPaid, model.StatusScheduled},
		[2]model.OrderStatus{model.StatusScheduled, model.StatusDelivered},
	)
	require.NoError(t, ValidateWalk(valid))
	require.NoError(t, ValidateWalk(nil))

	legacy := walk(
		[2]model.OrderStatus{"", model.StatusPending},
		[2]model.OrderStatus{model.StatusPending, model.StatusCancelled},
	)
	require.NoError(t, ValidateWalk(legacy))

	noCreation := walk([2]model.OrderStatus{model.StatusOrdered, model.StatusOwnerAccepted})
	assert.ErrorIs(t, ValidateWalk(noCreation), domainErrors.ErrIllegalTransition)

	gap := walk(
		[2]model.OrderStatus{"", model.StatusOrdered},
		[2]model.OrderStatus{model.StatusOwnerAccepted, model.StatusCustomerAccepted},
	)
	assert.ErrorIs(t, ValidateWalk(gap), domainErrors.ErrConflictingWrite)

	skip := walk(
		[2]model.OrderStatus{"", model.StatusOrdered},
		[2]model.OrderStatus{model.StatusOrdered, model.StatusPaid},
	)
	assert.ErrorIs(t, ValidateWalk(skip), domainErrors.ErrIllegalTransition)

	afterCancel := walk(
		[2]model.OrderStatus{"", model.StatusOrdered},
		[2]model.OrderStatus{model.StatusOrdered, model.StatusCancelled},
		[2]model.OrderStatus{model.StatusCancelled, model.StatusOwnerAccepted},
	)
	assert.ErrorIs(t, ValidateWalk(afterCancel), domainErrors.ErrOrderTerminal)
}
