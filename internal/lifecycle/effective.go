package lifecycle

import (
	"fmt"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
)

// DeriveEffectiveStatus folds the invoice into the raw order status. It is the
// single source of the status shown to users.
func DeriveEffectiveStatus(order model.Order, invoice *model.Invoice) model.OrderStatus {
	status := Canonical(order.Status)

	switch {
	case status == model.StatusCustomerAccepted && invoice != nil:
		if invoice.Paid {
			return model.StatusPaid
		}
		return model.StatusInvoiced
	case status == model.StatusInvoiced && invoice != nil && invoice.Paid:
		return model.StatusPaid
	}
	return status
}

// ReachedAtLeast reports whether the effective status of order is target or a
// later state in Flow. Cancelled orders never qualify.
func ReachedAtLeast(order model.Order, invoice *model.Invoice, target model.OrderStatus) bool {
	rank := Rank(DeriveEffectiveStatus(order, invoice))
	return rank >= 0 && rank >= Rank(target)
}

// ValidateWalk checks that history, in order, starts with the creation entry
// and moves only along table edges, each entry continuing from the previous one.
func ValidateWalk(history []model.StatusChange) error {
	if len(history) == 0 {
		return nil
	}
	first := history[0]
	if first.OldStatus != nil || Canonical(first.NewStatus) != Initial {
		return fmt.Errorf("entry 0 must create the order as %s: %w", Initial, domainErrors.ErrIllegalTransition)
	}

	for i := 1; i < len(history); i++ {
		prev, cur := history[i-1], history[i]
		if cur.OldStatus == nil {
			return fmt.Errorf("entry %d has no previous status: %w", i, domainErrors.ErrIllegalTransition)
		}
		if Canonical(*cur.OldStatus) != Canonical(prev.NewStatus) {
			return fmt.Errorf("entry %d starts at %s, previous ended at %s: %w", i, *cur.OldStatus, prev.NewStatus, domainErrors.ErrConflictingWrite)
		}
		if IsTerminal(*cur.OldStatus) {
			return fmt.Errorf("entry %d leaves terminal %s: %w", i, *cur.OldStatus, domainErrors.ErrOrderTerminal)
		}
		if _, ok := RolesFor(*cur.OldStatus, cur.NewStatus); !ok {
			return fmt.Errorf("entry %d %s -> %s: %w", i, *cur.OldStatus, cur.NewStatus, domainErrors.ErrIllegalTransition)
		}
	}
	return nil
}
