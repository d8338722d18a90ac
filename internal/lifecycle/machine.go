package lifecycle

import (
	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
)

// RequestTransition validates moving order to requested on behalf of role and
// returns the canonical status to store. It performs no I/O; persisting the
// result is the ledger's job.
func RequestTransition(order model.Order, requested model.OrderStatus, role model.Role) (model.OrderStatus, error) {
	fail := func(err error) (model.OrderStatus, error) {
		return "", &domainErrors.TransitionError{
			From: string(order.Status),
			To:   string(requested),
			Role: string(role),
			Err:  err,
		}
	}

	from, err := Normalize(order.Status)
	if err != nil {
		return fail(err)
	}
	to, err := Normalize(requested)
	if err != nil {
		return fail(err)
	}
	if IsTerminal(from) {
		return fail(domainErrors.ErrOrderTerminal)
	}

	roles, ok := RolesFor(from, to)
	if !ok {
		return fail(domainErrors.ErrIllegalTransition)
	}
	if !permits(roles, role) {
		return fail(domainErrors.ErrForbiddenForRole)
	}
	return to, nil
}
