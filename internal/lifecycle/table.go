// Package lifecycle holds the order status vocabulary, the transition table
// and the pure decision logic built on top of it.
package lifecycle

import (
	"slices"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
)

// Flow lists the canonical non-cancelled states in lifecycle order.
var Flow = []model.OrderStatus{
	model.StatusOrdered,
	model.StatusOwnerAccepted,
	model.StatusCustomerAccepted,
	model.StatusInvoiced,
	model.StatusPaid,
	model.StatusScheduled,
	model.StatusDelivered,
}

// Initial is the status every order is created with.
const Initial = model.StatusOrdered

var synonyms = map[model.OrderStatus]model.OrderStatus{
	model.StatusPending:     model.StatusOrdered,
	model.StatusOwnerReview: model.StatusOwnerAccepted,
	model.StatusCompleted:   model.StatusDelivered,
}

var labels = map[model.OrderStatus]string{
	model.StatusOrdered:          "Ordered",
	model.StatusOwnerAccepted:    "Owner accepted",
	model.StatusCustomerAccepted: "Customer accepted",
	model.StatusInvoiced:         "Invoiced",
	model.StatusPaid:             "Paid",
	model.StatusScheduled:        "Scheduled",
	model.StatusDelivered:        "Delivered",
	model.StatusCancelled:        "Cancelled",
}

// Rule is one entry of the transition table.
type Rule struct {
	From  model.OrderStatus
	To    model.OrderStatus
	Roles []model.Role
}

type edge struct {
	from model.OrderStatus
	to   model.OrderStatus
}

var rules = []Rule{
	{From: model.StatusOrdered, To: model.StatusOwnerAccepted, Roles: []model.Role{model.RoleOwner}},
	{From: model.StatusOwnerAccepted, To: model.StatusCustomerAccepted, Roles: []model.Role{model.RoleCustomer}},
	{From: model.StatusCustomerAccepted, To: model.StatusInvoiced, Roles: []model.Role{model.RoleSystem}},
	{From: model.StatusCustomerAccepted, To: model.StatusPaid, Roles: []model.Role{model.RoleSystem}},
	{From: model.StatusInvoiced, To: model.StatusPaid, Roles: []model.Role{model.RoleSystem}},
	{From: model.StatusPaid, To: model.StatusScheduled, Roles: []model.Role{model.RoleOwner}},
	{From: model.StatusScheduled, To: model.StatusDelivered, Roles: []model.Role{model.RoleOwner}},
}

var table = buildTable()

func buildTable() map[edge][]model.Role {
	t := make(map[edge][]model.Role, len(rules)+len(Flow))
	for _, r := range rules {
		t[edge{r.From, r.To}] = r.Roles
	}
	for _, s := range Flow {
		if IsTerminal(s) {
			continue
		}
		t[edge{s, model.StatusCancelled}] = []model.Role{model.RoleCustomer, model.RoleOwner}
	}
	return t
}

// Rules returns every table entry, cancellation edges included.
func Rules() []Rule {
	out := make([]Rule, 0, len(table))
	for _, from := range append(slices.Clone(Flow), model.StatusCancelled) {
		for _, to := range append(slices.Clone(Flow), model.StatusCancelled) {
			if roles, ok := table[edge{from, to}]; ok {
				out = append(out, Rule{From: from, To: to, Roles: slices.Clone(roles)})
			}
		}
	}
	return out
}

// Canonical maps legacy synonyms to canonical states and leaves any other
// value unchanged.
func Canonical(s model.OrderStatus) model.OrderStatus {
	if c, ok := synonyms[s]; ok {
		return c
	}
	return s
}

// Normalize canonicalizes s and rejects values outside the vocabulary.
func Normalize(s model.OrderStatus) (model.OrderStatus, error) {
	c := Canonical(s)
	if _, ok := labels[c]; !ok {
		return "", domainErrors.ErrUnknownStatus
	}
	return c, nil
}

// ParseStatus normalizes a status received from outside.
func ParseStatus(raw string) (model.OrderStatus, error) {
	return Normalize(model.OrderStatus(raw))
}

// IsTerminal reports whether no transition may leave s.
func IsTerminal(s model.OrderStatus) bool {
	c := Canonical(s)
	return c == model.StatusCancelled || c == model.StatusDelivered
}

// Label returns the display name of s, or s itself when unknown.
func Label(s model.OrderStatus) string {
	if l, ok := labels[Canonical(s)]; ok {
		return l
	}
	return string(s)
}

// Rank is the position of s in Flow, or -1 for cancelled and unknown values.
func Rank(s model.OrderStatus) int {
	return slices.Index(Flow, Canonical(s))
}

// Variants returns the canonical status followed by every synonym stored for
// it, for queries over raw column values.
func Variants(s model.OrderStatus) []model.OrderStatus {
	c := Canonical(s)
	out := []model.OrderStatus{c}
	for legacy, canonical := range synonyms {
		if canonical == c {
			out = append(out, legacy)
		}
	}
	return out
}

// RolesFor returns the roles allowed to move from one canonical state to another.
func RolesFor(from, to model.OrderStatus) ([]model.Role, bool) {
	roles, ok := table[edge{Canonical(from), Canonical(to)}]
	return roles, ok
}

// NextStates lists the states role may request from s, in table order.
func NextStates(s model.OrderStatus, role model.Role) []model.OrderStatus {
	from := Canonical(s)
	var next []model.OrderStatus
	for _, r := range Rules() {
		if r.From == from && permits(r.Roles, role) {
			next = append(next, r.To)
		}
	}
	return next
}

// permits lets admin take any edge except those reserved for the system:
// invoicing and payment move only through the invoice generator.
func permits(roles []model.Role, role model.Role) bool {
	if slices.Contains(roles, role) {
		return true
	}
	return role == model.RoleAdmin && !slices.Equal(roles, []model.Role{model.RoleSystem})
}
