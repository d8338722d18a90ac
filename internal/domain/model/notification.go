package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventTag labels what caused a notification.
type EventTag string

const (
	EventOrderPlaced    EventTag = "order_placed"
	EventStatusChanged  EventTag = "order_status_changed"
	EventInvoiceCreated EventTag = "invoice_created"
	EventInvoicePaid    EventTag = "invoice_paid"
)

// Notification is a durable message addressed to one user in one role.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	OrderID   *uuid.UUID
	Role      Role
	Event     EventTag
	Title     string
	Message   string
	CreatedAt time.Time
	Read      bool
}

// RoleFilter scopes notification feeds by the recipient role.
type RoleFilter string

const (
	FilterCustomer RoleFilter = "customer"
	FilterOwner    RoleFilter = "owner"
	FilterAny      RoleFilter = "any"
)

// ParseRoleFilter accepts "", "any", "customer" and "owner".
func ParseRoleFilter(raw string) (RoleFilter, error) {
	switch f := RoleFilter(raw); f {
	case "":
		return FilterAny, nil
	case FilterCustomer, FilterOwner, FilterAny:
		return f, nil
	default:
		return "", fmt.Errorf("unknown role filter %q", raw)
	}
}

// Matches reports whether a notification addressed to role passes the filter.
func (f RoleFilter) Matches(role Role) bool {
	return f == FilterAny || f == "" || Role(f) == role
}

// LifecycleEvent is handed to the external status-change collaborator.
type LifecycleEvent struct {
	OrderID     uuid.UUID
	OrderNumber string
	Event       EventTag
	OldStatus   *OrderStatus
	NewStatus   OrderStatus
	InvoiceID   *uuid.UUID
	ActorID     *uuid.UUID
	OccurredAt  time.Time
}
