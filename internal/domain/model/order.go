package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the raw status stored on an order row.
type OrderStatus string

const (
	StatusOrdered          OrderStatus = "ordered"
	StatusOwnerAccepted    OrderStatus = "owner_accepted"
	StatusCustomerAccepted OrderStatus = "customer_accepted"
	StatusInvoiced         OrderStatus = "invoiced"
	StatusPaid             OrderStatus = "paid"
	StatusScheduled        OrderStatus = "scheduled"
	StatusDelivered        OrderStatus = "delivered"
	StatusCancelled        OrderStatus = "cancelled"

	// Legacy values still present in older rows.
	StatusPending     OrderStatus = "pending"
	StatusOwnerReview OrderStatus = "owner_review"
	StatusCompleted   OrderStatus = "completed"
)

// Order describes a catering order placed by a customer at a restaurant.
type Order struct {
	ID             uuid.UUID
	Number         string
	Status         OrderStatus
	Total          decimal.Decimal
	SpecialRequest *string
	CreatedAt      time.Time
	CustomerID     uuid.UUID
	RestaurantID   uuid.UUID
	// OwnerID is the owner of RestaurantID.
	OwnerID uuid.UUID
}

// StatusPtr returns a pointer to the provided status.
func StatusPtr(s OrderStatus) *OrderStatus {
	return &s
}

// OrderQuery narrows order listings. Zero values mean "no restriction".
type OrderQuery struct {
	CustomerID   *uuid.UUID
	OwnerID      *uuid.UUID
	RestaurantID *uuid.UUID
	Statuses     []OrderStatus
	Since        *time.Time
	Limit        int
}

// OrderView is an order as presented to readers.
type OrderView struct {
	Order     Order
	Invoice   *Invoice
	Effective OrderStatus
	Next      []OrderStatus
}
