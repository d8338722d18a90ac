package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceOrderRequest describes the payload a customer submits when ordering.
type PlaceOrderRequest struct {
	RestaurantID   uuid.UUID       `json:"restaurant_id" binding:"required"`
	Total          decimal.Decimal `json:"total"`
	SpecialRequest *string         `json:"special_request,omitempty"`
}

// TransitionRequest asks to move an order. ExpectedStatus is the status the
// caller last saw; a mismatch is reported as a conflict.
type TransitionRequest struct {
	Status         string `json:"status" binding:"required"`
	ExpectedStatus string `json:"expected_status" binding:"required"`
}

// OrderResponse is an order as shown to its parties.
type OrderResponse struct {
	ID              uuid.UUID        `json:"id"`
	Number          string           `json:"number"`
	Status          string           `json:"status"`
	EffectiveStatus string           `json:"effective_status"`
	StatusLabel     string           `json:"status_label"`
	Total           decimal.Decimal  `json:"total"`
	SpecialRequest  *string          `json:"special_request,omitempty"`
	CustomerID      uuid.UUID        `json:"customer_id"`
	RestaurantID    uuid.UUID        `json:"restaurant_id"`
	CreatedAt       time.Time        `json:"created_at"`
	Invoice         *InvoiceResponse `json:"invoice,omitempty"`
	NextStatuses    []string         `json:"next_statuses"`
}

// TimelineEntryResponse is one labelled ledger row.
type TimelineEntryResponse struct {
	OldStatus *string    `json:"old_status"`
	OldLabel  string     `json:"old_label,omitempty"`
	NewStatus string     `json:"new_status"`
	NewLabel  string     `json:"new_label"`
	ChangedBy *uuid.UUID `json:"changed_by"`
	ChangedAt time.Time  `json:"changed_at"`
}

// AuditResponse reports whether the stored history is a valid walk.
type AuditResponse struct {
	Valid   bool   `json:"valid"`
	Entries int    `json:"entries"`
	Problem string `json:"problem,omitempty"`
}
