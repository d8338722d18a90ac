package model

import (
	"time"

	"github.com/google/uuid"
)

// StatusChange is one immutable row of the order status ledger.
// OldStatus is nil only for the creation entry; ChangedBy is nil for the system.
type StatusChange struct {
	ID        int64
	OrderID   uuid.UUID
	OldStatus *OrderStatus
	NewStatus OrderStatus
	ChangedBy *uuid.UUID
	ChangedAt time.Time
}

// TimelineEntry is a ledger row annotated with display labels.
type TimelineEntry struct {
	StatusChange
	OldLabel string
	NewLabel string
}
