package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is the single bill issued for an order.
type Invoice struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Total     decimal.Decimal
	Paid      bool
	CreatedAt time.Time
}
