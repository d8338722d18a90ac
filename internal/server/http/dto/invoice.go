package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceResponse describes the bill of an order.
type InvoiceResponse struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	Total     decimal.Decimal `json:"total"`
	Paid      bool            `json:"paid"`
	CreatedAt time.Time       `json:"created_at"`
}
