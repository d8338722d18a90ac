package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/catering/internal/domain/model"
)

// InvoiceRepository persists invoices.
type InvoiceRepository interface {
	// Create inserts the invoice unless one already references the order,
	// in which case ErrAlreadyExists is returned and nothing is written.
	Create(ctx context.Context, orderID uuid.UUID, total decimal.Decimal) (*model.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	GetByOrder(ctx context.Context, orderID uuid.UUID) (*model.Invoice, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Invoice, error)
	// MarkPaid flips the paid flag once and applies change through the ledger
	// atomically.
	MarkPaid(ctx context.Context, invoiceID uuid.UUID, change model.StatusChange) (*model.Invoice, error)
}
