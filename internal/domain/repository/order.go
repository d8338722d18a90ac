package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/polkiloo/catering/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create stores the order together with its creation ledger entry.
	Create(ctx context.Context, order *model.Order, created model.StatusChange) error
	Get(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, q model.OrderQuery) ([]model.Order, error)
}

// HistoryRepository is the append-only status ledger.
type HistoryRepository interface {
	// Append commits change.NewStatus on the order only while its stored status
	// still equals *change.OldStatus, recording the ledger row in the same
	// transaction. A mismatch yields ErrConflictingWrite.
	Append(ctx context.Context, change model.StatusChange) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.StatusChange, error)
}
