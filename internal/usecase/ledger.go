package usecase

import (
	"context"
	"iter"

	"github.com/google/uuid"

	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/domain/repository"
	"github.com/polkiloo/catering/internal/lifecycle"
)

// LedgerUseCase is the append-only status history of orders.
type LedgerUseCase struct {
	history repository.HistoryRepository
}

// NewLedgerUseCase constructs LedgerUseCase.
func NewLedgerUseCase(history repository.HistoryRepository) *LedgerUseCase {
	return &LedgerUseCase{history: history}
}

// Append records previous -> next for the order. previous must be the raw
// status the caller observed; if the stored status moved on in the meantime
// the append fails with ErrConflictingWrite and nothing is written.
func (l *LedgerUseCase) Append(ctx context.Context, orderID uuid.UUID, previous, next model.OrderStatus, actor model.Actor) error {
	return l.history.Append(ctx, model.StatusChange{
		OrderID:   orderID,
		OldStatus: model.StatusPtr(previous),
		NewStatus: next,
		ChangedBy: actor.Ref(),
	})
}

// Timeline yields the order's history oldest first with display labels.
// Nothing is read until the sequence is ranged over, and every range reads
// the ledger afresh. A read failure is yielded once as the error.
func (l *LedgerUseCase) Timeline(ctx context.Context, orderID uuid.UUID) iter.Seq2[model.TimelineEntry, error] {
	return func(yield func(model.TimelineEntry, error) bool) {
		entries, err := l.history.ListByOrder(ctx, orderID)
		if err != nil {
			yield(model.TimelineEntry{}, err)
			return
		}
		for _, e := range entries {
			entry := model.TimelineEntry{StatusChange: e, NewLabel: lifecycle.Label(e.NewStatus)}
			if e.OldStatus != nil {
				entry.OldLabel = lifecycle.Label(*e.OldStatus)
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

// Verify checks that the stored history is a valid walk through the
// transition table.
func (l *LedgerUseCase) Verify(ctx context.Context, orderID uuid.UUID) ([]model.StatusChange, error) {
	entries, err := l.history.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return entries, lifecycle.ValidateWalk(entries)
}
