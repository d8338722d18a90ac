package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
)

func (r *historyRepository) Append(ctx context.Context, change model.StatusChange) error {
	if change.OldStatus == nil {
		return fmt.Errorf("append without previous status: %w", domainErrors.ErrIllegalTransition)
	}
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		return applyTransitionTx(ctx, tx, change)
	})
}

// applyTransitionTx moves the order only while its stored status still equals
// the previous status the caller observed, then records the ledger row.
func applyTransitionTx(ctx context.Context, tx pgx.Tx, change model.StatusChange) error {
	const updateStatus = `UPDATE orders SET status=$1 WHERE id=$2 AND status=$3`
	tag, err := tx.Exec(ctx, updateStatus, string(change.NewStatus), change.OrderID, string(*change.OldStatus))
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		const existsQuery = `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`
		var exists bool
		if err := tx.QueryRow(ctx, existsQuery, change.OrderID).Scan(&exists); err != nil {
			return fmt.Errorf("check order: %w", err)
		}
		if !exists {
			return domainErrors.ErrNotFound
		}
		return domainErrors.ErrConflictingWrite
	}
	return insertHistoryTx(ctx, tx, change)
}

func insertHistoryTx(ctx context.Context, tx pgx.Tx, change model.StatusChange) error {
	const insertHistory = `INSERT INTO order_status_history (order_id, old_status, new_status, changed_by, changed_at)
                           VALUES ($1, $2, $3, $4, clock_timestamp())`
	if _, err := tx.Exec(ctx, insertHistory, change.OrderID, statusText(change.OldStatus), string(change.NewStatus), uuidText(change.ChangedBy)); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func (r *historyRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.StatusChange, error) {
	const query = `SELECT id, order_id, old_status, new_status, changed_by, changed_at
                   FROM order_status_history WHERE order_id=$1 ORDER BY changed_at, id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.StatusChange
	for rows.Next() {
		var (
			c         model.StatusChange
			oldStatus *string
			newStatus string
			changedBy *string
		)
		if err := rows.Scan(&c.ID, &c.OrderID, &oldStatus, &newStatus, &changedBy, &c.ChangedAt); err != nil {
			return nil, err
		}
		if oldStatus != nil {
			c.OldStatus = model.StatusPtr(model.OrderStatus(*oldStatus))
		}
		c.NewStatus = model.OrderStatus(newStatus)
		c.ChangedBy = parseUUIDText(changedBy)
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func statusText(s *model.OrderStatus) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

func uuidText(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	v := id.String()
	return &v
}

// parseUUIDText treats NULL and non-uuid markers such as "system" as the
// system actor.
func parseUUIDText(raw *string) *uuid.UUID {
	if raw == nil {
		return nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil
	}
	return &id
}
