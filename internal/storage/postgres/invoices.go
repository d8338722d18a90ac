package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
)

const invoiceColumns = `id, order_id, total::text, is_paid, created_at`

func scanInvoice(row scanner) (*model.Invoice, error) {
	var (
		inv   model.Invoice
		total string
	)
	if err := row.Scan(&inv.ID, &inv.OrderID, &total, &inv.Paid, &inv.CreatedAt); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("parse total %q: %w", total, err)
	}
	inv.Total = amount
	return &inv, nil
}

func (r *invoiceRepository) Create(ctx context.Context, orderID uuid.UUID, total decimal.Decimal) (*model.Invoice, error) {
	const query = `INSERT INTO invoices (id, order_id, total) VALUES ($1, $2, $3)
                   ON CONFLICT (order_id) DO NOTHING
                   RETURNING created_at`
	inv := model.Invoice{ID: uuid.New(), OrderID: orderID, Total: total}
	err := r.storage.pool.QueryRow(ctx, query, inv.ID, orderID, total.StringFixed(2)).Scan(&inv.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, domainErrors.ErrAlreadyExists
		case isForeignKeyViolation(err):
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id=$1`, id)
}

func (r *invoiceRepository) GetByOrder(ctx context.Context, orderID uuid.UUID) (*model.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE order_id=$1`, orderID)
}

func (r *invoiceRepository) getOne(ctx context.Context, query string, arg uuid.UUID) (*model.Invoice, error) {
	inv, err := scanInvoice(r.storage.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invoiceRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Invoice, error) {
	const query = `SELECT i.id, i.order_id, i.total::text, i.is_paid, i.created_at
                   FROM invoices i JOIN orders o ON o.id = i.order_id
                   WHERE o.customer_id=$1 ORDER BY i.created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *invoiceRepository) MarkPaid(ctx context.Context, invoiceID uuid.UUID, change model.StatusChange) (*model.Invoice, error) {
	var paid *model.Invoice
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const flip = `UPDATE invoices SET is_paid=TRUE WHERE id=$1 AND is_paid=FALSE RETURNING ` + invoiceColumns
		inv, err := scanInvoice(tx.QueryRow(ctx, flip, invoiceID))
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("flip paid flag: %w", err)
			}
			const existsQuery = `SELECT EXISTS(SELECT 1 FROM invoices WHERE id=$1)`
			var exists bool
			if err := tx.QueryRow(ctx, existsQuery, invoiceID).Scan(&exists); err != nil {
				return fmt.Errorf("check invoice: %w", err)
			}
			if exists {
				return domainErrors.ErrAlreadyPaid
			}
			return domainErrors.ErrNotFound
		}

		change.OrderID = inv.OrderID
		if err := applyTransitionTx(ctx, tx, change); err != nil {
			return err
		}
		paid = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}
