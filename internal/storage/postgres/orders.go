package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
)

const selectOrders = `SELECT o.id, o.order_number, o.status, o.total::text, o.special_request, o.created_at, o.customer_id, o.restaurant_id, r.owner_id
                      FROM orders o JOIN restaurants r ON r.id = o.restaurant_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (model.Order, error) {
	var (
		o      model.Order
		status string
		total  string
	)
	if err := row.Scan(&o.ID, &o.Number, &status, &total, &o.SpecialRequest, &o.CreatedAt, &o.CustomerID, &o.RestaurantID, &o.OwnerID); err != nil {
		return model.Order{}, err
	}
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return model.Order{}, fmt.Errorf("parse total %q: %w", total, err)
	}
	o.Status = model.OrderStatus(status)
	o.Total = amount
	return o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order, created model.StatusChange) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const ownerQuery = `SELECT owner_id FROM restaurants WHERE id=$1`
		if err := tx.QueryRow(ctx, ownerQuery, order.RestaurantID).Scan(&order.OwnerID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return fmt.Errorf("resolve restaurant owner: %w", err)
		}

		const insertOrder = `INSERT INTO orders (id, order_number, status, total, special_request, customer_id, restaurant_id)
                             VALUES ($1, $2, $3, $4, $5, $6, $7)
                             RETURNING created_at`
		err := tx.QueryRow(ctx, insertOrder,
			order.ID, order.Number, string(order.Status), order.Total.StringFixed(2),
			order.SpecialRequest, order.CustomerID, order.RestaurantID,
		).Scan(&order.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domainErrors.ErrAlreadyExists
			}
			return fmt.Errorf("insert order: %w", err)
		}

		created.OrderID = order.ID
		return insertHistoryTx(ctx, tx, created)
	})
}

func (r *orderRepository) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, selectOrders+` WHERE o.id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, q model.OrderQuery) ([]model.Order, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if q.CustomerID != nil {
		add("o.customer_id = $%d", *q.CustomerID)
	}
	if q.OwnerID != nil {
		add("r.owner_id = $%d", *q.OwnerID)
	}
	if q.RestaurantID != nil {
		add("o.restaurant_id = $%d", *q.RestaurantID)
	}
	if len(q.Statuses) > 0 {
		statuses := make([]string, 0, len(q.Statuses))
		for _, s := range q.Statuses {
			statuses = append(statuses, string(s))
		}
		add("o.status = ANY($%d)", statuses)
	}
	if q.Since != nil {
		add("o.created_at >= $%d", *q.Since)
	}

	query := selectOrders
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY o.created_at DESC"
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
