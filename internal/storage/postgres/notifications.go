package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/polkiloo/catering/internal/domain/model"
)

const roleClause = `($2::text = 'any' OR role = $2::text)`

func filterArg(f model.RoleFilter) string {
	if f == "" {
		return string(model.FilterAny)
	}
	return string(f)
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	const query = `INSERT INTO user_notifications (id, user_id, order_id, role, event, title, message)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING created_at, is_read`
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return r.storage.pool.QueryRow(ctx, query,
		n.ID, n.UserID, n.OrderID, string(n.Role), optionalText(string(n.Event)), optionalText(n.Title), n.Message,
	).Scan(&n.CreatedAt, &n.Read)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) ([]model.Notification, error) {
	const query = `SELECT id, user_id, order_id, role, event, title, message, created_at, is_read
                   FROM user_notifications WHERE user_id=$1 AND ` + roleClause + `
                   ORDER BY created_at DESC, id`
	rows, err := r.storage.pool.Query(ctx, query, userID, filterArg(filter))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Notification
	for rows.Next() {
		var (
			n     model.Notification
			role  string
			event *string
			title *string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.OrderID, &role, &event, &title, &n.Message, &n.CreatedAt, &n.Read); err != nil {
			return nil, err
		}
		n.Role = model.Role(role)
		if event != nil {
			n.Event = model.EventTag(*event)
		}
		if title != nil {
			n.Title = *title
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) (int, error) {
	const query = `SELECT COUNT(*) FROM user_notifications WHERE user_id=$1 AND is_read=FALSE AND ` + roleClause
	var count int
	if err := r.storage.pool.QueryRow(ctx, query, userID, filterArg(filter)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) (int64, error) {
	const query = `UPDATE user_notifications SET is_read=TRUE WHERE user_id=$1 AND is_read=FALSE AND ` + roleClause
	tag, err := r.storage.pool.Exec(ctx, query, userID, filterArg(filter))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
