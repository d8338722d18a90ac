package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/polkiloo/catering/internal/domain/model"
)

// NotificationRepository stores notifications addressed to users.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) (int, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) (int64, error)
}
