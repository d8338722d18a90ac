package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/domain/repository"
)

// NotificationUseCase reads and acknowledges a user's notifications.
type NotificationUseCase struct {
	notifications repository.NotificationRepository
}

// NewNotificationUseCase constructs NotificationUseCase.
func NewNotificationUseCase(notifications repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notifications: notifications}
}

func (u *NotificationUseCase) List(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) ([]model.Notification, error) {
	return u.notifications.ListByUser(ctx, userID, filter)
}

func (u *NotificationUseCase) UnreadCount(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) (int, error) {
	return u.notifications.UnreadCount(ctx, userID, filter)
}

// MarkAllRead flags every unread notification of the user under filter.
func (u *NotificationUseCase) MarkAllRead(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) (int64, error) {
	return u.notifications.MarkAllRead(ctx, userID, filter)
}
