package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/test"
)

func TestNotificationUseCaseMarkAllReadIsolation(t *testing.T) {
	store := test.NewMemoryStore()
	uc := NewNotificationUseCase(store.Notifications())
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	for _, n := range []model.Notification{
		{UserID: alice, Role: model.RoleCustomer, Message: "a1"},
		{UserID: alice, Role: model.RoleOwner, Message: "a2"},
		{UserID: bob, Role: model.RoleCustomer, Message: "b1"},
	} {
		require.NoError(t, store.Notifications().Create(ctx, &n))
	}

	count, err := uc.UnreadCount(ctx, alice, model.FilterAny)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	updated, err := uc.MarkAllRead(ctx, alice, model.FilterCustomer)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)

	count, err = uc.UnreadCount(ctx, alice, model.FilterOwner)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = uc.MarkAllRead(ctx, alice, model.FilterAny)
	require.NoError(t, err)
	count, err = uc.UnreadCount(ctx, alice, model.FilterAny)
	require.NoError(t, err)
	assert.Zero(t, count)
	for _, n := range store.NotificationsOf(alice) {
		assert.True(t, n.Read)
	}

	count, err = uc.UnreadCount(ctx, bob, model.FilterAny)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	list, err := uc.List(ctx, alice, model.FilterOwner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a2", list[0].Message)
}
