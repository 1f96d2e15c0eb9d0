package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/internal/usecase/mocks"
)

func seedNotifications(t *testing.T, repo *mocks.MockNotificationRepository, userID string, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, repo.Create(context.Background(), nil, &domain.Notification{
			ID:     fmt.Sprintf("%s-n%d", userID, i),
			UserID: userID,
			Kind:   domain.NotificationCredit,
		}))
	}
}

func TestNotificationUseCase(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockNotificationRepository()
	seedNotifications(t, repo, "alice", 3)
	seedNotifications(t, repo, "bob", 2)

	uc := usecase.NewNotificationUseCase(repo)

	page, err := uc.List(ctx, usecase.ListNotificationsInput{UserID: "alice"})
	require.NoError(t, err)
	require.Len(t, page.Notifications, 3)
	assert.Equal(t, "alice-n3", page.Notifications[0].ID)
	assert.EqualValues(t, 3, page.UnreadCount)

	require.NoError(t, uc.MarkRead(ctx, "alice-n1", "alice"))

	err = uc.MarkRead(ctx, "bob-n1", "alice")
	require.ErrorIs(t, err, domain.ErrNotificationNotFound)

	page, err = uc.List(ctx, usecase.ListNotificationsInput{UserID: "alice", UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 2)
	assert.EqualValues(t, 2, page.UnreadCount)

	count, err := uc.MarkAllRead(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	page, err = uc.List(ctx, usecase.ListNotificationsInput{UserID: "bob"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.UnreadCount)
}
