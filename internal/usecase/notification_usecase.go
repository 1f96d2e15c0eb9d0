package usecase

import (
	"context"

	"github.com/iho/gowallet/internal/domain"
)

// NotificationUseCase handles the notification inbox.
type NotificationUseCase struct {
	notificationRepo NotificationRepository
}

// NewNotificationUseCase creates a new NotificationUseCase.
func NewNotificationUseCase(notificationRepo NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notificationRepo: notificationRepo}
}

// ListNotificationsInput represents input for listing notifications.
type ListNotificationsInput struct {
	UserID     string
	UnreadOnly bool
	Page       int
	Limit      int
}

// NotificationPage is one page of a user's inbox.
type NotificationPage struct {
	Notifications []*domain.Notification
	UnreadCount   int64
	Page          int
	Limit         int
}

// List returns the user's notifications, newest first, with the unread count.
func (uc *NotificationUseCase) List(ctx context.Context, input ListNotificationsInput) (*NotificationPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit, offset := domain.ValidatePagination(page, input.Limit)

	notifications, err := uc.notificationRepo.ListByUser(ctx, input.UserID, input.UnreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}

	unread, err := uc.notificationRepo.CountUnread(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	return &NotificationPage{
		Notifications: notifications,
		UnreadCount:   unread,
		Page:          page,
		Limit:         limit,
	}, nil
}

// MarkRead marks one of the user's notifications as read. Notifications of
// other users are reported as not found.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id, userID string) error {
	return uc.notificationRepo.MarkRead(ctx, id, userID)
}

// MarkAllRead marks every unread notification of the user as read.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return uc.notificationRepo.MarkAllRead(ctx, userID)
}
