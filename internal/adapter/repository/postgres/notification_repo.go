package postgres

import (
	"context"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// NotificationRepository implements usecase.NotificationRepository.
type NotificationRepository struct {
	pool Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create stores a notification inside the transfer's database transaction.
func (r *NotificationRepository) Create(ctx context.Context, tx usecase.Transaction, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, kind, amount, message, transaction_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		n.ID,
		n.UserID,
		string(n.Kind),
		n.Amount,
		n.Message,
		n.TransactionID,
		n.Read,
		n.CreatedAt,
	)

	return err
}

// ListByUser returns a user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*domain.Notification, error) {
	query := `
		SELECT id, user_id, kind, amount, message, transaction_id, read, created_at
		FROM notifications
		WHERE user_id = $1 AND (NOT $2 OR read = FALSE)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var (
			n    domain.Notification
			kind string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &kind, &n.Amount, &n.Message, &n.TransactionID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Kind = domain.NotificationKind(kind)
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

// CountUnread counts a user's unread notifications.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`, userID).Scan(&count)
	return count, err
}

// MarkRead marks one notification read. Another user's notification is
// reported as not found.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead marks every unread notification of a user read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
