package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create appends a transaction inside the transfer's database transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, sender_id, receiver_id, amount, origin, recurring_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		txn.ID,
		txn.SenderID,
		txn.ReceiverID,
		txn.Amount,
		string(txn.Origin),
		txn.RecurringID,
		txn.Timestamp,
	)

	return err
}

// List returns the user's transactions newest first, narrowed by filter.
func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	conditions := []string{"(sender_id = $1 OR receiver_id = $1)"}
	args := []any{filter.UserID}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.StartDate != nil {
		add("created_at >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("created_at <= $%d", *filter.EndDate)
	}
	if filter.MinAmount != nil {
		add("amount >= $%d", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		add("amount <= $%d", *filter.MaxAmount)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT id, sender_id, receiver_id, amount, origin, recurring_id, created_at
		FROM transactions
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(conditions, " AND "), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn    domain.Transaction
		origin string
	)

	err := row.Scan(
		&txn.ID,
		&txn.SenderID,
		&txn.ReceiverID,
		&txn.Amount,
		&origin,
		&txn.RecurringID,
		&txn.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	txn.Origin = domain.TransferOrigin(origin)
	return &txn, nil
}
