package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

const userColumns = `id, username, first_name, last_name, phone, hashed_password, accepted_terms, created_at, updated_at`

// UserRepository implements user persistence
type UserRepository struct {
	pool Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(pool Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// CreateTx inserts a new user inside the signup transaction.
func (r *UserRepository) CreateTx(ctx context.Context, tx usecase.Transaction, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.HashedPassword,
		user.AcceptedTerms,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if pgErrorCode(err) == pgErrUniqueViolation {
		return domain.ErrUserExists
	}

	return err
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetByUsername retrieves a user by sign-in email.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	return scanUser(r.pool.QueryRow(ctx, query, username))
}

// GetByIDsTx retrieves the users with the given ids on the caller's
// transaction. Unknown ids are skipped.
func (r *UserRepository) GetByIDsTx(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::text[]) ORDER BY id`

	rows, err := tx.(*Tx).PgxTx().Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

// Update saves names, phone and password of a user.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, phone = $4, hashed_password = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.HashedPassword,
		user.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// Search finds users whose first or last name contains filter, ignoring
// case, excluding excludeID.
func (r *UserRepository) Search(ctx context.Context, filter, excludeID string, limit int) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id <> $1
		  AND (first_name ILIKE '%' || $2 || '%' OR last_name ILIKE '%' || $2 || '%')
		ORDER BY first_name, last_name, id
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, excludeID, escapeLike(filter), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.HashedPassword,
		&user.AcceptedTerms,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func scanUsers(rows pgx.Rows) ([]*domain.User, error) {
	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
