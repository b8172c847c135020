package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claimdesk/claimdesk/internal/identity"
)

// UserRepoPG is the Postgres-backed UserRepository.
type UserRepoPG struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewUserRepoPG creates a repository over the given connection pool.
func NewUserRepoPG(pool *pgxpool.Pool) *UserRepoPG {
	return &UserRepoPG{pool: pool, now: time.Now}
}

// Upsert records an account by email. On conflict only the full name and
// update time are refreshed; the role column stays under admin control.
func (r *UserRepoPG) Upsert(ctx context.Context, email, fullName, role string) (*identity.Account, error) {
	if email == "" {
		return nil, errors.New("account email cannot be empty")
	}

	ts := r.now()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, full_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (email) DO UPDATE
			SET full_name = EXCLUDED.full_name, updated_at = EXCLUDED.updated_at
		RETURNING id, email, full_name, role, created_at, updated_at`,
		uuid.New(), email, fullName, role, ts)
	return scanAccount(row)
}

// GetByID fetches one account.
func (r *UserRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*identity.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, full_name, role, created_at, updated_at
		FROM users WHERE id = $1`, id)
	return scanAccount(row)
}

// List returns accounts ordered oldest first.
func (r *UserRepoPG) List(ctx context.Context) ([]*identity.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, full_name, role, created_at, updated_at
		FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var out []*identity.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, acct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return out, nil
}

// UpdateRole changes the directory role of an account.
func (r *UserRepoPG) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*identity.Account, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET role = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, email, full_name, role, created_at, updated_at`,
		id, role, r.now())
	return scanAccount(row)
}

func scanAccount(row pgx.Row) (*identity.Account, error) {
	var acct identity.Account
	err := row.Scan(&acct.ID, &acct.Email, &acct.FullName, &acct.Role,
		&acct.CreatedAt, &acct.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &acct, nil
}
