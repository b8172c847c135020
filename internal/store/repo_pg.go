package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claimdesk/claimdesk/internal/claim"
)

// Schema is the DDL for the claims and users tables. Claim documents are
// stored as JSONB with the identity and triage columns lifted out for
// indexing.
const Schema = `
CREATE TABLE IF NOT EXISTS claims (
	id           UUID PRIMARY KEY,
	claim_number TEXT NOT NULL UNIQUE,
	status       TEXT NOT NULL,
	priority     TEXT NOT NULL,
	doc          JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE SEQUENCE IF NOT EXISTS claims_number_seq;
CREATE TABLE IF NOT EXISTS users (
	id         UUID PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	full_name  TEXT NOT NULL,
	role       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// ClaimRepoPG is the Postgres-backed ClaimRepository.
type ClaimRepoPG struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewClaimRepoPG creates a repository over the given connection pool.
func NewClaimRepoPG(pool *pgxpool.Pool) *ClaimRepoPG {
	return &ClaimRepoPG{pool: pool, now: time.Now}
}

// Create stores a new claim, drawing its display number from the claims
// sequence.
func (r *ClaimRepoPG) Create(ctx context.Context, rec *claim.Record) error {
	rec.ID = uuid.New()
	if rec.Status == "" {
		rec.Status = claim.StatusPending
	}
	if rec.Priority == "" {
		rec.Priority = claim.PriorityMedium
	}
	rec.CreatedAt = r.now()
	rec.UpdatedAt = rec.CreatedAt

	var seq int64
	if err := r.pool.QueryRow(ctx, `SELECT nextval('claims_number_seq')`).Scan(&seq); err != nil {
		return fmt.Errorf("failed to assign claim number: %w", err)
	}
	rec.ClaimNumber = fmt.Sprintf("CLM-%d-%06d", rec.CreatedAt.Year(), seq)

	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode claim document: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO claims (id, claim_number, status, priority, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.ClaimNumber, rec.Status, rec.Priority, doc, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert claim: %w", err)
	}
	return nil
}

func (r *ClaimRepoPG) scanClaim(row pgx.Row) (*claim.Record, error) {
	var doc []byte
	var updatedAt time.Time
	if err := row.Scan(&doc, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan claim: %w", err)
	}
	var rec claim.Record
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode claim document: %w", err)
	}
	rec.UpdatedAt = updatedAt
	return &rec, nil
}

// GetByID fetches one claim.
func (r *ClaimRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*claim.Record, error) {
	row := r.pool.QueryRow(ctx, `SELECT doc, updated_at FROM claims WHERE id = $1`, id)
	return r.scanClaim(row)
}

// GetByNumber fetches one claim by display number.
func (r *ClaimRepoPG) GetByNumber(ctx context.Context, number string) (*claim.Record, error) {
	row := r.pool.QueryRow(ctx, `SELECT doc, updated_at FROM claims WHERE claim_number = $1`, number)
	return r.scanClaim(row)
}

// List returns claims ordered newest first along with the total count. A
// limit of zero or less returns every record.
func (r *ClaimRepoPG) List(ctx context.Context, limit, offset int) ([]*claim.Record, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM claims`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count claims: %w", err)
	}

	// LIMIT NULL is Postgres for unbounded.
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	rows, err := r.pool.Query(ctx, `
		SELECT doc, updated_at FROM claims
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limitArg, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	var out []*claim.Record
	for rows.Next() {
		rec, err := r.scanClaim(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list claims: %w", err)
	}
	return out, total, nil
}

// Update overwrites the stored document, preserving claim number, note list,
// and creation time.
func (r *ClaimRepoPG) Update(ctx context.Context, rec *claim.Record) error {
	existing, err := r.GetByID(ctx, rec.ID)
	if err != nil {
		return err
	}
	rec.ClaimNumber = existing.ClaimNumber
	rec.Notes = existing.Notes
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = r.now()

	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode claim document: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE claims SET status = $2, priority = $3, doc = $4, updated_at = $5
		WHERE id = $1`,
		rec.ID, rec.Status, rec.Priority, doc, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update claim: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendNote appends a note to the stored claim document.
func (r *ClaimRepoPG) AppendNote(ctx context.Context, id uuid.UUID, note claim.Note) error {
	rec, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	rec.Notes = append(rec.Notes, note)
	rec.UpdatedAt = r.now()

	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode claim document: %w", err)
	}
	_, err = r.pool.Exec(ctx, `UPDATE claims SET doc = $2, updated_at = $3 WHERE id = $1`,
		id, doc, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to append note: %w", err)
	}
	return nil
}

// Delete removes the claim.
func (r *ClaimRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM claims WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete claim: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
