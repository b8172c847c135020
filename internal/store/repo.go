// Package store persists claim records. The claim number is assigned here on
// create, never by a client. Notes are append-only: whole-record updates from
// the admin edit path never rewrite the note list.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/claimdesk/claimdesk/internal/claim"
)

// ErrNotFound is returned when no claim matches the given identifier.
var ErrNotFound = errors.New("claim not found")

// ClaimRepository is the storage contract for claim records.
type ClaimRepository interface {
	// Create stores a new claim, assigning its id, claim number, default
	// status, and timestamps.
	Create(ctx context.Context, rec *claim.Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*claim.Record, error)
	GetByNumber(ctx context.Context, number string) (*claim.Record, error)
	// List returns claims ordered newest first along with the total count.
	// A limit of zero or less means unbounded: every record is returned.
	List(ctx context.Context, limit, offset int) ([]*claim.Record, int, error)
	// Update overwrites the stored record wholesale, preserving the
	// server-assigned identity fields and the note list.
	Update(ctx context.Context, rec *claim.Record) error
	AppendNote(ctx context.Context, id uuid.UUID, note claim.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
}
