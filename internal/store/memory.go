package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claimdesk/claimdesk/internal/claim"
)

// MemoryRepo is an in-memory ClaimRepository used by tests and local
// development.
type MemoryRepo struct {
	mu     sync.RWMutex
	claims map[uuid.UUID]*claim.Record
	seq    int
	now    func() time.Time
}

// NewMemoryRepo creates an empty in-memory repository.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		claims: make(map[uuid.UUID]*claim.Record),
		now:    time.Now,
	}
}

// Create stores a new claim and assigns its server-side identity.
func (r *MemoryRepo) Create(_ context.Context, rec *claim.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	rec.ID = uuid.New()
	rec.ClaimNumber = fmt.Sprintf("CLM-%d-%06d", r.now().Year(), r.seq)
	if rec.Status == "" {
		rec.Status = claim.StatusPending
	}
	if rec.Priority == "" {
		rec.Priority = claim.PriorityMedium
	}
	rec.CreatedAt = r.now()
	rec.UpdatedAt = rec.CreatedAt

	stored, err := cloneRecord(rec)
	if err != nil {
		return err
	}
	r.claims[rec.ID] = stored
	return nil
}

// GetByID returns a copy of the stored claim.
func (r *MemoryRepo) GetByID(_ context.Context, id uuid.UUID) (*claim.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.claims[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecord(rec)
}

// GetByNumber returns a copy of the claim with the given display number.
func (r *MemoryRepo) GetByNumber(_ context.Context, number string) (*claim.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.claims {
		if rec.ClaimNumber == number {
			return cloneRecord(rec)
		}
	}
	return nil, ErrNotFound
}

// List returns claims ordered newest first. A limit of zero or less returns
// every record.
func (r *MemoryRepo) List(_ context.Context, limit, offset int) ([]*claim.Record, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*claim.Record, 0, len(r.claims))
	for _, rec := range r.claims {
		all = append(all, rec)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]*claim.Record, 0, end-offset)
	for _, rec := range all[offset:end] {
		c, err := cloneRecord(rec)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, nil
}

// Update overwrites the stored record, preserving server-assigned identity
// and the append-only note list.
func (r *MemoryRepo) Update(_ context.Context, rec *claim.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.claims[rec.ID]
	if !ok {
		return ErrNotFound
	}

	updated, err := cloneRecord(rec)
	if err != nil {
		return err
	}
	updated.ClaimNumber = existing.ClaimNumber
	updated.Notes = existing.Notes
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.now()
	r.claims[rec.ID] = updated
	return nil
}

// AppendNote appends a note to the claim's note list.
func (r *MemoryRepo) AppendNote(_ context.Context, id uuid.UUID, note claim.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.claims[id]
	if !ok {
		return ErrNotFound
	}
	rec.Notes = append(rec.Notes, note)
	rec.UpdatedAt = r.now()
	return nil
}

// Delete removes the claim.
func (r *MemoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.claims[id]; !ok {
		return ErrNotFound
	}
	delete(r.claims, id)
	return nil
}

// cloneRecord deep-copies a record so callers never share storage with the
// repository.
func cloneRecord(rec *claim.Record) (*claim.Record, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to clone claim record: %w", err)
	}
	var out claim.Record
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to clone claim record: %w", err)
	}
	return &out, nil
}
