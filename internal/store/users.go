package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claimdesk/claimdesk/internal/identity"
)

// ErrUserNotFound is returned when no account matches the given identifier.
var ErrUserNotFound = errors.New("user not found")

// UserRepository is the storage contract for the account directory.
type UserRepository interface {
	// Upsert records an account keyed by email. The first sighting creates
	// the account with the given role; later sightings refresh the full
	// name only, never the role, so admin role changes are not clobbered
	// by stale tokens.
	Upsert(ctx context.Context, email, fullName, role string) (*identity.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*identity.Account, error)
	// List returns accounts ordered oldest first.
	List(ctx context.Context) ([]*identity.Account, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (*identity.Account, error)
}

// MemoryUserRepo is an in-memory UserRepository used by tests and local
// development.
type MemoryUserRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*identity.Account
	byEmail  map[string]uuid.UUID
	now      func() time.Time
}

// NewMemoryUserRepo creates an empty in-memory account directory.
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		accounts: make(map[uuid.UUID]*identity.Account),
		byEmail:  make(map[string]uuid.UUID),
		now:      time.Now,
	}
}

// Upsert records an account by email.
func (r *MemoryUserRepo) Upsert(_ context.Context, email, fullName, role string) (*identity.Account, error) {
	if email == "" {
		return nil, errors.New("account email cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byEmail[email]; ok {
		acct := r.accounts[id]
		acct.FullName = fullName
		acct.UpdatedAt = r.now()
		out := *acct
		return &out, nil
	}

	acct := &identity.Account{
		ID:        uuid.New(),
		Email:     email,
		FullName:  fullName,
		Role:      role,
		CreatedAt: r.now(),
	}
	acct.UpdatedAt = acct.CreatedAt
	r.accounts[acct.ID] = acct
	r.byEmail[email] = acct.ID
	out := *acct
	return &out, nil
}

// GetByID returns a copy of the stored account.
func (r *MemoryUserRepo) GetByID(_ context.Context, id uuid.UUID) (*identity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acct, ok := r.accounts[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *acct
	return &out, nil
}

// List returns accounts ordered oldest first.
func (r *MemoryUserRepo) List(_ context.Context) ([]*identity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*identity.Account, 0, len(r.accounts))
	for _, acct := range r.accounts {
		cp := *acct
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateRole changes the directory role of an account.
func (r *MemoryUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role string) (*identity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, ok := r.accounts[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	acct.Role = role
	acct.UpdatedAt = r.now()
	out := *acct
	return &out, nil
}
