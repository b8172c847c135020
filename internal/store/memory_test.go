package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/claimdesk/claimdesk/internal/claim"
)

func newTestRepo() *MemoryRepo {
	r := NewMemoryRepo()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	r.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return r
}

func newClaim(name string) *claim.Record {
	return &claim.Record{
		ClaimantName:  name,
		ClaimantEmail: "jane@example.com",
	}
}

func TestCreateAssignsIdentity(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	rec := newClaim("Jane Roe")
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if rec.ID == uuid.Nil {
		t.Error("Create did not assign an ID")
	}
	if rec.ClaimNumber != "CLM-2026-000001" {
		t.Errorf("claim number = %q, want CLM-2026-000001", rec.ClaimNumber)
	}
	if rec.Status != claim.StatusPending {
		t.Errorf("default status = %q, want %q", rec.Status, claim.StatusPending)
	}
	if rec.Priority != claim.PriorityMedium {
		t.Errorf("default priority = %q, want %q", rec.Priority, claim.PriorityMedium)
	}
	if rec.CreatedAt.IsZero() || !rec.UpdatedAt.Equal(rec.CreatedAt) {
		t.Errorf("timestamps: created %v updated %v", rec.CreatedAt, rec.UpdatedAt)
	}

	// Numbers are sequential within the repository.
	second := newClaim("John Smith")
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if second.ClaimNumber != "CLM-2026-000002" {
		t.Errorf("second claim number = %q", second.ClaimNumber)
	}
}

func TestGetReturnsIsolatedCopy(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	rec := newClaim("Jane Roe")
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	got, err := repo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	got.ClaimantName = "mutated"

	again, err := repo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if again.ClaimantName != "Jane Roe" {
		t.Error("mutating a returned record changed stored state")
	}

	byNumber, err := repo.GetByNumber(ctx, rec.ClaimNumber)
	if err != nil {
		t.Fatalf("GetByNumber() error: %v", err)
	}
	if byNumber.ID != rec.ID {
		t.Errorf("GetByNumber returned claim %v, want %v", byNumber.ID, rec.ID)
	}

	if _, err := repo.GetByID(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown ID: err = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByNumber(ctx, "CLM-2026-999999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown number: err = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirstWithPaging(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		if err := repo.Create(ctx, newClaim(fmt.Sprintf("Claimant %d", i))); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}

	all, total, err := repo.List(ctx, 0, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if total != 5 || len(all) != 5 {
		t.Fatalf("List() returned %d/%d, want 5/5", len(all), total)
	}
	if all[0].ClaimantName != "Claimant 5" || all[4].ClaimantName != "Claimant 1" {
		t.Errorf("ordering: first %q last %q", all[0].ClaimantName, all[4].ClaimantName)
	}

	page, total, err := repo.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if total != 5 || len(page) != 2 {
		t.Fatalf("page = %d/%d, want 2/5", len(page), total)
	}
	if page[0].ClaimantName != "Claimant 3" {
		t.Errorf("page starts at %q, want Claimant 3", page[0].ClaimantName)
	}

	empty, total, err := repo.List(ctx, 10, 99)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if total != 5 || len(empty) != 0 {
		t.Errorf("offset past end: %d records, total %d", len(empty), total)
	}
}

// A non-positive limit means unbounded: callers that aggregate over the whole
// backlog depend on no record being silently dropped.
func TestListZeroLimitReturnsEverything(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	const n = 60
	for i := 0; i < n; i++ {
		if err := repo.Create(ctx, newClaim(fmt.Sprintf("Claimant %d", i))); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}

	for _, limit := range []int{0, -1} {
		records, total, err := repo.List(ctx, limit, 0)
		if err != nil {
			t.Fatalf("List(limit=%d) error: %v", limit, err)
		}
		if total != n || len(records) != n {
			t.Errorf("List(limit=%d) returned %d/%d, want %d/%d", limit, len(records), total, n, n)
		}
	}
}

func TestUpdatePreservesIdentityAndNotes(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	rec := newClaim("Jane Roe")
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	note := claim.Note{Content: "Called claimant", Author: "adjuster@example.com", Timestamp: time.Now()}
	if err := repo.AppendNote(ctx, rec.ID, note); err != nil {
		t.Fatalf("AppendNote() error: %v", err)
	}

	// A client update that tries to rewrite the number and wipe the notes
	// must not win.
	modified := *rec
	modified.ClaimNumber = "CLM-9999-000001"
	modified.Notes = nil
	modified.Status = claim.StatusReviewing
	if err := repo.Update(ctx, &modified); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	got, err := repo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.ClaimNumber != rec.ClaimNumber {
		t.Errorf("claim number changed to %q", got.ClaimNumber)
	}
	if len(got.Notes) != 1 || got.Notes[0].Content != "Called claimant" {
		t.Errorf("notes not preserved: %+v", got.Notes)
	}
	if got.Status != claim.StatusReviewing {
		t.Errorf("status = %q, want %q", got.Status, claim.StatusReviewing)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("CreatedAt changed: %v vs %v", got.CreatedAt, rec.CreatedAt)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Errorf("UpdatedAt not advanced: %v", got.UpdatedAt)
	}

	missing := newClaim("Ghost")
	missing.ID = uuid.New()
	if err := repo.Update(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update unknown: err = %v, want ErrNotFound", err)
	}
}

func TestAppendNoteIsAppendOnly(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	rec := newClaim("Jane Roe")
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	for i, content := range []string{"first", "second", "third"} {
		note := claim.Note{Content: content, Author: "adjuster@example.com"}
		if err := repo.AppendNote(ctx, rec.ID, note); err != nil {
			t.Fatalf("AppendNote(%d) error: %v", i, err)
		}
	}

	got, err := repo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if len(got.Notes) != 3 {
		t.Fatalf("note count = %d, want 3", len(got.Notes))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got.Notes[i].Content != want {
			t.Errorf("note %d = %q, want %q", i, got.Notes[i].Content, want)
		}
	}

	if err := repo.AppendNote(ctx, uuid.New(), claim.Note{Content: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("AppendNote unknown: err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	rec := newClaim("Jane Roe")
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := repo.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := repo.GetByID(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted claim still readable: err = %v", err)
	}
	if err := repo.Delete(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: err = %v, want ErrNotFound", err)
	}
}
