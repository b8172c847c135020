package wizard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeSubmitter struct {
	result  SubmitResult
	err     error
	calls   int
	block   chan struct{}
	started chan struct{}
}

func (f *fakeSubmitter) Submit(ctx context.Context, state *FormState) (SubmitResult, error) {
	f.calls++
	if f.block != nil {
		close(f.started)
		<-f.block
	}
	return f.result, f.err
}

func completeState() *FormState {
	state := NewFormState()
	state.Set(FieldInsuranceCompany, "Acme Mutual")
	state.Set(FieldPolicyNumber, "P-1")
	state.Set(FieldClaimantName, "Jane Roe")
	state.Set(FieldHomePhone, "555-0100")
	state.Set(FieldAccidentDateTime, "2026-01-15T09:30")
	state.Set(FieldAccidentPlace, "I-95 at NW 125th St")
	state.Set(FieldAccidentDesc, "Rear-ended at a light")
	return state
}

func advanceToReview(t *testing.T, c *Controller) {
	t.Helper()
	for c.Current() < StepReview {
		before := c.Current()
		if errs := c.Next(); len(errs) != 0 {
			t.Fatalf("Next() from step %v blocked: %v", before, errs)
		}
		if c.Current() != before+1 {
			t.Fatalf("Next() from step %v did not advance", before)
		}
	}
}

func TestNextBlockedByMissingFields(t *testing.T) {
	c := NewController(completeState(), nil)
	c.State().Set(FieldInsuranceCompany, "")

	errs := c.Next()
	if len(errs) != 1 {
		t.Fatalf("expected 1 blocking error, got %v", errs)
	}
	if !strings.Contains(errs[0], "Auto Insurance Company") {
		t.Errorf("error %q does not name the missing field", errs[0])
	}
	if c.Current() != StepInsurance {
		t.Errorf("step advanced to %v despite blocking error", c.Current())
	}

	// Supplying the value unblocks the exact same transition.
	c.State().Set(FieldInsuranceCompany, "Acme Mutual")
	if errs := c.Next(); len(errs) != 0 {
		t.Fatalf("Next() still blocked after fix: %v", errs)
	}
	if c.Current() != StepPersonal {
		t.Errorf("expected step %v, got %v", StepPersonal, c.Current())
	}
}

func TestBackIsUnconditional(t *testing.T) {
	c := NewController(completeState(), nil)
	advanceToReview(t, c)

	// Back never validates, all the way down to the first step.
	for want := StepReview - 1; want >= StepInsurance; want-- {
		c.Back()
		if c.Current() != want {
			t.Fatalf("Back() landed on %v, want %v", c.Current(), want)
		}
	}

	// Back on the first step is a no-op.
	c.Back()
	if c.Current() != StepInsurance {
		t.Errorf("Back() on first step moved to %v", c.Current())
	}
}

func TestSubmitOnlyFromReview(t *testing.T) {
	sub := &fakeSubmitter{result: SubmitResult{ClaimNumber: "CLM-2026-000001"}}
	c := NewController(completeState(), sub)

	if _, err := c.Submit(context.Background()); !errors.Is(err, ErrNotOnReviewStep) {
		t.Fatalf("Submit off review step: err = %v, want ErrNotOnReviewStep", err)
	}
	if sub.calls != 0 {
		t.Fatalf("submitter called %d times before review step", sub.calls)
	}

	advanceToReview(t, c)

	res, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if res.ClaimNumber != "CLM-2026-000001" {
		t.Errorf("claim number = %q, want %q", res.ClaimNumber, "CLM-2026-000001")
	}
	if got, ok := c.Submitted(); !ok || got != res {
		t.Errorf("Submitted() = (%v, %v) after successful submit", got, ok)
	}
}

func TestSubmitFailureKeepsReviewStep(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("server error (status 502)")}
	c := NewController(completeState(), sub)
	advanceToReview(t, c)

	if _, err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected submit error")
	}
	if c.Current() != StepReview {
		t.Errorf("failed submit moved step to %v", c.Current())
	}
	if _, ok := c.Submitted(); ok {
		t.Error("Submitted() = true after failed submit")
	}

	// The failure is recoverable: a retry goes through.
	sub.err = nil
	sub.result = SubmitResult{ClaimNumber: "Pending"}
	res, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("retry error: %v", err)
	}
	if res.ClaimNumber != "Pending" {
		t.Errorf("claim number = %q, want %q", res.ClaimNumber, "Pending")
	}
}

func TestSubmitAtMostOneInFlight(t *testing.T) {
	sub := &fakeSubmitter{
		result:  SubmitResult{ClaimNumber: "CLM-2026-000002"},
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	c := NewController(completeState(), sub)
	advanceToReview(t, c)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()

	<-sub.started
	if _, err := c.Submit(context.Background()); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("concurrent submit: err = %v, want ErrSubmissionInFlight", err)
	}

	close(sub.block)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("first submit failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first submit did not finish")
	}
	if sub.calls != 1 {
		t.Errorf("submitter called %d times, want 1", sub.calls)
	}
}
