package wizard

import (
	"testing"
)

func TestStepErrors(t *testing.T) {
	tests := []struct {
		name       string
		step       Step
		setup      func(*FormState)
		wantErrors int
	}{
		{
			name:       "insurance step - all missing",
			step:       StepInsurance,
			setup:      func(*FormState) {},
			wantErrors: 2,
		},
		{
			name: "insurance step - company missing",
			step: StepInsurance,
			setup: func(s *FormState) {
				s.Set(FieldPolicyNumber, "P-1")
			},
			wantErrors: 1,
		},
		{
			name: "insurance step - complete",
			step: StepInsurance,
			setup: func(s *FormState) {
				s.Set(FieldInsuranceCompany, "Acme Mutual")
				s.Set(FieldPolicyNumber, "P-1")
			},
			wantErrors: 0,
		},
		{
			name: "personal step - complete",
			step: StepPersonal,
			setup: func(s *FormState) {
				s.Set(FieldClaimantName, "Jane Roe")
				s.Set(FieldHomePhone, "555-0100")
			},
			wantErrors: 0,
		},
		{
			name:       "accident step - all missing",
			step:       StepAccident,
			setup:      func(*FormState) {},
			wantErrors: 3,
		},
		{
			name: "whitespace-only value counts as missing",
			step: StepPersonal,
			setup: func(s *FormState) {
				s.Set(FieldClaimantName, "   ")
				s.Set(FieldHomePhone, "555-0100")
			},
			wantErrors: 1,
		},
		{
			name:       "medical step - always valid",
			step:       StepMedical,
			setup:      func(*FormState) {},
			wantErrors: 0,
		},
		{
			name:       "employment step - always valid",
			step:       StepEmployment,
			setup:      func(*FormState) {},
			wantErrors: 0,
		},
		{
			name:       "authorizations step - always valid",
			step:       StepAuthorizations,
			setup:      func(*FormState) {},
			wantErrors: 0,
		},
		{
			name:       "review step - inherits prior required steps",
			step:       StepReview,
			setup:      func(*FormState) {},
			wantErrors: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewFormState()
			tt.setup(state)

			errs := StepErrors(tt.step, state)
			if len(errs) != tt.wantErrors {
				t.Errorf("StepErrors(%v) returned %d errors, want %d: %v",
					tt.step, len(errs), tt.wantErrors, errs)
			}

			if valid := IsStepValid(tt.step, state); valid != (tt.wantErrors == 0) {
				t.Errorf("IsStepValid(%v) = %v, want %v", tt.step, valid, tt.wantErrors == 0)
			}
		})
	}
}

// Gate flags are never themselves required: a claimant can finish the form
// with injured=false and no injury detail. This is the intended optional-field
// policy, not a validation gap.
func TestGateFlagsNeverRequired(t *testing.T) {
	state := NewFormState()
	state.SetFlag(FlagInjured, false)
	state.SetFlag(FlagLostWages, false)

	for s := StepMedical; s <= StepAuthorizations; s++ {
		if errs := StepErrors(s, state); len(errs) != 0 {
			t.Errorf("step %v: expected no errors, got %v", s, errs)
		}
	}
}

func TestReviewStepRecomputes(t *testing.T) {
	state := NewFormState()
	state.Set(FieldInsuranceCompany, "Acme Mutual")
	state.Set(FieldPolicyNumber, "P-1")
	state.Set(FieldClaimantName, "Jane Roe")
	state.Set(FieldHomePhone, "555-0100")
	state.Set(FieldAccidentDateTime, "2026-01-15T09:30")
	state.Set(FieldAccidentPlace, "I-95 at NW 125th St")
	state.Set(FieldAccidentDesc, "Rear-ended at a light")

	if errs := StepErrors(StepReview, state); len(errs) != 0 {
		t.Fatalf("expected review step valid, got %v", errs)
	}

	// Clearing an earlier field must invalidate review again: validity is
	// recomputed, never cached.
	state.Set(FieldPolicyNumber, "")
	errs := StepErrors(StepReview, state)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error after clearing policy number, got %v", errs)
	}
}

func TestStepNames(t *testing.T) {
	want := []string{"Insurance", "Personal", "Accident", "Medical", "Employment", "Authorizations", "Review"}
	for i, name := range want {
		if got := Step(i + 1).Name(); got != name {
			t.Errorf("Step(%d).Name() = %q, want %q", i+1, got, name)
		}
	}
}
