package wizard

import "strings"

// Step identifies one of the ordered wizard steps. Steps are 1-based.
type Step int

// The seven wizard steps in order.
const (
	StepInsurance Step = iota + 1
	StepPersonal
	StepAccident
	StepMedical
	StepEmployment
	StepAuthorizations
	StepReview
)

// StepCount is the number of wizard steps.
const StepCount = 7

var stepNames = map[Step]string{
	StepInsurance:      "Insurance",
	StepPersonal:       "Personal",
	StepAccident:       "Accident",
	StepMedical:        "Medical",
	StepEmployment:     "Employment",
	StepAuthorizations: "Authorizations",
	StepReview:         "Review",
}

// Name returns the display name of the step.
func (s Step) Name() string {
	return stepNames[s]
}

// requiredField pairs a wizard field key with the human-readable label
// surfaced in validation errors.
type requiredField struct {
	field string
	label string
}

// requiredFields lists the hardcoded required-field checks per step. Medical,
// Employment, and Authorizations carry no required fields. Boolean gate fields
// are never themselves required, so a claimant can complete the form with
// injured=false and skip all injury detail.
var requiredFields = map[Step][]requiredField{
	StepInsurance: {
		{FieldInsuranceCompany, "Auto Insurance Company"},
		{FieldPolicyNumber, "Policy Number"},
	},
	StepPersonal: {
		{FieldClaimantName, "Name"},
		{FieldHomePhone, "Home Phone"},
	},
	StepAccident: {
		{FieldAccidentDateTime, "Date and Time of Accident"},
		{FieldAccidentPlace, "Place of Accident"},
		{FieldAccidentDesc, "Description of Accident"},
	},
}

// StepErrors computes the missing-required-field errors for the given step.
// The check is a presence test on string fields only. The Review step
// recomputes the validity of all prior steps rather than caching it, since
// state may have changed after those steps were passed.
func StepErrors(step Step, state *FormState) []string {
	if step == StepReview {
		var errs []string
		for s := StepInsurance; s < StepReview; s++ {
			errs = append(errs, StepErrors(s, state)...)
		}
		return errs
	}

	var errs []string
	for _, rf := range requiredFields[step] {
		if strings.TrimSpace(state.Get(rf.field)) == "" {
			errs = append(errs, rf.label+" is required")
		}
	}
	return errs
}

// IsStepValid reports whether the step has no missing required fields.
func IsStepValid(step Step, state *FormState) bool {
	return len(StepErrors(step, state)) == 0
}
