// Package wizard implements the multi-step claim intake form: the form state
// bag, per-step required-field validation, and the step controller that gates
// forward navigation and final submission.
package wizard

import (
	"time"

	"github.com/claimdesk/claimdesk/internal/signature"
)

// Wizard field keys. String-valued fields live in the value bag, boolean gate
// fields in the flag bag. The submission adapter maps these names onto the
// persistence schema.
const (
	FieldInsuranceCompany   = "insuranceCompany"
	FieldPolicyNumber       = "policyNumber"
	FieldAdjusterName       = "adjusterName"
	FieldAdjusterPhone      = "adjusterPhone"
	FieldFileNumber         = "fileNumber"
	FieldPolicyHolder       = "policyHolder"
	FieldDateOfAccident     = "dateOfAccident"
	FieldMedicalInsurance   = "medicalInsuranceName"
	FieldMedicalMemberID    = "medicalInsuranceMemberId"
	FieldClaimantName       = "claimantName"
	FieldClaimantEmail      = "claimantEmail"
	FieldHomePhone          = "homePhone"
	FieldBusinessPhone      = "businessPhone"
	FieldAddress            = "address"
	FieldPermanentAddress   = "permanentAddress"
	FieldDateOfBirth        = "dateOfBirth"
	FieldSSN                = "ssn"
	FieldFloridaResidency   = "floridaResidencyDuration"
	FieldAccidentDateTime   = "accidentDateTime"
	FieldAccidentPlace      = "accidentPlace"
	FieldAccidentDesc       = "accidentDescription"
	FieldOwnVehicle         = "ownVehicle"
	FieldFamilyVehicle      = "familyVehicle"
	FieldInjuryDescription  = "injuryDescription"
	FieldDoctorName         = "doctorName"
	FieldDoctorAddress      = "doctorAddress"
	FieldHospitalName       = "hospitalName"
	FieldHospitalAddress    = "hospitalAddress"
	FieldMedicalBills       = "medicalBillsToDate"
	FieldWageLossAmount     = "wageLossAmount"
	FieldAverageWeeklyWage  = "averageWeeklyWage"
	FieldDisabilityStart    = "disabilityStart"
	FieldDisabilityEnd      = "disabilityEnd"
	FieldWorkersCompAmount  = "workersCompAmount"
	FieldOtherExpenses      = "otherExpenses"
	FieldSignature          = "signature"
	FieldMedicalAuthSig     = "medicalAuthSignature"
	FieldWageAuthSig        = "wageAuthSignature"
	FieldOIRPatientName     = "oirPatientName"
	FieldOIRProviderName    = "oirProviderName"
	FieldOIRPatientSig      = "oirPatientSignature"
	FieldOIRProviderSig     = "oirProviderSignature"
)

// Boolean gate field keys.
const (
	FlagInjured              = "injured"
	FlagTreatedByDoctor      = "treatedByDoctor"
	FlagHospitalInpatient    = "hospitalInpatient"
	FlagHospitalOutpatient   = "hospitalOutpatient"
	FlagMoreMedicalExpense   = "moreMedicalExpense"
	FlagInCourseOfEmployment = "inCourseOfEmployment"
	FlagLostWages            = "lostWages"
	FlagWorkersComp          = "workersComp"
)

// now is stubbed in tests that assert signature date stamping.
var now = time.Now

// FormState holds the full set of claim form fields entered through the
// wizard. State is ephemeral and in-memory only; a reload loses all progress.
type FormState struct {
	values map[string]string
	flags  map[string]bool
}

// NewFormState returns an empty form state.
func NewFormState() *FormState {
	return &FormState{
		values: make(map[string]string),
		flags:  make(map[string]bool),
	}
}

// Set stores a string field value.
func (f *FormState) Set(field, value string) {
	f.values[field] = value
}

// Get returns a string field value, or "" when unset.
func (f *FormState) Get(field string) string {
	return f.values[field]
}

// SetFlag stores a boolean gate field.
func (f *FormState) SetFlag(field string, value bool) {
	f.flags[field] = value
}

// Flag returns a boolean gate field, or false when unset.
func (f *FormState) Flag(field string) bool {
	return f.flags[field]
}

// ApplySignature exports the pad's raster into the named signature field and
// stamps the companion "<field>Date" field with the current date.
func (f *FormState) ApplySignature(field string, pad *signature.Pad) error {
	uri, err := pad.Export()
	if err != nil {
		return err
	}
	f.values[field] = uri
	f.values[field+"Date"] = now().Format("2006-01-02")
	return nil
}
