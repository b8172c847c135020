package submit

import (
	"time"

	"github.com/claimdesk/claimdesk/internal/wizard"
)

// Placeholder text for legacy fields the receiving schema still requires.
const notSpecified = "Not specified"

// fieldMapping maps one wizard field onto a target key of the persistence
// schema. The primary field wins; when it is empty the fallback field is
// consulted; when both are empty the default value is used. Keeping the
// fallback policy in one ordered table makes it independently testable
// instead of scattering ad hoc chains through the adapter.
type fieldMapping struct {
	target   string
	primary  string
	fallback string
	def      string
}

var fieldMappings = []fieldMapping{
	{target: "insuranceCompany", primary: wizard.FieldInsuranceCompany},
	{target: "policyNumber", primary: wizard.FieldPolicyNumber},
	{target: "adjusterName", primary: wizard.FieldAdjusterName},
	{target: "adjusterPhone", primary: wizard.FieldAdjusterPhone},
	{target: "fileNumber", primary: wizard.FieldFileNumber},
	{target: "policyHolder", primary: wizard.FieldPolicyHolder, fallback: wizard.FieldClaimantName},
	{target: "medicalInsuranceName", primary: wizard.FieldMedicalInsurance},
	{target: "medicalInsuranceMemberId", primary: wizard.FieldMedicalMemberID},
	{target: "claimantName", primary: wizard.FieldClaimantName},
	{target: "homePhone", primary: wizard.FieldHomePhone},
	{target: "businessPhone", primary: wizard.FieldBusinessPhone},
	{target: "address", primary: wizard.FieldAddress},
	{target: "permanentAddress", primary: wizard.FieldPermanentAddress, fallback: wizard.FieldAddress},
	{target: "dateOfBirth", primary: wizard.FieldDateOfBirth},
	{target: "ssn", primary: wizard.FieldSSN},
	{target: "floridaResidencyDuration", primary: wizard.FieldFloridaResidency},
	{target: "accidentDateTime", primary: wizard.FieldAccidentDateTime},
	{target: "accidentPlace", primary: wizard.FieldAccidentPlace, def: notSpecified},
	{target: "accidentDescription", primary: wizard.FieldAccidentDesc},
	{target: "ownVehicle", primary: wizard.FieldOwnVehicle, def: notSpecified},
	{target: "familyVehicle", primary: wizard.FieldFamilyVehicle, def: notSpecified},
	{target: "medicalBillsToDate", primary: wizard.FieldMedicalBills},
	{target: "otherExpenses", primary: wizard.FieldOtherExpenses},
	{target: "signature", primary: wizard.FieldSignature},
	{target: "signatureDate", primary: wizard.FieldSignature + "Date"},
	{target: "medicalAuthSignature", primary: wizard.FieldMedicalAuthSig},
	{target: "medicalAuthSignatureDate", primary: wizard.FieldMedicalAuthSig + "Date"},
	{target: "wageAuthSignature", primary: wizard.FieldWageAuthSig},
	{target: "wageAuthSignatureDate", primary: wizard.FieldWageAuthSig + "Date"},
	{target: "oirPatientName", primary: wizard.FieldOIRPatientName, fallback: wizard.FieldClaimantName},
	{target: "oirProviderName", primary: wizard.FieldOIRProviderName},
	{target: "oirPatientSignature", primary: wizard.FieldOIRPatientSig},
	{target: "oirPatientSignatureDate", primary: wizard.FieldOIRPatientSig + "Date"},
	{target: "oirProviderSignature", primary: wizard.FieldOIRProviderSig},
	{target: "oirProviderSignatureDate", primary: wizard.FieldOIRProviderSig + "Date"},
}

// resolve evaluates one mapping against the form state.
func (m fieldMapping) resolve(state *wizard.FormState) string {
	if v := state.Get(m.primary); v != "" {
		return v
	}
	if m.fallback != "" {
		if v := state.Get(m.fallback); v != "" {
			return v
		}
	}
	return m.def
}

// accidentDate resolves the accident date with its dedicated fallback chain:
// the explicit accident date, then the accident datetime, then "now".
func accidentDate(state *wizard.FormState, now func() time.Time) string {
	if v := state.Get(wizard.FieldDateOfAccident); v != "" {
		return v
	}
	if v := state.Get(wizard.FieldAccidentDateTime); v != "" {
		return v
	}
	return now().Format("2006-01-02")
}
