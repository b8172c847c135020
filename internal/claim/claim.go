// Package claim defines the canonical claim record persisted and rendered by
// the service. A claim is a single filed no-fault accident record with
// claimant, accident, insurance, medical, and authorization data.
package claim

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the triage state of a claim.
type Status string

// Possible values for Status
const (
	StatusPending    Status = "pending"
	StatusReviewing  Status = "reviewing"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReviewing, StatusApproved, StatusRejected, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority represents the handling priority assigned by an administrator.
type Priority string

// Possible values for Priority
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is a known priority value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Note is a single admin annotation on a claim. Notes are append-only.
type Note struct {
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

// Injury is one coarse injury entry attached to a claim at submission time.
type Injury struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// InjuryDetail holds the fields that are meaningful only when Injured is set.
type InjuryDetail struct {
	Description string `json:"description"`
}

// TreatmentDetail holds the fields gated by TreatedByDoctor.
type TreatmentDetail struct {
	DoctorName    string `json:"doctorName"`
	DoctorAddress string `json:"doctorAddress"`
}

// HospitalDetail holds the fields gated by HospitalInpatient/HospitalOutpatient.
type HospitalDetail struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// WageLossDetail holds the fields gated by LostWages.
type WageLossDetail struct {
	AmountLost        string `json:"amountLost"`
	AverageWeeklyWage string `json:"averageWeeklyWage"`
	DisabilityStart   string `json:"disabilityStart"`
	DisabilityEnd     string `json:"disabilityEnd"`
}

// WorkersCompDetail holds the fields gated by WorkersComp.
type WorkersCompDetail struct {
	Amount string `json:"amount"`
}

// DisclosureScope describes how much information an authorization covers.
type DisclosureScope string

// Possible values for DisclosureScope
const (
	ScopeComplete DisclosureScope = "complete"
	ScopePartial  DisclosureScope = "partial"
)

// DurationPolicy describes how long an authorization remains in force.
type DurationPolicy string

// Possible values for DurationPolicy
const (
	DurationFixedDates DurationPolicy = "fixed-dates"
	DurationUntilEvent DurationPolicy = "until-event"
)

// Authorization is one of the two independent disclosure-consent sub-records
// attached to a claim (Insurance Disclosure, HIPAA). Each is internally
// complete and is not normalized against the parent claimant record.
type Authorization struct {
	SubjectName    string          `json:"subjectName"`
	SubjectDOB     string          `json:"subjectDob"`
	SubjectSSN     string          `json:"subjectSsn"`
	Scope          DisclosureScope `json:"scope"`
	ExcludedInfo   []string        `json:"excludedInfo,omitempty"`
	RecipientName  string          `json:"recipientName"`
	RecipientAddr  string          `json:"recipientAddress"`
	Duration       DurationPolicy  `json:"duration"`
	DurationStart  string          `json:"durationStart"`
	DurationEnd    string          `json:"durationEnd"`
	DurationEvent  string          `json:"durationEvent"`
	RevocationAddr string          `json:"revocationContact"`
	Signature      string          `json:"signature"`
	SignatureDate  string          `json:"signatureDate"`
}

// Record is the canonical claim entity. Signature fields hold either an empty
// string or a raster image data URI; there is no textual equivalent. Boolean
// gate fields control whether their detail sub-structs are meaningful, but the
// record does not enforce consistency between a gate and its detail.
type Record struct {
	ID          uuid.UUID `json:"id"`
	ClaimNumber string    `json:"claimNumber"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`

	// Insurance
	InsuranceCompany   string `json:"insuranceCompany"`
	PolicyNumber       string `json:"policyNumber"`
	AdjusterName       string `json:"adjusterName"`
	AdjusterPhone      string `json:"adjusterPhone"`
	FileNumber         string `json:"fileNumber"`
	PolicyHolder       string `json:"policyHolder"`
	DateOfAccident     string `json:"dateOfAccident"`
	MedicalInsurance   string `json:"medicalInsuranceName"`
	MedicalMemberID    string `json:"medicalInsuranceMemberId"`

	// Claimant
	ClaimantName     string `json:"claimantName"`
	ClaimantEmail    string `json:"claimantEmail"`
	HomePhone        string `json:"homePhone"`
	BusinessPhone    string `json:"businessPhone"`
	Address          string `json:"address"`
	PermanentAddress string `json:"permanentAddress"`
	DateOfBirth      string `json:"dateOfBirth"`
	SSN              string `json:"ssn"`
	FloridaResidency string `json:"floridaResidencyDuration"`

	// Accident
	AccidentDateTime    string `json:"accidentDateTime"`
	AccidentPlace       string `json:"accidentPlace"`
	AccidentDescription string `json:"accidentDescription"`
	OwnVehicle          string `json:"ownVehicle"`
	FamilyVehicle       string `json:"familyVehicle"`

	Injured  bool          `json:"injured"`
	Injury   *InjuryDetail `json:"injuryDetail,omitempty"`
	Injuries []Injury      `json:"injuries,omitempty"`

	// Medical treatment
	TreatedByDoctor    bool             `json:"treatedByDoctor"`
	Treatment          *TreatmentDetail `json:"treatmentDetail,omitempty"`
	HospitalInpatient  bool             `json:"hospitalInpatient"`
	HospitalOutpatient bool             `json:"hospitalOutpatient"`
	Hospital           *HospitalDetail  `json:"hospitalDetail,omitempty"`
	MedicalBillsToDate string           `json:"medicalBillsToDate"`
	MoreMedicalExpense bool             `json:"moreMedicalExpense"`

	// Employment and wages
	InCourseOfEmployment bool               `json:"inCourseOfEmployment"`
	LostWages            bool               `json:"lostWages"`
	WageLoss             *WageLossDetail    `json:"wageLossDetail,omitempty"`
	WorkersComp          bool               `json:"workersComp"`
	WorkersCompClaim     *WorkersCompDetail `json:"workersCompDetail,omitempty"`
	OtherExpenses        string             `json:"otherExpenses"`

	// Legal signatures (raster image data URIs)
	Signature                string `json:"signature"`
	SignatureDate            string `json:"signatureDate"`
	MedicalAuthSignature     string `json:"medicalAuthSignature"`
	MedicalAuthSignatureDate string `json:"medicalAuthSignatureDate"`
	WageAuthSignature        string `json:"wageAuthSignature"`
	WageAuthSignatureDate    string `json:"wageAuthSignatureDate"`

	// OIR-B1-1571 statutory disclosure
	OIRPatientName          string `json:"oirPatientName"`
	OIRProviderName         string `json:"oirProviderName"`
	OIRPatientSignature     string `json:"oirPatientSignature"`
	OIRPatientSignatureDate string `json:"oirPatientSignatureDate"`
	OIRProviderSignature    string `json:"oirProviderSignature"`
	OIRProviderSignatureDate string `json:"oirProviderSignatureDate"`

	// Extended authorization sub-documents
	InsuranceAuth Authorization `json:"insuranceAuthorization"`
	HIPAAAuth     Authorization `json:"hipaaAuthorization"`

	// Financial (admin-editable)
	EstimatedValue   float64 `json:"estimatedValue"`
	SettlementAmount float64 `json:"settlementAmount"`

	Notes []Note `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
