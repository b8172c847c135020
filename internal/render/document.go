package render

import (
	"strings"
	"time"

	"github.com/claimdesk/claimdesk/internal/claim"
)

// missingValue is substituted for every absent scalar field. The rendered
// document never shows a blank value or a literal "undefined"/"null".
const missingValue = "N/A"

// RowKind discriminates the row variants of the layout tree.
type RowKind int

// Row variants.
const (
	RowField     RowKind = iota // label + value
	RowCheckbox                 // label + [X]/[ ] glyph
	RowText                     // free-text paragraph
	RowSignature                // signature line with optional embedded image
)

// Row is one rendered line group inside a section.
type Row struct {
	Kind     RowKind
	Label    string
	Value    string
	Checked  bool
	ImageURI string // data URI for RowSignature; empty renders a blank line
}

// Section is a titled group of rows.
type Section struct {
	Title string
	Rows  []Row
}

// Block is a run of sections. A block with PageBreak set always starts on a
// fresh physical page regardless of where the preceding content ends.
type Block struct {
	PageBreak bool
	Title     string
	Sections  []Section
}

// Document is the composed layout tree fed to the rasterizer.
type Document struct {
	Title  string
	Header Section
	Blocks []Block
	Footer string
}

// display substitutes the missing-value marker for absent scalars.
func display(v string) string {
	if strings.TrimSpace(v) == "" {
		return missingValue
	}
	return v
}

func fieldRow(label, value string) Row {
	return Row{Kind: RowField, Label: label, Value: display(value)}
}

func checkboxRow(label string, checked bool) Row {
	return Row{Kind: RowCheckbox, Label: label, Checked: checked}
}

// Compose builds the complete document layout for a claim record: header,
// nine numbered sections, the two full-page authorization form blocks, and
// the closing footer. Composition is deterministic for a given record and
// timestamp.
func Compose(rec *claim.Record, generatedAt time.Time) *Document {
	doc := &Document{
		Title:  "NO-FAULT ACCIDENT CLAIM FORM",
		Header: composeHeader(rec),
		Footer: "Generated on " + generatedAt.Format("January 2, 2006 at 3:04 PM"),
	}

	main := Block{Sections: composeMainSections(rec)}
	doc.Blocks = append(doc.Blocks,
		main,
		composeAuthorizationBlock("INSURANCE DISCLOSURE AUTHORIZATION", rec.InsuranceAuth),
		composeAuthorizationBlock("HIPAA AUTHORIZATION FOR RELEASE OF MEDICAL INFORMATION", rec.HIPAAAuth),
	)
	return doc
}

func composeHeader(rec *claim.Record) Section {
	filed := ""
	if !rec.CreatedAt.IsZero() {
		filed = rec.CreatedAt.Format("2006-01-02")
	}
	return Section{
		Rows: []Row{
			fieldRow("Claim Number", rec.ClaimNumber),
			fieldRow("Date Filed", filed),
			fieldRow("Status", string(rec.Status)),
		},
	}
}

func composeMainSections(rec *claim.Record) []Section {
	sections := []Section{
		{
			Title: "1. CLAIMANT INFORMATION",
			Rows: []Row{
				fieldRow("Name", rec.ClaimantName),
				fieldRow("Email", rec.ClaimantEmail),
				fieldRow("Home Phone", rec.HomePhone),
				fieldRow("Business Phone", rec.BusinessPhone),
				fieldRow("Address", rec.Address),
				fieldRow("Permanent Address", rec.PermanentAddress),
				fieldRow("Date of Birth", rec.DateOfBirth),
				fieldRow("Social Security No.", rec.SSN),
				fieldRow("Florida Residency Duration", rec.FloridaResidency),
			},
		},
		{
			Title: "2. ACCIDENT INFORMATION",
			Rows: []Row{
				fieldRow("Date and Time of Accident", rec.AccidentDateTime),
				fieldRow("Place of Accident", rec.AccidentPlace),
				{Kind: RowText, Label: "Description of Accident", Value: display(rec.AccidentDescription)},
			},
		},
		{
			Title: "3. VEHICLE INFORMATION",
			Rows: []Row{
				fieldRow("Your Vehicle", rec.OwnVehicle),
				fieldRow("Family Vehicle", rec.FamilyVehicle),
			},
		},
		{
			Title: "4. INSURANCE INFORMATION",
			Rows: []Row{
				fieldRow("Auto Insurance Company", rec.InsuranceCompany),
				fieldRow("Policy Number", rec.PolicyNumber),
				fieldRow("Adjuster Name", rec.AdjusterName),
				fieldRow("Adjuster Phone", rec.AdjusterPhone),
				fieldRow("File Number", rec.FileNumber),
				fieldRow("Policy Holder", rec.PolicyHolder),
				fieldRow("Date of Accident", rec.DateOfAccident),
				fieldRow("Medical Insurance", rec.MedicalInsurance),
				fieldRow("Member ID", rec.MedicalMemberID),
			},
		},
		composeInjurySection(rec),
		composeEmploymentSection(rec),
	}

	// The other-expenses section is omitted entirely when empty, unlike
	// scalar fields which render as N/A.
	if strings.TrimSpace(rec.OtherExpenses) != "" {
		sections = append(sections, Section{
			Title: "7. OTHER EXPENSES",
			Rows:  []Row{{Kind: RowText, Value: rec.OtherExpenses}},
		})
	}

	sections = append(sections,
		Section{
			Title: "8. AUTHORIZATION STATUS",
			Rows: []Row{
				checkboxRow("Medical Authorization Signed", rec.MedicalAuthSignature != ""),
				checkboxRow("Wage Authorization Signed", rec.WageAuthSignature != ""),
				checkboxRow("Insurance Disclosure Authorization Signed", rec.InsuranceAuth.Signature != ""),
				checkboxRow("HIPAA Authorization Signed", rec.HIPAAAuth.Signature != ""),
			},
		},
		Section{
			Title: "9. CLAIMANT SIGNATURE",
			Rows: []Row{
				{Kind: RowSignature, Label: "Signature of Claimant", ImageURI: rec.Signature},
				fieldRow("Date Signed", rec.SignatureDate),
			},
		},
	)
	return sections
}

func composeInjurySection(rec *claim.Record) Section {
	s := Section{Title: "5. INJURY AND MEDICAL TREATMENT"}
	s.Rows = append(s.Rows, checkboxRow("Injured in Accident", rec.Injured))
	if rec.Injured {
		description := ""
		if rec.Injury != nil {
			description = rec.Injury.Description
		}
		s.Rows = append(s.Rows, Row{Kind: RowText, Label: "Injury Description", Value: display(description)})
	}

	s.Rows = append(s.Rows, checkboxRow("Treated by Doctor", rec.TreatedByDoctor))
	if rec.TreatedByDoctor {
		var name, addr string
		if rec.Treatment != nil {
			name, addr = rec.Treatment.DoctorName, rec.Treatment.DoctorAddress
		}
		s.Rows = append(s.Rows,
			fieldRow("Doctor Name", name),
			fieldRow("Doctor Address", addr),
		)
	}

	s.Rows = append(s.Rows,
		checkboxRow("Hospital - Inpatient", rec.HospitalInpatient),
		checkboxRow("Hospital - Outpatient", rec.HospitalOutpatient),
	)
	if rec.HospitalInpatient || rec.HospitalOutpatient {
		var name, addr string
		if rec.Hospital != nil {
			name, addr = rec.Hospital.Name, rec.Hospital.Address
		}
		s.Rows = append(s.Rows,
			fieldRow("Hospital Name", name),
			fieldRow("Hospital Address", addr),
		)
	}

	s.Rows = append(s.Rows,
		fieldRow("Medical Bills to Date", rec.MedicalBillsToDate),
		checkboxRow("Will Incur Further Medical Expense", rec.MoreMedicalExpense),
	)
	return s
}

func composeEmploymentSection(rec *claim.Record) Section {
	s := Section{Title: "6. EMPLOYMENT AND WAGE LOSS"}
	s.Rows = append(s.Rows,
		checkboxRow("In Course of Employment at Time of Accident", rec.InCourseOfEmployment),
		checkboxRow("Lost Wages Due to Accident", rec.LostWages),
	)
	if rec.LostWages {
		var d claim.WageLossDetail
		if rec.WageLoss != nil {
			d = *rec.WageLoss
		}
		s.Rows = append(s.Rows,
			fieldRow("Amount of Wage Loss", d.AmountLost),
			fieldRow("Average Weekly Wage", d.AverageWeeklyWage),
			fieldRow("Disability From", d.DisabilityStart),
			fieldRow("Disability To", d.DisabilityEnd),
		)
	}

	s.Rows = append(s.Rows, checkboxRow("Workers' Compensation Claim", rec.WorkersComp))
	if rec.WorkersComp {
		amount := ""
		if rec.WorkersCompClaim != nil {
			amount = rec.WorkersCompClaim.Amount
		}
		s.Rows = append(s.Rows, fieldRow("Workers' Compensation Amount", amount))
	}
	return s
}

func composeAuthorizationBlock(title string, auth claim.Authorization) Block {
	scope := display(string(auth.Scope))
	scopeRows := []Row{fieldRow("Scope of Disclosure", scope)}
	if auth.Scope == claim.ScopePartial {
		scopeRows = append(scopeRows,
			fieldRow("Excluded Information", strings.Join(auth.ExcludedInfo, "; ")))
	}

	durationRows := []Row{fieldRow("Duration Policy", string(auth.Duration))}
	switch auth.Duration {
	case claim.DurationUntilEvent:
		durationRows = append(durationRows, fieldRow("Terminating Event", auth.DurationEvent))
	default:
		durationRows = append(durationRows,
			fieldRow("Effective From", auth.DurationStart),
			fieldRow("Effective Until", auth.DurationEnd),
		)
	}

	return Block{
		PageBreak: true,
		Title:     title,
		Sections: []Section{
			{
				Title: "1. SUBJECT OF AUTHORIZATION",
				Rows: []Row{
					fieldRow("Name", auth.SubjectName),
					fieldRow("Date of Birth", auth.SubjectDOB),
					fieldRow("Social Security No.", auth.SubjectSSN),
				},
			},
			{Title: "2. SCOPE OF DISCLOSURE", Rows: scopeRows},
			{
				Title: "3. RECIPIENT OF INFORMATION",
				Rows: []Row{
					fieldRow("Recipient Name", auth.RecipientName),
					fieldRow("Recipient Address", auth.RecipientAddr),
				},
			},
			{Title: "4. DURATION OF AUTHORIZATION", Rows: durationRows},
			{
				Title: "5. REVOCATION",
				Rows: []Row{
					fieldRow("Revocation Contact", auth.RevocationAddr),
					{Kind: RowSignature, Label: "Signature", ImageURI: auth.Signature},
					fieldRow("Date Signed", auth.SignatureDate),
				},
			},
		},
	}
}
