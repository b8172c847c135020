// Package submit maps wizard field names onto the claims API schema and
// performs the final create call. The mapping handles legacy renamed fields
// through ordered fallback chains and fabricates the coarse injury entry the
// wizard does not collect structured data for.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/claimdesk/claimdesk/internal/identity"
	"github.com/claimdesk/claimdesk/internal/wizard"
)

// PendingClaimNumber is displayed when the server accepted the claim without
// returning a recognizable identifier (the soft-pending outcome).
const PendingClaimNumber = "Pending"

// defaultInjuryDescription is used when the claimant marked themselves
// injured but left the description empty.
const defaultInjuryDescription = "Injury sustained in accident"

// StatusError is a non-2xx response from the claims API, carrying the
// server-provided message verbatim when one was recognizable.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// Adapter submits a completed wizard form to the claims API. It implements
// wizard.Submitter.
type Adapter struct {
	baseURL string
	client  *http.Client
	user    identity.User
	now     func() time.Time
}

// NewAdapter creates an adapter bound to the claims API base URL and the
// authenticated user. A nil client falls back to http.DefaultClient.
func NewAdapter(baseURL string, client *http.Client, user identity.User) *Adapter {
	if client == nil {
		client = http.DefaultClient
	}
	return &Adapter{
		baseURL: baseURL,
		client:  client,
		user:    user,
		now:     time.Now,
	}
}

// createResponse is the success body shape of POST /api/claims.
type createResponse struct {
	Claim struct {
		ClaimNumber string `json:"claimNumber"`
	} `json:"claim"`
}

// errorResponse is the failure body shape of the claims API.
type errorResponse struct {
	Error string `json:"error"`
}

// Submit maps the form state onto the claims schema and posts it. The call is
// atomic from the caller's perspective: it either succeeds or returns a
// well-defined error with no partial record created. A 2xx response without a
// recognizable claim number is NOT an error; it yields the soft-pending
// result.
func (a *Adapter) Submit(ctx context.Context, state *wizard.FormState) (wizard.SubmitResult, error) {
	payload := a.BuildPayload(state)

	body, err := json.Marshal(payload)
	if err != nil {
		return wizard.SubmitResult{}, fmt.Errorf("failed to encode claim payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/claims", bytes.NewReader(body))
	if err != nil {
		return wizard.SubmitResult{}, fmt.Errorf("failed to build claim request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return wizard.SubmitResult{}, fmt.Errorf("failed to submit claim: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return wizard.SubmitResult{}, fmt.Errorf("failed to read claim response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := "claim submission failed"
		var er errorResponse
		if jsonErr := json.Unmarshal(respBody, &er); jsonErr == nil && er.Error != "" {
			message = er.Error
		}
		return wizard.SubmitResult{}, &StatusError{Status: resp.StatusCode, Message: message}
	}

	// A malformed or empty success body is treated as "claim number
	// pending" rather than a hard failure.
	var cr createResponse
	if err := json.Unmarshal(respBody, &cr); err != nil || cr.Claim.ClaimNumber == "" {
		return wizard.SubmitResult{ClaimNumber: PendingClaimNumber}, nil
	}
	return wizard.SubmitResult{ClaimNumber: cr.Claim.ClaimNumber}, nil
}

// BuildPayload evaluates the field mapping table once and assembles the
// outgoing claim document. The claimant email is always taken from the
// authenticated identity, never from free-text wizard input, so the
// notification address cannot be spoofed.
func (a *Adapter) BuildPayload(state *wizard.FormState) map[string]any {
	payload := make(map[string]any, len(fieldMappings)+16)
	for _, m := range fieldMappings {
		payload[m.target] = m.resolve(state)
	}

	payload["claimantEmail"] = a.user.Email
	payload["dateOfAccident"] = accidentDate(state, a.now)

	for _, flag := range []string{
		wizard.FlagInjured,
		wizard.FlagTreatedByDoctor,
		wizard.FlagHospitalInpatient,
		wizard.FlagHospitalOutpatient,
		wizard.FlagMoreMedicalExpense,
		wizard.FlagInCourseOfEmployment,
		wizard.FlagLostWages,
		wizard.FlagWorkersComp,
	} {
		payload[flag] = state.Flag(flag)
	}

	if state.Flag(wizard.FlagInjured) {
		description := state.Get(wizard.FieldInjuryDescription)
		if description == "" {
			description = defaultInjuryDescription
		}
		payload["injuryDetail"] = map[string]string{"description": description}
		// The wizard collects no per-injury structure, so a single
		// coarse entry is synthesized.
		payload["injuries"] = []map[string]string{{
			"type":        "General",
			"description": description,
			"severity":    "moderate",
		}}
	}

	if state.Flag(wizard.FlagTreatedByDoctor) {
		payload["treatmentDetail"] = map[string]string{
			"doctorName":    state.Get(wizard.FieldDoctorName),
			"doctorAddress": state.Get(wizard.FieldDoctorAddress),
		}
	}

	if state.Flag(wizard.FlagHospitalInpatient) || state.Flag(wizard.FlagHospitalOutpatient) {
		payload["hospitalDetail"] = map[string]string{
			"name":    state.Get(wizard.FieldHospitalName),
			"address": state.Get(wizard.FieldHospitalAddress),
		}
	}

	if state.Flag(wizard.FlagLostWages) {
		payload["wageLossDetail"] = map[string]string{
			"amountLost":        state.Get(wizard.FieldWageLossAmount),
			"averageWeeklyWage": state.Get(wizard.FieldAverageWeeklyWage),
			"disabilityStart":   state.Get(wizard.FieldDisabilityStart),
			"disabilityEnd":     state.Get(wizard.FieldDisabilityEnd),
		}
	}

	if state.Flag(wizard.FlagWorkersComp) {
		payload["workersCompDetail"] = map[string]string{
			"amount": state.Get(wizard.FieldWorkersCompAmount),
		}
	}

	return payload
}
