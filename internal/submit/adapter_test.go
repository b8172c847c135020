package submit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claimdesk/claimdesk/internal/identity"
	"github.com/claimdesk/claimdesk/internal/wizard"
)

func testUser() identity.User {
	return identity.User{
		IsAuthenticated: true,
		UserID:          "u-1",
		Email:           "jane@example.com",
		FullName:        "Jane Roe",
	}
}

func TestFieldMappingResolve(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*wizard.FormState)
		key   string
		want  string
	}{
		{
			name: "primary wins",
			setup: func(s *wizard.FormState) {
				s.Set(wizard.FieldPolicyHolder, "John Smith")
				s.Set(wizard.FieldClaimantName, "Jane Roe")
			},
			key:  "policyHolder",
			want: "John Smith",
		},
		{
			name: "policy holder falls back to claimant name",
			setup: func(s *wizard.FormState) {
				s.Set(wizard.FieldClaimantName, "Jane Roe")
			},
			key:  "policyHolder",
			want: "Jane Roe",
		},
		{
			name: "permanent address falls back to address",
			setup: func(s *wizard.FormState) {
				s.Set(wizard.FieldAddress, "1 Main St")
			},
			key:  "permanentAddress",
			want: "1 Main St",
		},
		{
			name: "patient name falls back to claimant name",
			setup: func(s *wizard.FormState) {
				s.Set(wizard.FieldClaimantName, "Jane Roe")
			},
			key:  "oirPatientName",
			want: "Jane Roe",
		},
		{
			name:  "accident place defaults when empty",
			setup: func(*wizard.FormState) {},
			key:   "accidentPlace",
			want:  notSpecified,
		},
		{
			name:  "own vehicle defaults when empty",
			setup: func(*wizard.FormState) {},
			key:   "ownVehicle",
			want:  notSpecified,
		},
		{
			name:  "plain field stays empty without a default",
			setup: func(*wizard.FormState) {},
			key:   "adjusterName",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := wizard.NewFormState()
			tt.setup(state)

			for _, m := range fieldMappings {
				if m.target != tt.key {
					continue
				}
				if got := m.resolve(state); got != tt.want {
					t.Errorf("resolve(%q) = %q, want %q", tt.key, got, tt.want)
				}
				return
			}
			t.Fatalf("no mapping for target %q", tt.key)
		})
	}
}

func TestAccidentDateFallbackChain(t *testing.T) {
	fixed := func() time.Time { return time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) }

	state := wizard.NewFormState()
	if got := accidentDate(state, fixed); got != "2026-02-01" {
		t.Errorf("empty state: accidentDate = %q, want %q", got, "2026-02-01")
	}

	state.Set(wizard.FieldAccidentDateTime, "2026-01-15T09:30")
	if got := accidentDate(state, fixed); got != "2026-01-15T09:30" {
		t.Errorf("datetime only: accidentDate = %q", got)
	}

	state.Set(wizard.FieldDateOfAccident, "2026-01-15")
	if got := accidentDate(state, fixed); got != "2026-01-15" {
		t.Errorf("explicit date: accidentDate = %q", got)
	}
}

func TestBuildPayloadEmailFromIdentity(t *testing.T) {
	state := wizard.NewFormState()
	// A spoofed email typed into the form must never reach the payload.
	state.Set(wizard.FieldClaimantEmail, "attacker@evil.example")

	a := NewAdapter("http://unused", nil, testUser())
	payload := a.BuildPayload(state)

	if got := payload["claimantEmail"]; got != "jane@example.com" {
		t.Errorf("claimantEmail = %v, want the authenticated address", got)
	}
}

func TestBuildPayloadGatedDetails(t *testing.T) {
	state := wizard.NewFormState()
	state.SetFlag(wizard.FlagInjured, true)
	state.SetFlag(wizard.FlagTreatedByDoctor, true)
	state.Set(wizard.FieldDoctorName, "Dr. Lopez")
	state.Set(wizard.FieldDoctorAddress, "200 Health Way")

	a := NewAdapter("http://unused", nil, testUser())
	payload := a.BuildPayload(state)

	// Injured with no description synthesizes the coarse default entry.
	injuries, ok := payload["injuries"].([]map[string]string)
	if !ok || len(injuries) != 1 {
		t.Fatalf("injuries = %#v, want one synthesized entry", payload["injuries"])
	}
	if injuries[0]["type"] != "General" || injuries[0]["severity"] != "moderate" {
		t.Errorf("synthesized injury = %v", injuries[0])
	}
	if injuries[0]["description"] != defaultInjuryDescription {
		t.Errorf("injury description = %q, want default", injuries[0]["description"])
	}

	treatment, ok := payload["treatmentDetail"].(map[string]string)
	if !ok {
		t.Fatalf("treatmentDetail = %#v", payload["treatmentDetail"])
	}
	if treatment["doctorName"] != "Dr. Lopez" {
		t.Errorf("doctorName = %q", treatment["doctorName"])
	}

	// Ungated sections stay out of the payload entirely.
	for _, key := range []string{"hospitalDetail", "wageLossDetail", "workersCompDetail"} {
		if _, present := payload[key]; present {
			t.Errorf("%s present despite its gate flag being off", key)
		}
	}
}

func TestSubmitSuccess(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/claims" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"claim":{"claimNumber":"CLM-2026-000042"}}`))
	}))
	defer srv.Close()

	state := wizard.NewFormState()
	state.Set(wizard.FieldInsuranceCompany, "Acme Mutual")
	state.Set(wizard.FieldClaimantName, "Jane Roe")

	a := NewAdapter(srv.URL, srv.Client(), testUser())
	res, err := a.Submit(context.Background(), state)
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if res.ClaimNumber != "CLM-2026-000042" {
		t.Errorf("claim number = %q", res.ClaimNumber)
	}
	if received["insuranceCompany"] != "Acme Mutual" {
		t.Errorf("payload insuranceCompany = %v", received["insuranceCompany"])
	}
	if received["claimantEmail"] != "jane@example.com" {
		t.Errorf("payload claimantEmail = %v", received["claimantEmail"])
	}
}

func TestSubmitServerError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "structured error message passed through",
			status:  http.StatusBadRequest,
			body:    `{"error":"claimantEmail is required"}`,
			wantMsg: "claimantEmail is required",
		},
		{
			name:    "opaque body uses the generic message",
			status:  http.StatusBadGateway,
			body:    "<html>upstream timeout</html>",
			wantMsg: "claim submission failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			a := NewAdapter(srv.URL, srv.Client(), testUser())
			_, err := a.Submit(context.Background(), wizard.NewFormState())

			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v, want *StatusError", err)
			}
			if se.Status != tt.status {
				t.Errorf("status = %d, want %d", se.Status, tt.status)
			}
			if se.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", se.Message, tt.wantMsg)
			}
		})
	}
}

func TestSubmitPendingOnUnrecognizedSuccess(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"no claim number", `{"claim":{}}`},
		{"malformed json", `{"claim":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			a := NewAdapter(srv.URL, srv.Client(), testUser())
			res, err := a.Submit(context.Background(), wizard.NewFormState())
			if err != nil {
				t.Fatalf("Submit() error: %v, want soft-pending success", err)
			}
			if res.ClaimNumber != PendingClaimNumber {
				t.Errorf("claim number = %q, want %q", res.ClaimNumber, PendingClaimNumber)
			}
		})
	}
}
