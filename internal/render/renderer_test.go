package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/claimdesk/claimdesk/internal/claim"
	"github.com/claimdesk/claimdesk/internal/signature"
)

func fullRecord(t *testing.T) *claim.Record {
	t.Helper()
	pad := signature.NewPad(0, 0)
	pad.Begin(30, 60)
	pad.Extend(250, 100)
	pad.Extend(460, 50)
	pad.End()
	sig, err := pad.Export()
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	rec := minimalRecord()
	rec.AccidentDateTime = "2026-01-15T09:30"
	rec.AccidentPlace = "I-95 at NW 125th St"
	rec.AccidentDescription = "Rear-ended while stopped at a traffic light."
	rec.Injured = true
	rec.Injury = &claim.InjuryDetail{Description: "Whiplash and bruising"}
	rec.OtherExpenses = "Taxi to physical therapy: $45"
	rec.Signature = sig
	rec.SignatureDate = "2026-02-20"
	rec.InsuranceAuth = claim.Authorization{
		SubjectName: "Jane Roe",
		Scope:       claim.ScopeComplete,
		Duration:    claim.DurationFixedDates,
		Signature:   sig,
	}
	rec.HIPAAAuth = claim.Authorization{
		SubjectName: "Jane Roe",
		Scope:       claim.ScopePartial,
		Duration:    claim.DurationUntilEvent,
		Signature:   sig,
	}
	return rec
}

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error: %v", err)
	}
	r.now = func() time.Time { return composeTime }
	return r
}

func TestRenderProducesMultiPagePDF(t *testing.T) {
	r := testRenderer(t)

	data, err := r.Render(fullRecord(t))
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header: %.8q", data)
	}

	info, err := Inspect(data)
	if err != nil {
		t.Fatalf("Inspect() error: %v", err)
	}
	// The two authorization forms each open a fresh page after the main
	// content.
	if info.Pages < 3 {
		t.Errorf("page count = %d, want at least 3", info.Pages)
	}
	if info.Size != int64(len(data)) {
		t.Errorf("Inspect size = %d, want %d", info.Size, len(data))
	}
}

func TestRenderPageCountStable(t *testing.T) {
	r := testRenderer(t)
	rec := fullRecord(t)

	first, err := r.Render(rec)
	if err != nil {
		t.Fatalf("first Render() error: %v", err)
	}
	second, err := r.Render(rec)
	if err != nil {
		t.Fatalf("second Render() error: %v", err)
	}

	a, err := Inspect(first)
	if err != nil {
		t.Fatalf("Inspect(first) error: %v", err)
	}
	b, err := Inspect(second)
	if err != nil {
		t.Fatalf("Inspect(second) error: %v", err)
	}
	if a.Pages != b.Pages {
		t.Errorf("page count changed between renders: %d then %d", a.Pages, b.Pages)
	}
}

func TestRenderFailsOnMalformedSignature(t *testing.T) {
	r := testRenderer(t)
	rec := fullRecord(t)
	rec.Signature = "data:image/png;base64,not-base64!!"

	if _, err := r.Render(rec); err == nil {
		t.Fatal("expected an error for a malformed embedded signature")
	}
}

func TestFilename(t *testing.T) {
	rec := &claim.Record{ClaimNumber: "CLM-2026-000007"}
	if got := Filename(rec); got != "claim-CLM-2026-000007.pdf" {
		t.Errorf("Filename = %q", got)
	}
	if got := Filename(&claim.Record{}); got != "claim-draft.pdf" {
		t.Errorf("Filename for unnumbered record = %q", got)
	}
}
