package render

import (
	"fmt"
	"time"

	"github.com/claimdesk/claimdesk/internal/claim"
)

// Renderer produces the downloadable claim document. Render is idempotent
// given the same claim record: section ordering, page-break placement, and
// missing-field substitutions are deterministic. Rendering is all-or-nothing;
// there is no partial-PDF fallback.
type Renderer struct {
	style *Style
	now   func() time.Time
}

// NewRenderer constructs a renderer with the fixed legal-document style.
func NewRenderer() (*Renderer, error) {
	style, err := NewStyle()
	if err != nil {
		return nil, fmt.Errorf("failed to build document style: %w", err)
	}
	return &Renderer{style: style, now: time.Now}, nil
}

// Render composes, rasterizes, paginates, and assembles the claim document.
// The off-screen surface is owned exclusively for the duration of the call
// and is not retained on either path.
func (r *Renderer) Render(rec *claim.Record) ([]byte, error) {
	doc := Compose(rec, r.now())

	tall, breaks, err := Rasterize(doc, r.style)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize claim document: %w", err)
	}

	pages := Paginate(tall, RasterWidth, RasterHeight, breaks)
	out, err := Assemble(pages)
	if err != nil {
		return nil, fmt.Errorf("failed to generate document: %w", err)
	}
	return out, nil
}

// Filename derives the download filename from the claim number.
func Filename(rec *claim.Record) string {
	number := rec.ClaimNumber
	if number == "" {
		number = "draft"
	}
	return fmt.Sprintf("claim-%s.pdf", number)
}
