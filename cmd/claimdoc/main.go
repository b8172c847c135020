// claimdoc renders a claim record stored as JSON into the compliance PDF.
// Useful for inspecting document output without running the full service.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claimdesk/claimdesk/internal/claim"
	"github.com/claimdesk/claimdesk/internal/render"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <claim.json> [output.pdf]\n", os.Args[0])
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read claim file: %v\n", err)
		os.Exit(1)
	}

	var rec claim.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse claim file: %v\n", err)
		os.Exit(1)
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize renderer: %v\n", err)
		os.Exit(1)
	}

	pdfBytes, err := renderer.Render(&rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render claim document: %v\n", err)
		os.Exit(1)
	}

	out := render.Filename(&rec)
	if len(os.Args) == 3 {
		out = os.Args[2]
	}
	if err := os.WriteFile(out, pdfBytes, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", out, err)
		os.Exit(1)
	}

	info, err := render.Inspect(pdfBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generated document is unreadable: %v\n", err)
		os.Exit(1)
	}

	abs, _ := filepath.Abs(out)
	fmt.Printf("Wrote %s (%d pages, %d bytes)\n", abs, info.Pages, info.Size)
}
