package render

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// DocumentInfo describes a generated claim document.
type DocumentInfo struct {
	Pages int   `json:"pages"`
	Size  int64 `json:"size"`
}

// Inspect parses a generated PDF and reports its page count and size. Used by
// the assist surface and by the render tests to verify document structure
// without writing files to disk.
func Inspect(data []byte) (*DocumentInfo, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated document: %w", err)
	}
	return &DocumentInfo{
		Pages: reader.NumPage(),
		Size:  int64(len(data)),
	}, nil
}
