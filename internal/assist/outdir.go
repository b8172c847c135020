package assist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputDir confines generated claim documents to a single configured
// directory so a tool call can never write outside it.
type OutputDir struct {
	dir string
}

// NewOutputDir creates a validator for the given directory.
func NewOutputDir(dir string) (*OutputDir, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	return &OutputDir{dir: abs}, nil
}

// Dir returns the configured directory.
func (o *OutputDir) Dir() string {
	return o.dir
}

// Resolve turns a bare filename into an absolute path inside the output
// directory, rejecting names that escape it.
func (o *OutputDir) Resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}
	if name != filepath.Base(name) {
		return "", fmt.Errorf("filename must not contain path separators: %s", name)
	}

	path := filepath.Join(o.dir, name)
	clean := filepath.Clean(path)
	if clean != path || !strings.HasPrefix(clean, o.dir+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes output directory: %s", name)
	}
	return clean, nil
}

// Write stores data under the given filename inside the output directory.
func (o *OutputDir) Write(name string, data []byte) (string, error) {
	path, err := o.Resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(o.dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	return path, nil
}
