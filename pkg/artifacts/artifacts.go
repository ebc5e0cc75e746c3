// Package artifacts stores the files a report run produces. Every run
// writes into its own directory so repeated runs never clobber each other.
package artifacts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store is where report files end up.
type Store interface {
	// Create opens a writer for a named artifact, creating parent
	// directories as needed.
	Create(name string) (io.WriteCloser, error)
	// Path returns the absolute location an artifact would be stored at.
	Path(name string) string
}

// LocalStore implements Store on the local filesystem. Each store instance
// owns one run-scoped subdirectory of the base path.
type LocalStore struct {
	runDir string
}

// NewLocalStore creates a run directory under basePath, named after the
// given run ID.
func NewLocalStore(basePath string, runID uuid.UUID) (*LocalStore, error) {
	runDir := filepath.Join(basePath, runID.String()[:8])
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &LocalStore{runDir: runDir}, nil
}

// Dir returns the run directory artifacts are written into.
func (s *LocalStore) Dir() string {
	return s.runDir
}

// Create opens a writer for a named artifact.
func (s *LocalStore) Create(name string) (io.WriteCloser, error) {
	path := s.Path(name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact %q: %w", name, err)
	}
	return f, nil
}

// Path returns the absolute location of a named artifact.
func (s *LocalStore) Path(name string) string {
	return filepath.Join(s.runDir, SanitizeFilename(name))
}

// SanitizeFilename removes unsafe characters from filenames
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	return replacer.Replace(name)
}
