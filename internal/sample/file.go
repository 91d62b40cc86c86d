// Package sample serves the read-only example document shipped with the service.
package sample

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ErlanBelekov/sections-api/internal/domain"
)

// FileSource reads one fixed JSON file on every call, so edits on disk are
// picked up without a restart.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load returns domain.ErrSampleNotFound when the file does not exist.
func (s *FileSource) Load(_ context.Context) (json.RawMessage, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrSampleNotFound
		}
		return nil, fmt.Errorf("read sample %s: %w", s.path, err)
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("sample %s is not valid JSON", s.path)
	}
	return json.RawMessage(b), nil
}
