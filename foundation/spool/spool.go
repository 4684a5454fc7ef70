// Package spool materialises request payloads as short-lived files.
package spool

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type Spool struct {
	dir string
}

// New prepares dir for use, creating it when missing.
func New(dir string) (*Spool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("spool: %w", err)
	}
	return &Spool{dir: dir}, nil
}

func (s *Spool) Dir() string {
	return s.dir
}

// Write stores data as <dir>/<uuid><ext>. The returned cleanup removes the
// file and is safe to call more than once.
func (s *Spool) Write(data []byte, ext string) (string, func() error, error) {
	path := filepath.Join(s.dir, uuid.New().String()+ext)

	if err := os.WriteFile(path, data, 0o600); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("spool: write: %w", err)
	}

	cleanup := func() error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	return path, cleanup, nil
}

// With writes data, runs fn on the file path and always removes the file.
func (s *Spool) With(data []byte, ext string, fn func(path string) error) error {
	path, cleanup, err := s.Write(data, ext)
	if err != nil {
		return err
	}
	defer cleanup()

	return fn(path)
}
