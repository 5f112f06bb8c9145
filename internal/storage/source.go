// Package storage provides capture sources for screenshot inputs, run
// directory resolution, and the artifact sink for diff images and the
// report.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	apperrors "github.com/anime-shed/screenshot-differ/internal/errors"
)

// CaptureSource lists and opens the screenshots of one capture side
type CaptureSource interface {
	// List returns the paths of all files on this side
	List(ctx context.Context) ([]string, error)

	// Open returns the image data for one listed path
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// LocalSource reads captures from a filesystem directory
type LocalSource struct {
	dir string
}

// NewLocalSource creates a source over an existing directory
func NewLocalSource(dir string) (*LocalSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("capture directory %s not found", dir), err)
	}
	if !info.IsDir() {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("%s is not a directory", dir), nil)
	}
	return &LocalSource{dir: dir}, nil
}

// List returns the full paths of all regular files in the directory
func (s *LocalSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("cannot list %s", s.dir), err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, e.Name()))
	}
	return paths, nil
}

// Open opens a listed file for reading
func (s *LocalSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDecodeError(fmt.Sprintf("cannot open %s", path), err)
	}
	return f, nil
}
