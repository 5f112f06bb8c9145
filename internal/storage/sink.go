package storage

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/anime-shed/screenshot-differ/internal/errors"
	"github.com/anime-shed/screenshot-differ/internal/imaging"
)

// ArtifactSink receives the diff images and report text of one run.
// Writes to distinct keys are independent, so parallel pair jobs may
// write concurrently.
type ArtifactSink interface {
	// RunID identifies this run in the report
	RunID() string

	// WriteDiffImage stores the diff image for a pair and returns its path
	WriteDiffImage(key string, img *imaging.Image) (string, error)

	// WriteReport stores the rendered report text and returns its path
	WriteReport(text string) (string, error)
}

// SinkFactory creates a fresh sink per run, so every invocation gets
// its own timestamped artifact directory.
type SinkFactory func() (ArtifactSink, error)

// LocalSink writes run artifacts to a timestamped directory on disk
type LocalSink struct {
	dir   string
	runID string
}

// NewLocalSink creates the run output directory under root
func NewLocalSink(root string, now time.Time) (*LocalSink, error) {
	runID := now.Format("20060102-150405")
	dir := filepath.Join(root, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("cannot create output directory %s", dir), err)
	}
	return &LocalSink{dir: dir, runID: runID}, nil
}

// NewLocalSinkFactory returns a factory producing timestamped sinks
// under root
func NewLocalSinkFactory(root string) SinkFactory {
	return func() (ArtifactSink, error) {
		return NewLocalSink(root, time.Now())
	}
}

// RunID returns the timestamp identifying this run
func (s *LocalSink) RunID() string {
	return s.runID
}

// WriteDiffImage encodes the diff image as PNG, named by the pair key
func (s *LocalSink) WriteDiffImage(key string, img *imaging.Image) (string, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("diff-%s.png", key))
	f, err := os.Create(path)
	if err != nil {
		return "", apperrors.NewProcessingError(fmt.Sprintf("cannot create %s", path), err)
	}
	defer f.Close()

	if err := png.Encode(f, img.ToNRGBA()); err != nil {
		return "", apperrors.NewProcessingError(fmt.Sprintf("cannot encode %s", path), err)
	}
	return path, nil
}

// WriteReport writes the report text next to the diff images
func (s *LocalSink) WriteReport(text string) (string, error) {
	path := filepath.Join(s.dir, "report.md")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", apperrors.NewInternalError(fmt.Sprintf("cannot write %s", path), err)
	}
	return path, nil
}
