// Package service orchestrates a comparison run: discover pairs, diff
// each one, classify, and assemble the run report.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/screenshot-differ/internal/diff"
	apperrors "github.com/anime-shed/screenshot-differ/internal/errors"
	"github.com/anime-shed/screenshot-differ/internal/imaging"
	"github.com/anime-shed/screenshot-differ/internal/logger"
	"github.com/anime-shed/screenshot-differ/internal/matcher"
	"github.com/anime-shed/screenshot-differ/internal/report"
	"github.com/anime-shed/screenshot-differ/internal/storage"
)

// ComparisonService runs screenshot comparisons
type ComparisonService interface {
	// Run executes one comparison over the configured capture sides
	Run(ctx context.Context) (*report.RunReport, error)

	// Close releases the worker pool
	Close() error
}

// PairDiscovery produces the pairs for a run. Injectable so the
// pipeline can be tested against an in-memory listing.
type PairDiscovery func(ctx context.Context) ([]matcher.Pair, error)

// DirDiscovery discovers pairs across two capture sources by matching
// base names
func DirDiscovery(explore, script storage.CaptureSource) PairDiscovery {
	return func(ctx context.Context) ([]matcher.Pair, error) {
		exploreFiles, err := explore.List(ctx)
		if err != nil {
			return nil, err
		}
		scriptFiles, err := script.List(ctx)
		if err != nil {
			return nil, err
		}
		return matcher.Match(exploreFiles, scriptFiles), nil
	}
}

// FlatDiscovery discovers pairs in a single source using the
// explore-/script- name prefixes
func FlatDiscovery(src storage.CaptureSource) PairDiscovery {
	return func(ctx context.Context) ([]matcher.Pair, error) {
		files, err := src.List(ctx)
		if err != nil {
			return nil, err
		}
		return matcher.MatchPrefixed(files), nil
	}
}

type comparisonService struct {
	discover   PairDiscovery
	explore    storage.CaptureSource
	script     storage.CaptureSource
	newSink    storage.SinkFactory
	classifier *diff.Classifier
	pool       *diff.WorkerPool
}

// NewComparisonService wires a comparison pipeline. For the flat
// single-directory layout, pass the same source for both sides.
func NewComparisonService(
	discover PairDiscovery,
	explore storage.CaptureSource,
	script storage.CaptureSource,
	newSink storage.SinkFactory,
	classifier *diff.Classifier,
	workers int,
) ComparisonService {
	pool := diff.NewWorkerPool(workers)
	pool.Start()

	return &comparisonService{
		discover:   discover,
		explore:    explore,
		script:     script,
		newSink:    newSink,
		classifier: classifier,
		pool:       pool,
	}
}

// pairOutcome is either a result or a skip, never both
type pairOutcome struct {
	result report.PairResult
	skip   *report.SkippedPair
}

func (s *comparisonService) Run(ctx context.Context) (*report.RunReport, error) {
	pairs, err := s.discover(ctx)
	if err != nil {
		return nil, err
	}

	complete, unmatched := matcher.Split(pairs)
	if len(complete) == 0 {
		return nil, apperrors.NewConfigurationError("no screenshot pairs found", nil)
	}

	sink, err := s.newSink()
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"run_id":    sink.RunID(),
		"pairs":     len(complete),
		"unmatched": len(unmatched),
	}).Info("Starting comparison run")

	// Pairs are independent; compare them in parallel and reassemble
	// into key order by index. The WaitGroup is per run: concurrent
	// runs share only the pool's job queue.
	outcomes := make([]pairOutcome, len(complete))
	var wg sync.WaitGroup
	for i, p := range complete {
		i, p := i, p
		wg.Add(1)
		s.pool.Submit(func() {
			defer wg.Done()
			outcomes[i] = s.comparePair(ctx, sink, p)
		})
	}
	wg.Wait()

	rr := &report.RunReport{
		RunID:       sink.RunID(),
		GeneratedAt: time.Now(),
	}
	for _, o := range outcomes {
		if o.skip != nil {
			logger.WithFields(logrus.Fields{
				"key":    o.skip.Key,
				"reason": o.skip.Reason,
			}).Warn("Pair skipped")
			rr.Skipped = append(rr.Skipped, *o.skip)
			continue
		}
		logger.WithFields(logrus.Fields{
			"key":     o.result.Key,
			"rms":     o.result.RMS,
			"verdict": o.result.Verdict,
		}).Debug("Pair compared")
		rr.Results = append(rr.Results, o.result)
	}

	suggestions := matcher.Suggestions(unmatched)
	for _, p := range unmatched {
		u := report.UnmatchedKey{Key: p.Key, Side: p.Side()}
		if sug, ok := suggestions[p.Key]; ok {
			u.Suggestion = sug.Nearest
			u.Distance = sug.Distance
		}
		rr.Unmatched = append(rr.Unmatched, u)
	}

	// If every matched pair was skipped there is nothing to recommend
	// on; that is a failed run, not an empty report.
	if len(rr.Results) == 0 {
		return nil, apperrors.NewConfigurationError("no pairs could be compared", nil)
	}

	rr.Summary = report.Synthesize(rr.Results)

	path, err := sink.WriteReport(report.Render(rr))
	if err != nil {
		return nil, err
	}
	rr.ReportPath = path

	logger.WithFields(logrus.Fields{
		"run_id":  rr.RunID,
		"outcome": rr.Summary.Outcome,
		"report":  path,
	}).Info("Comparison run finished")

	return rr, nil
}

// comparePair runs the per-pair pipeline. Any failure, including a
// panic while diffing, skips this pair only: one bad screenshot must
// not block the whole report.
func (s *comparisonService) comparePair(ctx context.Context, sink storage.ArtifactSink, p matcher.Pair) (out pairOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = skipped(p.Key, fmt.Sprintf("comparison panicked: %v", r))
		}
	}()

	exploreImg, err := s.loadSide(ctx, s.explore, p.ExplorePath)
	if err != nil {
		return skipped(p.Key, fmt.Sprintf("explore side: %v", err))
	}
	scriptImg, err := s.loadSide(ctx, s.script, p.ScriptPath)
	if err != nil {
		return skipped(p.Key, fmt.Sprintf("script side: %v", err))
	}

	exploreSize := exploreImg.Size()
	scriptSize := scriptImg.Size()

	a, b, sizeMismatch := imaging.NormalizePair(exploreImg, scriptImg)
	diffImg, rms := diff.Compare(a, b)

	hashDistance, err := diff.HashDistance(a, b)
	if err != nil {
		hashDistance = -1
	}

	diffPath, err := sink.WriteDiffImage(p.Key, diffImg)
	if err != nil {
		return skipped(p.Key, fmt.Sprintf("diff image: %v", err))
	}

	return pairOutcome{result: report.PairResult{
		Key:          p.Key,
		Verdict:      s.classifier.Classify(rms),
		RMS:          rms,
		SizeMismatch: sizeMismatch,
		ExplorePath:  p.ExplorePath,
		ScriptPath:   p.ScriptPath,
		DiffPath:     diffPath,
		ExploreSize:  exploreSize,
		ScriptSize:   scriptSize,
		HashDistance: hashDistance,
	}}
}

func (s *comparisonService) loadSide(ctx context.Context, src storage.CaptureSource, path string) (*imaging.Image, error) {
	rc, err := src.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return imaging.Decode(rc)
}

func skipped(key, reason string) pairOutcome {
	return pairOutcome{skip: &report.SkippedPair{Key: key, Reason: reason}}
}

func (s *comparisonService) Close() error {
	s.pool.Close()
	return nil
}
