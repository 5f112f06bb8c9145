// Package report assembles the run report: per-pair results, the
// aggregate recommendation, and the rendered report text.
package report

import (
	"time"

	"github.com/anime-shed/screenshot-differ/internal/diff"
)

// Outcome is the overall run verdict
type Outcome string

const (
	// OutcomeAllClear means every compared pair matched
	OutcomeAllClear Outcome = "all clear"
	// OutcomeReviewNeeded means minor diffs exist but no major ones
	OutcomeReviewNeeded Outcome = "review needed"
	// OutcomeUpdateScripts means at least one pair diverged badly
	OutcomeUpdateScripts Outcome = "scripts need update"
)

// PairResult is the outcome of one compared pair
type PairResult struct {
	Key          string       `json:"key"`
	Verdict      diff.Verdict `json:"verdict"`
	RMS          float64      `json:"rms"`
	SizeMismatch bool         `json:"size_mismatch"`
	ExplorePath  string       `json:"explore_path"`
	ScriptPath   string       `json:"script_path"`
	DiffPath     string       `json:"diff_path"`
	ExploreSize  string       `json:"explore_size"`
	ScriptSize   string       `json:"script_size"`
	// HashDistance is the perceptual hash distance, informational only.
	// -1 when hashing failed.
	HashDistance int `json:"hash_distance"`
}

// SkippedPair records a pair excluded from comparison with its diagnostic
type SkippedPair struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// UnmatchedKey records a key present on only one capture side
type UnmatchedKey struct {
	Key        string `json:"key"`
	Side       string `json:"side"`
	Suggestion string `json:"suggestion,omitempty"`
	Distance   int    `json:"distance,omitempty"`
}

// Summary aggregates the per-pair verdicts
type Summary struct {
	Total         int     `json:"total"`
	Matches       int     `json:"matches"`
	MinorDiffs    int     `json:"minor_diffs"`
	MajorDiffs    int     `json:"major_diffs"`
	Outcome       Outcome `json:"outcome"`
	DivergenceKey string  `json:"divergence_key,omitempty"`
}

// RunReport is the full result of one comparison run. Built once,
// rendered once, never mutated after.
type RunReport struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Results     []PairResult   `json:"results"`
	Skipped     []SkippedPair  `json:"skipped,omitempty"`
	Unmatched   []UnmatchedKey `json:"unmatched,omitempty"`
	Summary     Summary        `json:"summary"`
	ReportPath  string         `json:"report_path,omitempty"`
}

// Synthesize derives the overall recommendation from the ordered result
// list. A single major diff dominates any number of minor ones: once the
// scripted flow has diverged, reviewing cosmetic deltas is pointless
// until the scripts are fixed.
func Synthesize(results []PairResult) Summary {
	s := Summary{Total: len(results)}

	for _, r := range results {
		switch r.Verdict {
		case diff.VerdictMatch:
			s.Matches++
		case diff.VerdictMinorDiff:
			s.MinorDiffs++
		case diff.VerdictMajorDiff:
			s.MajorDiffs++
			if s.DivergenceKey == "" {
				s.DivergenceKey = r.Key
			}
		}
	}

	switch {
	case s.MajorDiffs > 0:
		s.Outcome = OutcomeUpdateScripts
	case s.MinorDiffs > 0:
		s.Outcome = OutcomeReviewNeeded
	default:
		s.Outcome = OutcomeAllClear
	}
	return s
}
