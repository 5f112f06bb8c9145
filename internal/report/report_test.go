package report

import (
	"strings"
	"testing"
	"time"

	"github.com/anime-shed/screenshot-differ/internal/diff"
)

func result(key string, verdict diff.Verdict, rms float64) PairResult {
	return PairResult{
		Key:          key,
		Verdict:      verdict,
		RMS:          rms,
		ExplorePath:  "explore/" + key + ".png",
		ScriptPath:   "script/" + key + ".png",
		DiffPath:     "diffs/diff-" + key + ".png",
		ExploreSize:  "1280x800",
		ScriptSize:   "1280x800",
		HashDistance: 0,
	}
}

func TestSynthesize_AllMatch(t *testing.T) {
	s := Synthesize([]PairResult{
		result("01-a", diff.VerdictMatch, 1.0),
		result("02-b", diff.VerdictMatch, 2.5),
	})

	if s.Outcome != OutcomeAllClear {
		t.Errorf("Expected all clear, got %s", s.Outcome)
	}
	if s.Total != 2 || s.Matches != 2 || s.MinorDiffs != 0 || s.MajorDiffs != 0 {
		t.Errorf("Unexpected counts: %+v", s)
	}
	if s.DivergenceKey != "" {
		t.Errorf("Expected no divergence key, got %q", s.DivergenceKey)
	}
}

func TestSynthesize_MajorDominatesMinor(t *testing.T) {
	// A single major outweighs any number of minors, regardless of order
	orderings := [][]PairResult{
		{
			result("01-a", diff.VerdictMatch, 1.0),
			result("02-b", diff.VerdictMinorDiff, 25.0),
			result("03-c", diff.VerdictMajorDiff, 80.0),
		},
		{
			result("01-a", diff.VerdictMajorDiff, 80.0),
			result("02-b", diff.VerdictMatch, 1.0),
			result("03-c", diff.VerdictMinorDiff, 25.0),
		},
		{
			result("01-a", diff.VerdictMinorDiff, 25.0),
			result("02-b", diff.VerdictMinorDiff, 26.0),
			result("03-c", diff.VerdictMajorDiff, 80.0),
		},
	}

	for i, results := range orderings {
		s := Synthesize(results)
		if s.Outcome != OutcomeUpdateScripts {
			t.Errorf("Ordering %d: expected scripts need update, got %s", i, s.Outcome)
		}
	}
}

func TestSynthesize_DivergencePointIsFirstMajorInKeyOrder(t *testing.T) {
	s := Synthesize([]PairResult{
		result("01-a", diff.VerdictMatch, 1.0),
		result("02-b", diff.VerdictMajorDiff, 90.0),
		result("03-c", diff.VerdictMajorDiff, 120.0),
	})

	if s.DivergenceKey != "02-b" {
		t.Errorf("Expected divergence at 02-b, got %q", s.DivergenceKey)
	}
	if s.MajorDiffs != 2 {
		t.Errorf("Expected 2 major diffs, got %d", s.MajorDiffs)
	}
}

func TestSynthesize_MinorOnly(t *testing.T) {
	s := Synthesize([]PairResult{
		result("01-a", diff.VerdictMinorDiff, 25.0),
		result("02-b", diff.VerdictMatch, 1.0),
	})

	if s.Outcome != OutcomeReviewNeeded {
		t.Errorf("Expected review needed, got %s", s.Outcome)
	}
}

func renderReport(results []PairResult) string {
	rr := &RunReport{
		RunID:       "20260830-120000",
		GeneratedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Results:     results,
	}
	rr.Summary = Synthesize(results)
	return Render(rr)
}

func TestRender_PairSection(t *testing.T) {
	r := result("01-login", diff.VerdictMajorDiff, 255.0)
	r.SizeMismatch = true
	r.ScriptSize = "1280x600"
	text := renderReport([]PairResult{r})

	for _, want := range []string{
		"# Screenshot Diff Report",
		"Run: 20260830-120000",
		"## 01-login",
		"- verdict: MAJOR_DIFF",
		"- explore: explore/01-login.png",
		"- script: script/01-login.png",
		"- diff: diffs/diff-01-login.png",
		"- rms: 255.00 (size mismatch: explore 1280x800 vs script 1280x600)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected report to contain %q\n%s", want, text)
		}
	}
}

func TestRender_MajorRecommendation(t *testing.T) {
	text := renderReport([]PairResult{
		result("01-a", diff.VerdictMatch, 1.0),
		result("02-b", diff.VerdictMajorDiff, 90.0),
	})

	if !strings.Contains(text, "Compared 2 pairs: 1 match, 0 minor diffs, 1 major diffs.") {
		t.Errorf("Expected aggregate counts in report:\n%s", text)
	}
	if !strings.Contains(text, "scripts need update") {
		t.Errorf("Expected scripts-need-update narrative:\n%s", text)
	}
	if !strings.Contains(text, `First divergence at "02-b"`) {
		t.Errorf("Expected divergence point:\n%s", text)
	}
	if !strings.Contains(text, "- 02-b (rms 90.00)") {
		t.Errorf("Expected major diff listing:\n%s", text)
	}
}

func TestRender_MinorRecommendation(t *testing.T) {
	text := renderReport([]PairResult{
		result("01-a", diff.VerdictMinorDiff, 25.5),
	})

	if !strings.Contains(text, "review needed") {
		t.Errorf("Expected review-needed narrative:\n%s", text)
	}
	if !strings.Contains(text, "- 01-a (rms 25.50)") {
		t.Errorf("Expected minor diff listing:\n%s", text)
	}
	if strings.Contains(text, "Major diffs:") {
		t.Errorf("Did not expect a major diff section:\n%s", text)
	}
}

func TestRender_AllClearHasNoFollowUpList(t *testing.T) {
	text := renderReport([]PairResult{
		result("01-a", diff.VerdictMatch, 1.0),
		result("02-b", diff.VerdictMatch, 0.5),
	})

	if !strings.Contains(text, "all clear") {
		t.Errorf("Expected all-clear closing statement:\n%s", text)
	}
	if strings.Contains(text, "Major diffs:") || strings.Contains(text, "Minor diffs:") {
		t.Errorf("Expected no per-pair follow-up list:\n%s", text)
	}
}

func TestRender_SkippedAndUnmatched(t *testing.T) {
	rr := &RunReport{
		RunID:       "run",
		GeneratedAt: time.Now(),
		Results:     []PairResult{result("01-a", diff.VerdictMatch, 1.0)},
		Skipped:     []SkippedPair{{Key: "02-b", Reason: "decode: cannot decode image"}},
		Unmatched: []UnmatchedKey{
			{Key: "03-hone", Side: "explore", Suggestion: "03-home", Distance: 1},
			{Key: "04-d", Side: "script"},
		},
	}
	rr.Summary = Synthesize(rr.Results)
	text := Render(rr)

	if !strings.Contains(text, "- 02-b: decode: cannot decode image") {
		t.Errorf("Expected skipped entry:\n%s", text)
	}
	if !strings.Contains(text, `- 03-hone (explore only; closest on other side: "03-home", distance 1)`) {
		t.Errorf("Expected unmatched suggestion:\n%s", text)
	}
	if !strings.Contains(text, "- 04-d (script only)") {
		t.Errorf("Expected plain unmatched entry:\n%s", text)
	}
}

func TestRender_HashDistanceOmittedWhenUnavailable(t *testing.T) {
	r := result("01-a", diff.VerdictMatch, 1.0)
	r.HashDistance = -1
	text := renderReport([]PairResult{r})

	if strings.Contains(text, "phash distance") {
		t.Errorf("Expected no phash line when hashing failed:\n%s", text)
	}
}
