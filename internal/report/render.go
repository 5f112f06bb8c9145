package report

import (
	"fmt"
	"strings"

	"github.com/anime-shed/screenshot-differ/internal/diff"
)

// Render produces the markdown report text for a run. Pure string
// assembly: writing the result to disk is the artifact sink's job, so
// tests can assert on content directly.
func Render(r *RunReport) string {
	var b strings.Builder

	b.WriteString("# Screenshot Diff Report\n\n")
	fmt.Fprintf(&b, "Run: %s\n", r.RunID)
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	for _, res := range r.Results {
		fmt.Fprintf(&b, "## %s\n\n", res.Key)
		fmt.Fprintf(&b, "- verdict: %s\n", res.Verdict)
		fmt.Fprintf(&b, "- explore: %s\n", res.ExplorePath)
		fmt.Fprintf(&b, "- script: %s\n", res.ScriptPath)
		fmt.Fprintf(&b, "- diff: %s\n", res.DiffPath)
		line := fmt.Sprintf("- rms: %.2f", res.RMS)
		if res.SizeMismatch {
			line += fmt.Sprintf(" (size mismatch: explore %s vs script %s)", res.ExploreSize, res.ScriptSize)
		}
		b.WriteString(line + "\n")
		if res.HashDistance >= 0 {
			fmt.Fprintf(&b, "- phash distance: %d\n", res.HashDistance)
		}
		b.WriteString("\n")
	}

	if len(r.Skipped) > 0 {
		b.WriteString("## Skipped\n\n")
		for _, s := range r.Skipped {
			fmt.Fprintf(&b, "- %s: %s\n", s.Key, s.Reason)
		}
		b.WriteString("\n")
	}

	if len(r.Unmatched) > 0 {
		b.WriteString("## Unmatched\n\n")
		for _, u := range r.Unmatched {
			line := fmt.Sprintf("- %s (%s only", u.Key, u.Side)
			if u.Suggestion != "" {
				line += fmt.Sprintf("; closest on other side: %q, distance %d", u.Suggestion, u.Distance)
			}
			b.WriteString(line + ")\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Recommendation\n\n")
	s := r.Summary
	fmt.Fprintf(&b, "Compared %d pairs: %d match, %d minor diffs, %d major diffs.\n\n",
		s.Total, s.Matches, s.MinorDiffs, s.MajorDiffs)

	switch s.Outcome {
	case OutcomeUpdateScripts:
		fmt.Fprintf(&b, "The scripted flow has diverged from the exploratory capture: scripts need update. First divergence at %q.\n\n", s.DivergenceKey)
		b.WriteString("Major diffs:\n")
		for _, res := range r.Results {
			if res.Verdict == diff.VerdictMajorDiff {
				fmt.Fprintf(&b, "- %s (rms %.2f)\n", res.Key, res.RMS)
			}
		}
	case OutcomeReviewNeeded:
		b.WriteString("Minor differences found: review needed. Each is above rendering noise but below the divergence threshold; judge whether it is cosmetic or functional.\n\n")
		b.WriteString("Minor diffs:\n")
		for _, res := range r.Results {
			if res.Verdict == diff.VerdictMinorDiff {
				fmt.Fprintf(&b, "- %s (rms %.2f)\n", res.Key, res.RMS)
			}
		}
	default:
		b.WriteString("All compared pairs match within rendering noise: all clear.\n")
	}

	return b.String()
}
