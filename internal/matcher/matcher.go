// Package matcher discovers screenshot pairs across the explore and
// script capture sides.
package matcher

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/arbovm/levenshtein"
)

// Pair groups the two capture-side paths sharing one key. Either path
// may be empty; only complete pairs are comparable.
type Pair struct {
	Key         string
	ExplorePath string
	ScriptPath  string
}

// Complete reports whether both capture sides are present
func (p Pair) Complete() bool {
	return p.ExplorePath != "" && p.ScriptPath != ""
}

// Side names the capture side an incomplete pair was found on
func (p Pair) Side() string {
	if p.ExplorePath != "" {
		return "explore"
	}
	return "script"
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// keyFor derives the pair key from a file path: the base name minus the
// image extension. Non-image files yield no key.
func keyFor(p string) (string, bool) {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	if !imageExtensions[ext] {
		return "", false
	}
	return base[:len(base)-len(ext)], true
}

// Match builds pairs from two directory listings. Matching is exact on
// the base name minus extension; keys come back in lexicographic order.
func Match(explore, script []string) []Pair {
	byKey := make(map[string]*Pair)

	for _, p := range explore {
		if key, ok := keyFor(p); ok {
			pairFor(byKey, key).ExplorePath = p
		}
	}
	for _, p := range script {
		if key, ok := keyFor(p); ok {
			pairFor(byKey, key).ScriptPath = p
		}
	}

	return sorted(byKey)
}

// prefixedPattern matches the flat single-directory layout the capture
// tooling writes: explore-<key>.png next to script-<key>.png.
var prefixedPattern = regexp.MustCompile(`^(explore|script)-(.+)\.(?i:png|jpe?g)$`)

// MatchPrefixed builds pairs from a single listing of side-prefixed
// file names.
func MatchPrefixed(files []string) []Pair {
	byKey := make(map[string]*Pair)

	for _, p := range files {
		base := path.Base(strings.ReplaceAll(p, "\\", "/"))
		m := prefixedPattern.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		pair := pairFor(byKey, m[2])
		if m[1] == "explore" {
			pair.ExplorePath = p
		} else {
			pair.ScriptPath = p
		}
	}

	return sorted(byKey)
}

func pairFor(byKey map[string]*Pair, key string) *Pair {
	if p, ok := byKey[key]; ok {
		return p
	}
	p := &Pair{Key: key}
	byKey[key] = p
	return p
}

func sorted(byKey map[string]*Pair) []Pair {
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, *byKey[k])
	}
	return pairs
}

// Split separates complete pairs from unmatched ones, preserving order
func Split(pairs []Pair) (complete, unmatched []Pair) {
	for _, p := range pairs {
		if p.Complete() {
			complete = append(complete, p)
		} else {
			unmatched = append(unmatched, p)
		}
	}
	return complete, unmatched
}

// Suggestion proposes the closest key on the opposite capture side for
// an unmatched key. A reporting aid for typo'd step labels; matching
// itself stays exact.
type Suggestion struct {
	Nearest  string
	Distance int
}

// Suggestions computes, for each unmatched key, the nearest key among
// those unmatched on the opposite side. Keys with no candidate on the
// other side get no suggestion.
func Suggestions(unmatched []Pair) map[string]Suggestion {
	var exploreOnly, scriptOnly []string
	for _, p := range unmatched {
		if p.ExplorePath != "" {
			exploreOnly = append(exploreOnly, p.Key)
		} else {
			scriptOnly = append(scriptOnly, p.Key)
		}
	}

	out := make(map[string]Suggestion)
	for _, key := range exploreOnly {
		if nearest, dist, ok := nearestKey(key, scriptOnly); ok {
			out[key] = Suggestion{Nearest: nearest, Distance: dist}
		}
	}
	for _, key := range scriptOnly {
		if nearest, dist, ok := nearestKey(key, exploreOnly); ok {
			out[key] = Suggestion{Nearest: nearest, Distance: dist}
		}
	}
	return out
}

func nearestKey(key string, candidates []string) (string, int, bool) {
	best := ""
	bestDist := 0
	for _, c := range candidates {
		d := levenshtein.Distance(key, c)
		if best == "" || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist, best != ""
}
