package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/antzucaro/matchr"

	"recipe-finder/internal/recipe/model"
)

// metricFunc returns a similarity in [0..1] for two non-empty, non-equal strings.
type metricFunc func(a, b string) float64

// Matcher scores ingredient strings against each other.
type Matcher struct {
	norm   *Normalizer
	metric metricFunc
	opt    model.MatcherOptions
}

func NewMatcher(opt model.MatcherOptions) (*Matcher, error) {
	var fn metricFunc
	switch strings.ToLower(strings.TrimSpace(opt.Metric)) {
	case "", model.MetricDamerau:
		fn = damerauSimilarity
	case model.MetricLevenshtein:
		fn = levenshteinSimilarity
	case model.MetricJaroWinkler:
		fn = jaroWinklerSimilarity
	default:
		return nil, fmt.Errorf("unknown similarity metric %q", opt.Metric)
	}
	return &Matcher{norm: NewNormalizer(opt), metric: fn, opt: opt}, nil
}

func (m *Matcher) Normalizer() *Normalizer { return m.norm }

func (m *Matcher) Options() model.MatcherOptions { return m.opt }

// Similarity normalizes both sides and returns 0..100; 100 only for equal
// normalized strings.
func (m *Matcher) Similarity(a, b string) int {
	return m.score(m.norm.Normalize(a), m.norm.Normalize(b))
}

// Matches reports Similarity(a, b) >= threshold, threshold clamped to [0,100].
func (m *Matcher) Matches(a, b string, threshold float64) bool {
	return m.matchNormalized(m.norm.Normalize(a), m.norm.Normalize(b), ClampThreshold(threshold))
}

// matchNormalized expects normalized input and an already clamped threshold.
func (m *Matcher) matchNormalized(a, b string, threshold float64) bool {
	if float64(m.score(a, b)) >= threshold {
		return true
	}
	if m.opt.Containment && a != "" && b != "" {
		return containsTokens(a, b) || containsTokens(b, a)
	}
	return false
}

func (m *Matcher) score(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	s := m.metric(a, b)
	if m.opt.TokenSort {
		sa, sb := tokenSort(a), tokenSort(b)
		if sa == sb {
			s = 1
		} else if y := m.metric(sa, sb); y > s {
			s = y
		}
	}
	// 100 is reserved for an exact match
	return min(toPercent(s), 99)
}

// ClampThreshold pins t to [0,100]; NaN falls back to the default.
func ClampThreshold(t float64) float64 {
	switch {
	case math.IsNaN(t):
		return model.DefaultThreshold
	case t < 0:
		return 0
	case t > 100:
		return 100
	}
	return t
}

// ===== metrics =====

func damerauSimilarity(a, b string) float64 {
	return 1 - float64(damerauLevenshtein(a, b))/float64(maxRuneLen(a, b))
}

func levenshteinSimilarity(a, b string) float64 {
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxRuneLen(a, b))
}

// Jaro-Winkler is evaluated both ways so the score stays symmetric.
func jaroWinklerSimilarity(a, b string) float64 {
	return max(matchr.JaroWinkler(a, b, false), matchr.JaroWinkler(b, a, false))
}

func maxRuneLen(a, b string) int {
	return max(len([]rune(a)), len([]rune(b)), 1)
}

func toPercent(s float64) int {
	p := int(math.Round(s * 100))
	return max(0, min(p, 100))
}

// containsTokens reports whether needle occurs in hay as a contiguous run of
// whole tokens: "olive" in "olive oil", never "oil" in "boil".
func containsTokens(hay, needle string) bool {
	h := strings.Fields(hay)
	n := strings.Fields(needle)
	if len(n) == 0 || len(n) > len(h) {
		return false
	}
	for i := 0; i+len(n) <= len(h); i++ {
		ok := true
		for k := range n {
			if h[i+k] != n[k] {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
