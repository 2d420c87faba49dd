package match

import (
	"strings"

	"github.com/xrash/smetrics"
)

// SimilarityScorer scores how close two already-normalized labels are on a
// 0-100 scale. Implementations must be symmetric enough that a near miss
// always scores above a far miss; the exact metric is interchangeable.
type SimilarityScorer interface {
	Score(a, b string) int
}

// LevenshteinScorer scales edit distance over the longer input to 0-100.
type LevenshteinScorer struct{}

func NewLevenshteinScorer() *LevenshteinScorer {
	return &LevenshteinScorer{}
}

func (s *LevenshteinScorer) Score(a, b string) int {
	if a == b {
		return 100
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 100
	}

	distance := smetrics.WagnerFischer(a, b, 1, 1, 1)
	if distance >= longest {
		return 0
	}

	return (longest - distance) * 100 / longest
}

// SubstringScorer is the degraded-mode metric: normalized containment in
// either direction scores 100, anything else scores 0.
type SubstringScorer struct{}

func NewSubstringScorer() *SubstringScorer {
	return &SubstringScorer{}
}

func (s *SubstringScorer) Score(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 100
	}
	return 0
}
