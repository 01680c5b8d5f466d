// Package scoring computes similarity scores and percentages between skill
// lists.
package scoring

import (
	"math"
	"regexp"

	"github.com/okian/cvmatch/internal/domain/skills"
)

// Default scoring configuration constants.
const (
	defaultPrecision = 1
	maxScoreValue    = 100
)

// tokenPattern matches runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`) //nolint:gochecknoglobals // compiled once

// Scorer computes a similarity between two skill lists in [0, 100].
type Scorer interface {
	Similarity(a, b []string) float64
}

// Option applies a configuration option to the CosineScorer.
type Option func(*CosineScorer)

// WithPrecision sets the number of decimals kept in scores.
func WithPrecision(decimals int) Option {
	return func(s *CosineScorer) {
		if decimals >= 0 {
			s.precision = decimals
		}
	}
}

// CosineScorer implements Scorer as the cosine of the bag-of-words vectors
// of both lists. The vector space is built from the pair alone.
// It holds no mutable state and is safe for concurrent use.
type CosineScorer struct {
	precision int
}

// NewCosineScorer creates a cosine scorer with configuration options.
func NewCosineScorer(opts ...Option) *CosineScorer {
	s := &CosineScorer{precision: defaultPrecision}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Similarity returns the cosine similarity of a and b scaled to 0..100.
// It is 0 when either side has no tokens.
func (s *CosineScorer) Similarity(a, b []string) float64 {
	va, vb := termCounts(a), termCounts(b)
	if len(va) == 0 || len(vb) == 0 {
		return 0
	}

	var dot, na, nb float64
	for term, ca := range va {
		na += ca * ca
		dot += ca * vb[term]
	}
	for _, cb := range vb {
		nb += cb * cb
	}

	score := dot / (math.Sqrt(na) * math.Sqrt(nb)) * maxScoreValue
	return Round(math.Max(0, math.Min(maxScoreValue, score)), s.precision)
}

func termCounts(list []string) map[string]float64 {
	counts := make(map[string]float64)
	for _, item := range list {
		for _, tok := range tokenPattern.FindAllString(skills.Normalize(item), -1) {
			counts[tok]++
		}
	}
	return counts
}

// Round rounds x half away from zero to the given number of decimals.
func Round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}

// Percent returns part/total*100 rounded to decimals, or 0 when total is 0.
func Percent(part, total, decimals int) float64 {
	if total <= 0 {
		return 0
	}
	return Round(float64(part)/float64(total)*maxScoreValue, decimals)
}

// Split returns the matched and missing shares of matched+missing, one
// decimal each. The two always sum to 100, or are both 0.
func Split(matched, missing int) (matchedPct, missingPct float64) {
	total := matched + missing
	if total == 0 {
		return 0, 0
	}
	matchedPct = Percent(matched, total, 1)
	return matchedPct, Round(maxScoreValue-matchedPct, 1)
}
