// Package matching compares a résumé's skills with catalog postings.
//
// Two policies exist. CatalogWide never credits a low-value term as a
// match; SingleTarget uses plain case-insensitive membership.
package matching

import (
	"github.com/okian/cvmatch/internal/domain/model"
	"github.com/okian/cvmatch/internal/domain/scoring"
	"github.com/okian/cvmatch/internal/domain/skills"
)

// Policy names a matching policy.
type Policy string

// Matching policies.
const (
	CatalogWide  Policy = "catalog_wide"
	SingleTarget Policy = "single_target"
)

// Matcher scores a skill set against one posting.
type Matcher interface {
	Policy() Policy
	Score(user *skills.Set, posting model.JobPosting) model.MatchResult
}

// Option applies a configuration option to a PolicyMatcher.
type Option func(*PolicyMatcher)

// WithScorer sets the similarity scorer.
func WithScorer(s scoring.Scorer) Option {
	return func(m *PolicyMatcher) {
		if s != nil {
			m.scorer = s
		}
	}
}

// PolicyMatcher implements Matcher for one policy.
type PolicyMatcher struct {
	policy          Policy
	excludeLowValue bool
	scorer          scoring.Scorer
}

// NewCatalogWide returns the matcher used for catalog-wide reports.
func NewCatalogWide(opts ...Option) *PolicyMatcher {
	return newPolicyMatcher(CatalogWide, true, opts)
}

// NewSingleTarget returns the matcher used for single-target reports.
func NewSingleTarget(opts ...Option) *PolicyMatcher {
	return newPolicyMatcher(SingleTarget, false, opts)
}

func newPolicyMatcher(p Policy, excludeLowValue bool, opts []Option) *PolicyMatcher {
	m := &PolicyMatcher{
		policy:          p,
		excludeLowValue: excludeLowValue,
		scorer:          scoring.NewCosineScorer(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Policy returns the matcher's policy.
func (m *PolicyMatcher) Policy() Policy { return m.policy }

// Score compares user with the posting's required skills. Matched and
// missing keep the posting's order and spelling.
func (m *PolicyMatcher) Score(user *skills.Set, posting model.JobPosting) model.MatchResult {
	matched := make([]string, 0, len(posting.RequiredSkills))
	missing := make([]string, 0, len(posting.RequiredSkills))
	for _, s := range posting.RequiredSkills {
		switch {
		case !user.Contains(s):
			missing = append(missing, s)
		case m.excludeLowValue && skills.IsLowValue(s):
			// present but never credited
		default:
			matched = append(matched, s)
		}
	}

	matchedPct, missingPct := scoring.Split(len(matched), len(missing))
	return model.MatchResult{
		Posting:           posting,
		Similarity:        m.scorer.Similarity(user.Values(), posting.RequiredSkills),
		Matched:           matched,
		Missing:           missing,
		MatchedPercentage: matchedPct,
		MissingPercentage: missingPct,
	}
}
