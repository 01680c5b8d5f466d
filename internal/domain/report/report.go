// Package report ranks match results and assembles the response shapes.
package report

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/okian/cvmatch/internal/domain/matching"
	"github.com/okian/cvmatch/internal/domain/model"
	"github.com/okian/cvmatch/internal/domain/scoring"
	"github.com/okian/cvmatch/internal/domain/skills"
)

// Report defaults.
const (
	DefaultTopN           = 3
	DefaultMaxSuggestions = 5
	percentDecimals       = 2
)

// Query is the single-target request as the caller typed it.
type Query struct {
	Title  string
	Region string
	Level  string
}

// Empty returns a report with no skills, matches or chart data.
func Empty() model.MatchReport {
	return model.MatchReport{
		CVSkills:   []string{},
		TopMatches: []model.MatchResult{},
		BarChart:   model.BarChart{JobTitles: []string{}, Similarities: []float64{}},
	}
}

// Build ranks results by similarity, highest first, and keeps the top n.
// Ties keep their input order. A user without skills gets Empty().
func Build(user *skills.Set, results []model.MatchResult, topN int) model.MatchReport {
	if user.Len() == 0 {
		return Empty()
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	ranked := slices.Clone(results)
	slices.SortStableFunc(ranked, func(a, b model.MatchResult) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})
	ranked = ranked[:min(topN, len(ranked))]

	rep := Empty()
	rep.CVSkills = user.Values()
	rep.TopMatches = ranked
	for _, r := range ranked {
		rep.BarChart.JobTitles = append(rep.BarChart.JobTitles, r.Posting.Title)
		rep.BarChart.Similarities = append(rep.BarChart.Similarities, r.Similarity)
	}
	return rep
}

// BuildTarget assembles the single-target report for result.
func BuildTarget(user *skills.Set, result model.MatchResult, q Query, lookup matching.Lookup, maxSuggestions int) model.TargetReport {
	if maxSuggestions <= 0 {
		maxSuggestions = DefaultMaxSuggestions
	}

	matched, missing := len(result.Matched), len(result.Missing)
	total := matched + missing
	percent := scoring.Percent(matched, total, percentDecimals)
	suggestions := append([]string{}, result.Missing[:min(maxSuggestions, missing)]...)

	title := cases.Title(language.Und)
	summary := fmt.Sprintf("You match %d out of %d required skills (%.1f%%) for the job '%s' in %s (%s level).",
		matched, total, percent,
		title.String(skills.Normalize(q.Title)),
		title.String(skills.Normalize(q.Region)),
		skills.Normalize(q.Level),
	)

	return model.TargetReport{
		Summary:               summary,
		CVSkillsFound:         user.Values(),
		Matched:               model.SkillCount{Count: matched, Skills: nonNil(result.Matched)},
		Missing:               model.SkillCount{Count: missing, Skills: nonNil(result.Missing)},
		TopMissingSuggestions: suggestions,
		Recommendation:        recommendation(suggestions),
		Percent:               percent,
		Job:                   lookup.Posting,
		Fallback:              lookup.Fallback,
	}
}

func recommendation(suggestions []string) string {
	if len(suggestions) == 0 {
		return "You already have every skill this job requires. Make sure they are easy to spot in your CV."
	}
	return "To improve your chances, consider learning or highlighting these skills in your CV: " +
		strings.Join(suggestions, ", ") + "."
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
