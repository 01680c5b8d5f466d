package matching

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/cvmatch/internal/domain/catalog"
	"github.com/okian/cvmatch/internal/domain/model"
	"github.com/okian/cvmatch/internal/domain/skills"
)

// Sentinel errors for single-target scoring.
var (
	ErrInvalidQuery    = errors.New("job title, governorate and level must not be empty")
	ErrPostingNotFound = errors.New("no matching job found")
)

// Lookup reports which posting a single-target query resolved to.
type Lookup struct {
	Posting  model.JobPosting
	Fallback bool // matched on title only
}

// Engine runs both policies over a catalog. It holds no mutable state.
type Engine struct {
	wide   Matcher
	target Matcher
}

// NewEngine creates an engine whose matchers share opts.
func NewEngine(opts ...Option) *Engine {
	return &Engine{
		wide:   NewCatalogWide(opts...),
		target: NewSingleTarget(opts...),
	}
}

// ScoreAll scores user against every posting in catalog order. A result
// whose matched and missing sets equal those of an earlier result is
// dropped.
func (e *Engine) ScoreAll(user *skills.Set, c *catalog.Catalog) []model.MatchResult {
	results := make([]model.MatchResult, 0, c.Len())
	seen := make(map[string]struct{}, c.Len())
	for p := range c.All() {
		r := e.wide.Score(user, p)
		key := dedupeKey(r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		results = append(results, r)
	}
	return results
}

// ScoreOne finds the posting named by title, region and level and scores
// user against it. When no posting matches all three fields the first
// posting with the same title is used.
func (e *Engine) ScoreOne(user *skills.Set, c *catalog.Catalog, title, region, level string) (model.MatchResult, Lookup, error) {
	lookup, err := Find(c, title, region, level)
	if err != nil {
		return model.MatchResult{}, Lookup{}, err
	}
	return e.target.Score(user, lookup.Posting), lookup, nil
}

// Find resolves a single-target query. Fields compare after Normalize.
func Find(c *catalog.Catalog, title, region, level string) (Lookup, error) {
	title, region, level = skills.Normalize(title), skills.Normalize(region), skills.Normalize(level)
	if title == "" || region == "" || level == "" {
		return Lookup{}, ErrInvalidQuery
	}

	var (
		byTitle model.JobPosting
		found   bool
	)
	for p := range c.All() {
		if skills.Normalize(p.Title) != title {
			continue
		}
		if skills.Normalize(p.Region) == region && skills.Normalize(p.SeniorityLevel) == level {
			return Lookup{Posting: p}, nil
		}
		if !found {
			byTitle, found = p, true
		}
	}
	if !found {
		return Lookup{}, fmt.Errorf("%w for title %q", ErrPostingNotFound, title)
	}
	return Lookup{Posting: byTitle, Fallback: true}, nil
}

func dedupeKey(r model.MatchResult) string {
	return setKey(r.Matched) + "\x00" + setKey(r.Missing)
}

func setKey(list []string) string {
	keys := skills.NewSet(list...).Keys()
	slices.Sort(keys)
	return strings.Join(keys, "\x1f")
}
