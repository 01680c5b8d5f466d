// Package catalog holds the immutable job catalog and loads it from CSV or
// XLSX sources.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/cvmatch/internal/domain/model"
	"github.com/okian/cvmatch/internal/domain/skills"
)

// Catalog is an ordered, read-only collection of job postings together
// with the vocabulary of every distinct skill they require.
// It is safe for concurrent use.
type Catalog struct {
	postings    []model.JobPosting
	vocabulary  []string
	fingerprint string
}

// New builds a catalog from postings in the given order. Each posting gets
// its catalog index and a de-duplicated skill list. Inputs are copied.
func New(postings ...model.JobPosting) *Catalog {
	c := &Catalog{postings: make([]model.JobPosting, len(postings))}
	vocab := skills.NewSet()

	h := sha256.New()
	for i, p := range postings {
		required := skills.NewSet(p.RequiredSkills...)
		p.Index = i
		p.RequiredSkills = required.Values()
		c.postings[i] = p

		for _, s := range p.RequiredSkills {
			vocab.Add(s)
		}

		h.Write([]byte(strconv.Itoa(i)))
		for _, field := range []string{p.Title, p.Region, p.SeniorityLevel, strings.Join(p.RequiredSkills, "\x1f")} {
			h.Write([]byte{0x1e})
			h.Write([]byte(field))
		}
		h.Write([]byte{'\n'})
	}

	c.vocabulary = vocab.Values()
	c.fingerprint = hex.EncodeToString(h.Sum(nil))
	return c
}

// Len returns the number of postings.
func (c *Catalog) Len() int { return len(c.postings) }

// Posting returns the posting at index i.
func (c *Catalog) Posting(i int) (model.JobPosting, bool) {
	if i < 0 || i >= len(c.postings) {
		return model.JobPosting{}, false
	}
	return clone(c.postings[i]), true
}

// Postings returns a copy of every posting in catalog order.
func (c *Catalog) Postings() []model.JobPosting {
	out := make([]model.JobPosting, len(c.postings))
	for i, p := range c.postings {
		out[i] = clone(p)
	}
	return out
}

// All iterates the postings in catalog order.
func (c *Catalog) All() iter.Seq[model.JobPosting] {
	return func(yield func(model.JobPosting) bool) {
		for _, p := range c.postings {
			if !yield(clone(p)) {
				return
			}
		}
	}
}

// Vocabulary returns every distinct skill in first-seen order.
func (c *Catalog) Vocabulary() []string {
	return slices.Clone(c.vocabulary)
}

// Fingerprint identifies the catalog contents. Two catalogs with the same
// postings in the same order share a fingerprint.
func (c *Catalog) Fingerprint() string { return c.fingerprint }

func clone(p model.JobPosting) model.JobPosting {
	p.RequiredSkills = slices.Clone(p.RequiredSkills)
	return p
}
