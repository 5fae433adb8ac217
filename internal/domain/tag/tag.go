package tag

import (
	"sort"
	"strings"
)

// Category groups tags produced by the tagging pipeline.
type Category int

// Known categories.
const (
	General   Category = 0
	Character Category = 4
	Rating    Category = 9
)

// String returns the category label.
func (c Category) String() string {
	switch c {
	case General:
		return "general"
	case Character:
		return "character"
	case Rating:
		return "rating"
	default:
		return "other"
	}
}

// NormalizeName lowercases a tag name and replaces every space with an underscore.
func NormalizeName(raw string) string {
	return strings.ReplaceAll(strings.ToLower(raw), " ", "_")
}

// Profile is the sparse per-category tag -> score mapping of one image (immutable).
// A missing category or tag means "not present", never zero.
type Profile struct {
	categories map[Category]map[string]float64
}

// Found reports whether some category contains name and, when minScore is non-zero,
// the score is at least minScore.
func (p *Profile) Found(name string, minScore float64) bool {
	if p == nil {
		return false
	}
	for _, tags := range p.categories {
		score, ok := tags[name]
		if !ok {
			continue
		}
		if minScore == 0 || score >= minScore {
			return true
		}
	}
	return false
}

// Score returns the highest score for name across categories.
func (p *Profile) Score(name string) (float64, Category, bool) {
	if p == nil {
		return 0, 0, false
	}
	var (
		best    float64
		bestCat Category
		found   bool
	)
	for cat, tags := range p.categories {
		score, ok := tags[name]
		if !ok {
			continue
		}
		if !found || score > best || (score == best && cat < bestCat) {
			best, bestCat, found = score, cat, true
		}
	}
	return best, bestCat, found
}

// Len returns the total number of (category, tag) pairs.
func (p *Profile) Len() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, tags := range p.categories {
		n += len(tags)
	}
	return n
}

// Scored is a single tag of a profile.
type Scored struct {
	Name     string
	Score    float64
	Category Category
}

// Tags lists every tag ordered by category, then descending score, then name.
func (p *Profile) Tags() []Scored {
	if p == nil {
		return nil
	}
	out := make([]Scored, 0, p.Len())
	for cat, tags := range p.categories {
		for name, score := range tags {
			out = append(out, Scored{Name: name, Score: score, Category: cat})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Name < b.Name
	})
	return out
}

// ProfileBuilder accumulates tags before freezing them into a Profile.
type ProfileBuilder struct {
	categories map[Category]map[string]float64
}

// NewProfileBuilder creates an empty builder.
func NewProfileBuilder() *ProfileBuilder {
	return &ProfileBuilder{categories: make(map[Category]map[string]float64)}
}

// Add records a tag. The name is normalized; a repeated tag keeps the last score.
func (b *ProfileBuilder) Add(cat Category, name string, score float64) *ProfileBuilder {
	tags, ok := b.categories[cat]
	if !ok {
		tags = make(map[string]float64)
		b.categories[cat] = tags
	}
	tags[NormalizeName(name)] = score
	return b
}

// Build returns the immutable profile. The builder must not be reused.
func (b *ProfileBuilder) Build() *Profile {
	p := &Profile{categories: b.categories}
	b.categories = nil
	return p
}
