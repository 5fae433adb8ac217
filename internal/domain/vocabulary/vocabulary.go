// Package vocabulary holds the list of known tag names and their translations.
package vocabulary

import (
	"strings"

	"github.com/kailas-cloud/tagquery/internal/domain/tag"
)

// Entry is one known tag.
type Entry struct {
	Name        string
	Translation string
}

// Vocabulary is an ordered, read-only tag list.
type Vocabulary struct {
	entries []Entry
	index   map[string]int
}

// New creates a vocabulary. Names are normalized; the first occurrence of a name wins.
func New(entries []Entry) *Vocabulary {
	v := &Vocabulary{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		e.Name = tag.NormalizeName(strings.TrimSpace(e.Name))
		if e.Name == "" {
			continue
		}
		if _, dup := v.index[e.Name]; dup {
			continue
		}
		v.index[e.Name] = len(v.entries)
		v.entries = append(v.entries, e)
	}
	return v
}

// Len returns the number of tags.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.entries)
}

// Contains reports whether name is a known tag.
func (v *Vocabulary) Contains(name string) bool {
	if v == nil {
		return false
	}
	_, ok := v.index[name]
	return ok
}

// Translate returns the translation of name, if any.
func (v *Vocabulary) Translate(name string) (string, bool) {
	if v == nil {
		return "", false
	}
	i, ok := v.index[name]
	if !ok || v.entries[i].Translation == "" {
		return "", false
	}
	return v.entries[i].Translation, true
}

// Filter returns the names containing keyword, in vocabulary order.
// limit <= 0 means no limit.
func (v *Vocabulary) Filter(keyword string, limit int) []string {
	if v == nil {
		return nil
	}
	out := []string{}
	for _, e := range v.entries {
		if !strings.Contains(e.Name, keyword) {
			continue
		}
		out = append(out, e.Name)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
