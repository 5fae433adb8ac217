// Package corpus holds the read-only, index-ordered collection of image tag profiles.
package corpus

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/kailas-cloud/tagquery/internal/domain/tag"
)

// Entry is one image of the corpus. A nil Profile means the tags are unknown.
type Entry struct {
	ID      string
	Source  string
	Profile *tag.Profile
}

// Corpus is built once and never mutated; it is safe for concurrent readers.
type Corpus struct {
	entries     []Entry
	byID        map[string]int
	titles      map[string]string
	fingerprint uint64
	profiles    int
}

// New creates a corpus from entries (kept in order) and a source -> title map.
// For duplicate identifiers Lookup returns the first entry.
func New(entries []Entry, titles map[string]string) *Corpus {
	c := &Corpus{
		entries: append([]Entry(nil), entries...),
		byID:    make(map[string]int, len(entries)),
		titles:  make(map[string]string, len(titles)),
	}
	for k, v := range titles {
		c.titles[k] = v
	}

	d := xxhash.New()
	for i, e := range c.entries {
		if _, dup := c.byID[e.ID]; !dup {
			c.byID[e.ID] = i
		}
		_, _ = d.WriteString(e.ID)
		_, _ = d.Write([]byte{0})
		if e.Profile == nil {
			continue
		}
		c.profiles++
		for _, t := range e.Profile.Tags() {
			_, _ = d.WriteString(t.Name)
			_, _ = d.WriteString(strconv.Itoa(int(t.Category)))
			_, _ = d.WriteString(strconv.FormatFloat(t.Score, 'g', -1, 64))
		}
		_, _ = d.Write([]byte{1})
	}
	c.fingerprint = d.Sum64()
	return c
}

// Len returns the number of entries.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// ProfileCount returns the number of entries with a known profile.
func (c *Corpus) ProfileCount() int {
	if c == nil {
		return 0
	}
	return c.profiles
}

// At returns the i-th entry.
func (c *Corpus) At(i int) Entry { return c.entries[i] }

// Lookup finds an entry by identifier.
func (c *Corpus) Lookup(id string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Title returns the title of a source, if known.
func (c *Corpus) Title(source string) (string, bool) {
	if c == nil {
		return "", false
	}
	t, ok := c.titles[source]
	return t, ok
}

// Fingerprint identifies the corpus content; two corpora with equal entries share it.
func (c *Corpus) Fingerprint() uint64 {
	if c == nil {
		return 0
	}
	return c.fingerprint
}
