package vocabulary

import (
	"strings"

	"github.com/kailas-cloud/tagquery/internal/domain"
	"github.com/kailas-cloud/tagquery/internal/domain/query"
	"github.com/kailas-cloud/tagquery/internal/domain/tag"
)

// Service answers autocomplete and validation requests against the vocabulary.
type Service struct {
	vocab Vocabulary
}

// New creates a vocabulary service.
func New(vocab Vocabulary) *Service {
	return &Service{vocab: vocab}
}

// Filter returns known tags containing keyword. The keyword is normalized like a tag name.
func (s *Service) Filter(keyword string, limit int) []string {
	return s.vocab.Filter(tag.NormalizeName(strings.TrimSpace(keyword)), limit)
}

// Validate checks that every tag referenced by the raw query is known.
// Unknown names are reported once each, in query order.
func (s *Service) Validate(raw string) error {
	q := query.Parse(raw)
	if q.IsEmpty() {
		return domain.ErrEmptyQuery
	}

	var unknown []string
	seen := make(map[string]struct{})
	for _, c := range q.Conditions() {
		if s.vocab.Contains(c.Name) {
			continue
		}
		if _, ok := seen[c.Name]; ok {
			continue
		}
		seen[c.Name] = struct{}{}
		unknown = append(unknown, c.Name)
	}
	if len(unknown) > 0 {
		return domain.NewUnknownTags(unknown)
	}
	return nil
}

// Translate returns the translation of a tag name.
func (s *Service) Translate(name string) (string, bool) {
	return s.vocab.Translate(name)
}
