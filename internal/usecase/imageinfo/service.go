package imageinfo

import (
	"fmt"

	"github.com/kailas-cloud/tagquery/internal/domain"
	"github.com/kailas-cloud/tagquery/internal/domain/tag"
)

// Tag is one tag of an image with its translation.
type Tag struct {
	Name        string
	Translation string
	Score       float64
	Category    tag.Category
}

// Info describes a single image.
type Info struct {
	ID     string
	Source string
	Title  string
	Tags   []Tag
}

// Service builds image descriptions from the corpus.
type Service struct {
	corpus     Corpus
	translator Translator
}

// New creates a Service. translator can be nil.
func New(c Corpus, translator Translator) *Service {
	return &Service{corpus: c, translator: translator}
}

// Get returns the description of the image with the given identifier.
func (s *Service) Get(id string) (Info, error) {
	e, ok := s.corpus.Lookup(id)
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", domain.ErrImageNotFound, id)
	}
	if e.Profile == nil {
		return Info{}, fmt.Errorf("%w: %s", domain.ErrNoTags, id)
	}

	info := Info{ID: e.ID, Source: e.Source}
	if title, ok := s.corpus.Title(e.Source); ok {
		info.Title = title
	}

	scored := e.Profile.Tags()
	info.Tags = make([]Tag, len(scored))
	for i, t := range scored {
		info.Tags[i] = Tag{Name: t.Name, Score: t.Score, Category: t.Category}
		if s.translator != nil {
			info.Tags[i].Translation, _ = s.translator.Translate(t.Name)
		}
	}
	return info, nil
}
