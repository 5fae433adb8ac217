package imageinfo

import "github.com/kailas-cloud/tagquery/internal/domain/corpus"

// Corpus looks up entries and source titles.
type Corpus interface {
	Lookup(id string) (corpus.Entry, bool)
	Title(source string) (string, bool)
}

// Translator resolves tag translations.
type Translator interface {
	Translate(name string) (string, bool)
}
