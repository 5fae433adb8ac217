package corpusfs

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kailas-cloud/tagquery/internal/domain/vocabulary"
)

// LoadVocabulary reads the tag list CSV: column 0 is the tag, column 1 its translation.
func LoadVocabulary(path string) (*vocabulary.Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer f.Close()

	r := newCSVReader(f)
	var entries []vocabulary.Entry
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read vocabulary %s: %w", path, err)
		}
		if len(rec) == 0 {
			continue
		}
		e := vocabulary.Entry{Name: rec[0]}
		if len(rec) > 1 {
			e.Translation = rec[1]
		}
		entries = append(entries, e)
	}
	return vocabulary.New(entries), nil
}
