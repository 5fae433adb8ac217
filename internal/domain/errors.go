package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrEmptyQuery signals a query without any tag.
	ErrEmptyQuery = errors.New("tags cannot be empty")
	// ErrUnknownTags signals tags missing from the vocabulary.
	ErrUnknownTags = errors.New("invalid tags")
	// ErrImageNotFound signals an identifier absent from the corpus.
	ErrImageNotFound = errors.New("image not found")
	// ErrNoTags signals a corpus entry without a tag profile.
	ErrNoTags = errors.New("description for this image not found")
)

// UnknownTagsError wraps ErrUnknownTags with the offending names.
type UnknownTagsError struct {
	Tags []string
}

func (e *UnknownTagsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownTags.Error(), strings.Join(e.Tags, " "))
}

func (e *UnknownTagsError) Unwrap() error { return ErrUnknownTags }

// NewUnknownTags creates an unknown tags error.
func NewUnknownTags(tags []string) error {
	return &UnknownTagsError{Tags: append([]string(nil), tags...)}
}
