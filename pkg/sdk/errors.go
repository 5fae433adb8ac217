package tagquery

import "github.com/kailas-cloud/tagquery/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyQuery    = domain.ErrEmptyQuery
	ErrUnknownTags   = domain.ErrUnknownTags
	ErrImageNotFound = domain.ErrImageNotFound
	ErrNoTags        = domain.ErrNoTags
)

// UnknownTagsError lists the tags missing from the vocabulary.
// Use errors.As() to extract it from ValidateTags errors.
type UnknownTagsError = domain.UnknownTagsError
