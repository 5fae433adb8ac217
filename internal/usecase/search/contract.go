package search

import (
	"context"

	"github.com/kailas-cloud/tagquery/internal/domain/query"
	"github.com/kailas-cloud/tagquery/internal/domain/search/result"
)

// Searcher evaluates a parsed query (the engine itself or a caching decorator).
type Searcher interface {
	Search(ctx context.Context, q query.Query) (result.Result, error)
}
