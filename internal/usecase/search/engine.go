package search

import (
	"context"

	"github.com/kailas-cloud/tagquery/internal/domain/corpus"
	"github.com/kailas-cloud/tagquery/internal/domain/query"
	"github.com/kailas-cloud/tagquery/internal/domain/search/result"
)

// checkEvery is how many entries are scanned between context checks.
const checkEvery = 4096

// Execute scans the corpus once in index order. Every match is counted, but only the
// first maxResults identifiers are materialized; the scan never stops early.
// Entries without a profile are skipped.
func Execute(c *corpus.Corpus, q query.Query, maxResults int) result.Result {
	res, _ := ExecuteContext(context.Background(), c, q, maxResults)
	return res
}

// ExecuteContext is Execute with cancellation checked every few thousand entries.
// On cancellation it returns the partial result together with the context error.
func ExecuteContext(
	ctx context.Context, c *corpus.Corpus, q query.Query, maxResults int,
) (result.Result, error) {
	var (
		images []string
		count  int
	)
	n := c.Len()
	for i := 0; i < n; i++ {
		if i%checkEvery == 0 && i > 0 {
			if err := ctx.Err(); err != nil {
				return result.New(images, count), err
			}
		}
		e := c.At(i)
		if e.Profile == nil || !q.Matches(e.Profile) {
			continue
		}
		count++
		if len(images) < maxResults {
			images = append(images, e.ID)
		}
	}
	return result.New(images, count), nil
}

// Engine runs queries against one corpus with a fixed result cap.
type Engine struct {
	corpus     *corpus.Corpus
	maxResults int
}

// NewEngine creates an engine.
func NewEngine(c *corpus.Corpus, maxResults int) *Engine {
	return &Engine{corpus: c, maxResults: maxResults}
}

// Search implements Searcher.
func (e *Engine) Search(ctx context.Context, q query.Query) (result.Result, error) {
	return ExecuteContext(ctx, e.corpus, q, e.maxResults)
}

// MaxResults returns the result cap.
func (e *Engine) MaxResults() int { return e.maxResults }

// Corpus returns the scanned corpus.
func (e *Engine) Corpus() *corpus.Corpus { return e.corpus }
