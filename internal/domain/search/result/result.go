package result

// Result is the outcome of one search: the materialized identifiers in corpus
// order and the total number of matching entries, which may exceed len(Images).
type Result struct {
	images []string
	count  int
}

// New creates a search result.
func New(images []string, count int) Result {
	return Result{images: images, count: count}
}

// Images returns the matched identifiers, capped by the search limit.
func (r Result) Images() []string { return r.images }

// Count returns the number of matches in the whole corpus.
func (r Result) Count() int { return r.count }

// Truncated reports whether some matches were not materialized.
func (r Result) Truncated() bool { return r.count > len(r.images) }
