package health

import "context"

// CachePinger checks result cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// CorpusStats reports what was loaded at startup.
type CorpusStats interface {
	Len() int
	ProfileCount() int
}
