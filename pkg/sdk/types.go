package tagquery

// SearchResult is the outcome of one search.
type SearchResult struct {
	// Images holds matching identifiers in corpus order, capped by WithMaxResults.
	Images []string
	// Count is the number of matches in the whole corpus.
	Count int
}

// Tag is one tag of an image.
type Tag struct {
	Name        string
	Translation string
	Score       float64
	Category    string // "general", "character", "rating"
}

// ImageInfo describes a single image.
type ImageInfo struct {
	ID     string
	Source string
	Title  string
	Tags   []Tag
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Stats summarizes the loaded data.
type Stats struct {
	Images      int
	Tagged      int
	Vocabulary  int
	Fingerprint uint64
}
