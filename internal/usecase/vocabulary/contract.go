package vocabulary

// Vocabulary is the read side of the known tag list.
type Vocabulary interface {
	Contains(name string) bool
	Translate(name string) (string, bool)
	Filter(keyword string, limit int) []string
}
