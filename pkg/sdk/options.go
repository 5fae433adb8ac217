package tagquery

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	imageList   string
	tagDir      string
	vocabulary  string
	loadWorkers int
	maxResults  int

	cacheAddrs []string
	password   string
	cacheTTL   time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCorpus sets the image list CSV and the directory of per-image tag files.
// Required.
func WithCorpus(imageList, tagDir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.imageList = imageList
		c.tagDir = tagDir
	})
}

// WithVocabulary sets the tag list CSV used by ValidateTags, FilterTags and
// translations. Without it every tag is unknown.
func WithVocabulary(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.vocabulary = path
	})
}

// WithLoadWorkers sets the number of goroutines reading tag files.
// Defaults to GOMAXPROCS.
func WithLoadWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.loadWorkers = n
	})
}

// WithMaxResults caps the identifiers returned per search. Default: 10000.
func WithMaxResults(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxResults = n
	})
}

// WithValkey caches search results in a Valkey instance.
func WithValkey(addr, password string, ttl time.Duration) Option {
	return withCache(addr, password, ttl)
}

// WithRedis caches search results in a Redis instance.
func WithRedis(addr, password string, ttl time.Duration) Option {
	return withCache(addr, password, ttl)
}

func withCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.password = password
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
