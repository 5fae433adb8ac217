package tagquery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/tagquery/internal/db/redis"
	"github.com/kailas-cloud/tagquery/internal/domain"
	"github.com/kailas-cloud/tagquery/internal/domain/corpus"
	"github.com/kailas-cloud/tagquery/internal/domain/search/result"
	domvocab "github.com/kailas-cloud/tagquery/internal/domain/vocabulary"
	"github.com/kailas-cloud/tagquery/internal/repository/corpusfs"
	"github.com/kailas-cloud/tagquery/internal/repository/resultcache"
	healthuc "github.com/kailas-cloud/tagquery/internal/usecase/health"
	imageinfouc "github.com/kailas-cloud/tagquery/internal/usecase/imageinfo"
	searchuc "github.com/kailas-cloud/tagquery/internal/usecase/search"
	vocabularyuc "github.com/kailas-cloud/tagquery/internal/usecase/vocabulary"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, replaced in tests.
type searchUseCase interface {
	Search(ctx context.Context, raw string) (result.Result, error)
}

type vocabularyUseCase interface {
	Filter(keyword string, limit int) []string
	Validate(raw string) error
}

type imageInfoUseCase interface {
	Get(id string) (imageinfouc.Info, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// closer releases the optional cache store.
type closer interface {
	Close()
}

// Client is the tagquery SDK entry point.
type Client struct {
	corpus    *corpus.Corpus
	vocab     *domvocab.Vocabulary
	cache     closer
	searchSvc searchUseCase
	vocabSvc  vocabularyUseCase
	imageSvc  imageInfoUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New loads the corpus and vocabulary and creates a Client.
// The provided context bounds loading and the cache readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{maxResults: domain.DefaultMaxResults}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.imageList == "" || cfg.tagDir == "" {
		return nil, errors.New("tagquery: corpus files required (use WithCorpus)")
	}
	if cfg.maxResults < 0 {
		return nil, fmt.Errorf("tagquery: max results must not be negative, got %d", cfg.maxResults)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	c, err := corpusfs.New(corpusfs.Config{
		ImageList: cfg.imageList,
		TagDir:    cfg.tagDir,
		Workers:   cfg.loadWorkers,
	}, zap.NewNop()).Load(ctx)
	obs.observe("load_corpus", start, err)
	if err != nil {
		return nil, fmt.Errorf("tagquery: %w", err)
	}

	vocab := domvocab.New(nil)
	if cfg.vocabulary != "" {
		if vocab, err = corpusfs.LoadVocabulary(cfg.vocabulary); err != nil {
			return nil, fmt.Errorf("tagquery: %w", err)
		}
	}

	var store *dbRedis.Store
	if len(cfg.cacheAddrs) > 0 {
		if store, err = createStore(ctx, cfg); err != nil {
			return nil, err
		}
	}

	return wireClient(c, vocab, store, cfg, obs), nil
}

func createStore(ctx context.Context, cfg *clientConfig) (*dbRedis.Store, error) {
	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.cacheAddrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("tagquery: create cache store: %w", err)
	}
	if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("tagquery: cache store not ready: %w", err)
	}
	return s, nil
}

func wireClient(
	c *corpus.Corpus, vocab *domvocab.Vocabulary, store *dbRedis.Store, cfg *clientConfig, obs *observer,
) *Client {
	engine := searchuc.NewEngine(c, cfg.maxResults)
	var searcher searchuc.Searcher = engine

	client := &Client{corpus: c, vocab: vocab, obs: obs}

	// Pass nil interface (not typed nil pointer!) if the cache is off.
	var pinger healthuc.CachePinger
	if store != nil {
		searcher = resultcache.New(engine, store, resultcache.Options{
			Fingerprint: c.Fingerprint(),
			MaxResults:  cfg.maxResults,
			TTL:         cfg.cacheTTL,
		}, nil, zap.NewNop())
		pinger = store
		client.cache = store
	}

	vocabSvc := vocabularyuc.New(vocab)
	client.searchSvc = searchuc.New(searcher)
	client.vocabSvc = vocabSvc
	client.imageSvc = imageinfouc.New(c, vocabSvc)
	client.healthSvc = healthuc.New(c, pinger)
	return client
}

// Close releases all resources.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// Search runs a tag query such as "a:0.5,-b,[c,d]".
func (c *Client) Search(ctx context.Context, query string) (res SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err, "query", query, "count", res.Count) }()

	r, err := c.searchSvc.Search(ctx, query)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return SearchResult{Images: r.Images(), Count: r.Count()}, nil
}

// ValidateTags reports the tags of query missing from the vocabulary
// as an error matching ErrUnknownTags.
func (c *Client) ValidateTags(query string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("validate", start, err) }()

	if err = c.vocabSvc.Validate(query); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// FilterTags returns vocabulary tags containing keyword, at most limit (0 = all).
func (c *Client) FilterTags(keyword string, limit int) []string {
	return c.vocabSvc.Filter(keyword, limit)
}

// ImageInfo returns the tags of one image.
func (c *Client) ImageInfo(id string) (info ImageInfo, err error) {
	start := time.Now()
	defer func() { c.obs.observe("image_info", start, err) }()

	in, err := c.imageSvc.Get(id)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("image info: %w", err)
	}

	info = ImageInfo{ID: in.ID, Source: in.Source, Title: in.Title, Tags: make([]Tag, len(in.Tags))}
	for i, t := range in.Tags {
		info.Tags[i] = Tag{
			Name:        t.Name,
			Translation: t.Translation,
			Score:       t.Score,
			Category:    t.Category.String(),
		}
	}
	return info, nil
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// Stats summarizes the loaded corpus and vocabulary.
func (c *Client) Stats() Stats {
	return Stats{
		Images:      c.corpus.Len(),
		Tagged:      c.corpus.ProfileCount(),
		Vocabulary:  c.vocab.Len(),
		Fingerprint: c.corpus.Fingerprint(),
	}
}
