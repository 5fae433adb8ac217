package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagquery/internal/domain"
	"github.com/kailas-cloud/tagquery/internal/domain/query"
	"github.com/kailas-cloud/tagquery/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/tagquery/internal/logger"
	"github.com/kailas-cloud/tagquery/internal/metrics"
)

// Service parses raw tag queries and runs them through a Searcher.
type Service struct {
	searcher Searcher
}

// New creates a search service.
func New(searcher Searcher) *Service {
	return &Service{searcher: searcher}
}

// Search parses raw and returns the matching images.
// A query without any term is rejected with domain.ErrEmptyQuery.
func (s *Service) Search(ctx context.Context, raw string) (result.Result, error) {
	logger := logpkg.FromContext(ctx)

	if strings.TrimSpace(raw) == "" {
		metrics.SearchRequestsTotal.WithLabelValues("empty").Inc()
		return result.Result{}, domain.ErrEmptyQuery
	}

	q := query.Parse(raw)
	if q.IsEmpty() {
		metrics.SearchRequestsTotal.WithLabelValues("empty").Inc()
		return result.Result{}, fmt.Errorf("%w: no term in %q", domain.ErrEmptyQuery, raw)
	}

	start := time.Now()
	res, err := s.searcher.Search(ctx, q)
	duration := time.Since(start)

	if err != nil {
		status := "error"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = "cancelled"
		}
		metrics.SearchRequestsTotal.WithLabelValues(status).Inc()
		logger.Warn("Search aborted",
			zap.String("query", q.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return result.Result{}, fmt.Errorf("search %q: %w", q.String(), err)
	}

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.SearchDuration.Observe(duration.Seconds())
	metrics.SearchMatches.Observe(float64(res.Count()))

	logger.Info("Search completed",
		zap.String("query", q.String()),
		zap.Int("terms", q.Len()),
		zap.Int("count", res.Count()),
		zap.Int("returned", len(res.Images())),
		zap.Duration("duration", duration),
	)

	return res, nil
}
