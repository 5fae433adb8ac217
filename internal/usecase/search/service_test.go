package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/tagquery/internal/domain"
	"github.com/kailas-cloud/tagquery/internal/domain/query"
	"github.com/kailas-cloud/tagquery/internal/domain/search/result"
)

// --- Mocks ---

type mockSearcher struct {
	res    result.Result
	err    error
	called bool
	last   query.Query
}

func (m *mockSearcher) Search(_ context.Context, q query.Query) (result.Result, error) {
	m.called = true
	m.last = q
	return m.res, m.err
}

// --- Tests ---

func TestService_Search(t *testing.T) {
	ms := &mockSearcher{res: result.New([]string{"x"}, 4)}
	svc := New(ms)

	res, err := svc.Search(context.Background(), "Sleeve Cuffs, -foo:0.75")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count() != 4 || len(res.Images()) != 1 {
		t.Errorf("unexpected result %v/%d", res.Images(), res.Count())
	}
	if !ms.called {
		t.Fatal("expected searcher to be called")
	}
	if ms.last.String() != "sleeve_cuffs,-foo:0.75" {
		t.Errorf("parsed query = %s", ms.last)
	}
}

func TestService_EmptyQuery(t *testing.T) {
	for _, raw := range []string{"", "   ", ",,", " , [a"} {
		ms := &mockSearcher{}
		_, err := New(ms).Search(context.Background(), raw)
		if !errors.Is(err, domain.ErrEmptyQuery) {
			t.Errorf("%q: expected ErrEmptyQuery, got %v", raw, err)
		}
		if ms.called {
			t.Errorf("%q: searcher must not be called", raw)
		}
	}
}

func TestService_SearcherError(t *testing.T) {
	ms := &mockSearcher{err: context.DeadlineExceeded}
	_, err := New(ms).Search(context.Background(), "a")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wrapped DeadlineExceeded, got %v", err)
	}
}

func TestService_WithEngine(t *testing.T) {
	svc := New(NewEngine(fiveEntries(), 2))
	res, err := svc.Search(context.Background(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Images()) != 2 || res.Count() != 3 {
		t.Errorf("images=%v count=%d", res.Images(), res.Count())
	}
}
