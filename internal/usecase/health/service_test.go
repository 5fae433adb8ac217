package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockCache struct {
	err error
}

func (m *mockCache) Ping(_ context.Context) error { return m.err }

type mockCorpus struct {
	entries, profiles int
}

func (m mockCorpus) Len() int          { return m.entries }
func (m mockCorpus) ProfileCount() int { return m.profiles }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(mockCorpus{10, 8}, &mockCache{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["corpus"] != CheckOK {
		t.Errorf("expected corpus %q, got %q", CheckOK, r.Checks["corpus"])
	}
	if r.Checks["cache"] != CheckOK {
		t.Errorf("expected cache %q, got %q", CheckOK, r.Checks["cache"])
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(mockCorpus{10, 8}, &mockCache{err: errors.New("conn refused")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
}

func TestCheck_EmptyCorpus(t *testing.T) {
	svc := New(mockCorpus{10, 0}, &mockCache{err: errors.New("down")})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["corpus"] != CheckError {
		t.Errorf("expected corpus %q, got %q", CheckError, r.Checks["corpus"])
	}
}

func TestCheck_NoCache(t *testing.T) {
	svc := New(mockCorpus{1, 1}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check should be absent when cache is nil")
	}
}
