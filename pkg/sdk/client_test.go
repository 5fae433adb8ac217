package tagquery

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testData(t *testing.T) []Option {
	t.Helper()
	dir := t.TempDir()
	list := filepath.Join(dir, "cglist.csv")
	tags := filepath.Join(dir, "tags")
	vocab := filepath.Join(dir, "vocab.csv")

	writeFile(t, list, "0,First,x,y,s1,1\n1,First,x,y,s1,2\n2,Second,x,y,s2,1\n")
	writeFile(t, filepath.Join(tags, "s1", "image_1.txt"), "smile 0.9\nsafe 1.0 9\n")
	writeFile(t, filepath.Join(tags, "s2", "image_1.txt"), "smile 0.4\nlong_hair 0.8\n")
	writeFile(t, vocab, "smile,笑顔\nsafe,\nlong_hair,長髪\n")

	return []Option{WithCorpus(list, tags), WithVocabulary(vocab)}
}

func newTestClient(t *testing.T, extra ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), append(testData(t), extra...)...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_NoCorpus(t *testing.T) {
	if _, err := New(context.Background()); err == nil {
		t.Fatal("expected error when no corpus provided")
	}
}

func TestNew_NegativeMaxResults(t *testing.T) {
	opts := append(testData(t), WithMaxResults(-1))
	if _, err := New(context.Background(), opts...); err == nil {
		t.Fatal("expected error for negative max results")
	}
}

func TestNew_MissingFiles(t *testing.T) {
	_, err := New(context.Background(), WithCorpus("/nonexistent/list.csv", "/nonexistent"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestClient_Search(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	res, err := c.Search(ctx, "smile")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count != 2 || len(res.Images) != 2 {
		t.Errorf("res = %+v", res)
	}

	res, err = c.Search(ctx, "smile:0.5,-long_hair")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count != 1 || res.Images[0] != "s1/image_1.webp" {
		t.Errorf("res = %+v", res)
	}

	if _, err := c.Search(ctx, " , "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestClient_MaxResults(t *testing.T) {
	c := newTestClient(t, WithMaxResults(1), WithLoadWorkers(1))

	res, err := c.Search(context.Background(), "smile")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count != 2 || len(res.Images) != 1 {
		t.Errorf("res = %+v", res)
	}
}

func TestClient_ValidateTags(t *testing.T) {
	c := newTestClient(t)

	if err := c.ValidateTags("smile,-safe"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := c.ValidateTags("smile,frown")
	if !errors.Is(err, ErrUnknownTags) {
		t.Fatalf("expected ErrUnknownTags, got %v", err)
	}
	var ute *UnknownTagsError
	if !errors.As(err, &ute) || len(ute.Tags) != 1 || ute.Tags[0] != "frown" {
		t.Errorf("unknown tags = %+v", ute)
	}
}

func TestClient_FilterTags(t *testing.T) {
	c := newTestClient(t)
	if got := c.FilterTags("s", 0); len(got) != 2 {
		t.Errorf("FilterTags(s) = %v", got)
	}
}

func TestClient_ImageInfo(t *testing.T) {
	c := newTestClient(t)

	info, err := c.ImageInfo("s1/image_1.webp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Title != "First" || len(info.Tags) != 2 {
		t.Fatalf("info = %+v", info)
	}
	if info.Tags[0].Name != "smile" || info.Tags[0].Translation != "笑顔" || info.Tags[0].Category != "general" {
		t.Errorf("first tag = %+v", info.Tags[0])
	}

	if _, err := c.ImageInfo("s1/image_2.webp"); !errors.Is(err, ErrNoTags) {
		t.Errorf("expected ErrNoTags, got %v", err)
	}
	if _, err := c.ImageInfo("nope"); !errors.Is(err, ErrImageNotFound) {
		t.Errorf("expected ErrImageNotFound, got %v", err)
	}
}

func TestClient_HealthAndStats(t *testing.T) {
	c := newTestClient(t)

	h := c.Health(context.Background())
	if h.Status != "ok" || h.Checks["corpus"] != "ok" {
		t.Errorf("health = %+v", h)
	}
	if _, ok := h.Checks["cache"]; ok {
		t.Error("cache check must be absent without a cache")
	}

	s := c.Stats()
	if s.Images != 3 || s.Tagged != 2 || s.Vocabulary != 3 || s.Fingerprint == 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestClient_Observability(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t, WithPrometheus(reg), WithLogger(slog.New(slog.DiscardHandler)))

	_, _ = c.Search(context.Background(), "smile")
	_, _ = c.Search(context.Background(), "")

	ok := testutil.ToFloat64(c.obs.metrics.operations.WithLabelValues("search", "ok"))
	failed := testutil.ToFloat64(c.obs.metrics.operations.WithLabelValues("search", "error"))
	if ok != 1 || failed != 1 {
		t.Errorf("search ok=%v error=%v", ok, failed)
	}
}

func TestRegisterOrReuse(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatalf("second registration should reuse collectors: %v", err)
	}
	if first.operations != second.operations {
		t.Error("expected the registered collector to be reused")
	}
}
