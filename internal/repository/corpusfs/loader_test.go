package corpusfs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagquery/internal/domain/tag"
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

func fixture(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	list := filepath.Join(dir, "list.csv")
	tags := filepath.Join(dir, "tags")

	writeFile(t, list, ""+
		"0,First Title,x,y,s1,1\n"+
		"1,Ignored Title,x,y,s1,2\n"+
		"2,,x,y,s2,1\n"+
		"3,short,row\n"+
		"4,\"Quoted, Title\",x,y,s3,7\n")
	writeFile(t, filepath.Join(tags, "s1", "image_1.txt"), "sleeve_cuffs 0.9\nsafe 1.0 9\n\nbroken\n")
	writeFile(t, filepath.Join(tags, "s3", "image_7.json"), `{"0":{"Long Hair":0.7},"4":{"alice":0.95}}`)

	return Config{ImageList: list, TagDir: tags, Workers: 2}
}

func TestLoad(t *testing.T) {
	c, err := New(fixture(t), zap.NewNop()).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", c.Len())
	}
	if c.ProfileCount() != 2 {
		t.Errorf("ProfileCount() = %d, want 2", c.ProfileCount())
	}

	wantIDs := []string{"s1/image_1.webp", "s1/image_2.webp", "s2/image_1.webp", "s3/image_7.webp"}
	for i, id := range wantIDs {
		if got := c.At(i).ID; got != id {
			t.Errorf("At(%d).ID = %q, want %q", i, got, id)
		}
	}

	e := c.At(0)
	if !e.Profile.Found("sleeve_cuffs", 0.9) || !e.Profile.Found("safe", 1) {
		t.Error("s1/image_1 tags not loaded")
	}
	if _, cat, _ := e.Profile.Score("safe"); cat != tag.Rating {
		t.Errorf("safe category = %v", cat)
	}
	if c.At(1).Profile != nil {
		t.Error("image without tag file must have nil profile")
	}

	json := c.At(3).Profile
	if !json.Found("long_hair", 0.7) {
		t.Error("json tag names must be normalized")
	}
	if _, cat, _ := json.Score("alice"); cat != tag.Character {
		t.Errorf("alice category = %v", cat)
	}

	if title, _ := c.Title("s1"); title != "First Title" {
		t.Errorf("Title(s1) = %q", title)
	}
	if _, ok := c.Title("s2"); ok {
		t.Error("empty title must not be recorded")
	}
	if title, _ := c.Title("s3"); title != "Quoted, Title" {
		t.Errorf("Title(s3) = %q", title)
	}
}

func TestLoad_MissingList(t *testing.T) {
	_, err := New(Config{ImageList: filepath.Join(t.TempDir(), "nope.csv")}, zap.NewNop()).Load(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(fixture(t), zap.NewNop()).Load(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestReadProfile_InvalidJSON(t *testing.T) {
	base := filepath.Join(t.TempDir(), "image_1")
	writeFile(t, base+".json", `{"general":{"a":1}}`)

	if _, err := ReadProfile(base); err == nil {
		t.Error("expected error for non-numeric category")
	}
}

func TestReadProfile_TextPreferred(t *testing.T) {
	base := filepath.Join(t.TempDir(), "image_1")
	writeFile(t, base+".txt", "from_text 0.5\n")
	writeFile(t, base+".json", `{"0":{"from_json":0.5}}`)

	p, err := ReadProfile(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Found("from_text", 0) || p.Found("from_json", 0) {
		t.Error("text tag file must take precedence")
	}
}

func TestLoadVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.csv")
	writeFile(t, path, "sleeve_cuffs,袖口\nlong hair,長髪\nsolo\n,orphan\n")

	v, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Len() != 3 {
		t.Errorf("Len() = %d, want 3", v.Len())
	}
	if tr, ok := v.Translate("long_hair"); !ok || tr != "長髪" {
		t.Errorf("Translate(long_hair) = %q, %v", tr, ok)
	}
	if !v.Contains("solo") {
		t.Error("solo should be known")
	}
	if _, ok := v.Translate("solo"); ok {
		t.Error("solo has no translation")
	}
}
