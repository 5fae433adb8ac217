package vocabulary

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/tagquery/internal/domain"
	domvocab "github.com/kailas-cloud/tagquery/internal/domain/vocabulary"
)

func newTestService() *Service {
	return New(domvocab.New([]domvocab.Entry{
		{Name: "long_hair", Translation: "長髪"},
		{Name: "short_hair"},
		{Name: "hat"},
	}))
}

func TestFilter_NormalizesKeyword(t *testing.T) {
	got := newTestService().Filter("  Long Hair ", 0)
	if !reflect.DeepEqual(got, []string{"long_hair"}) {
		t.Errorf("Filter() = %v", got)
	}
}

func TestValidate_AllKnown(t *testing.T) {
	err := newTestService().Validate("long_hair, -hat:0.5, [short_hair, Long Hair]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Unknown(t *testing.T) {
	err := newTestService().Validate("long_hair,wings,[hat,-wings,tail]")
	if !errors.Is(err, domain.ErrUnknownTags) {
		t.Fatalf("expected ErrUnknownTags, got %v", err)
	}
	var ute *domain.UnknownTagsError
	if !errors.As(err, &ute) {
		t.Fatal("expected UnknownTagsError")
	}
	if !reflect.DeepEqual(ute.Tags, []string{"wings", "tail"}) {
		t.Errorf("unknown tags = %v", ute.Tags)
	}
}

func TestValidate_Empty(t *testing.T) {
	if err := newTestService().Validate(" , "); !errors.Is(err, domain.ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestTranslate(t *testing.T) {
	svc := newTestService()
	if tr, ok := svc.Translate("long_hair"); !ok || tr != "長髪" {
		t.Errorf("Translate() = %q, %v", tr, ok)
	}
}
