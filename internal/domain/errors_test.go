package domain

import (
	"errors"
	"testing"
)

func TestUnknownTagsError(t *testing.T) {
	err := NewUnknownTags([]string{"foo", "bar"})
	if !errors.Is(err, ErrUnknownTags) {
		t.Fatal("expected errors.Is(err, ErrUnknownTags)")
	}

	var ute *UnknownTagsError
	if !errors.As(err, &ute) {
		t.Fatal("expected errors.As to UnknownTagsError")
	}
	if len(ute.Tags) != 2 || ute.Tags[0] != "foo" {
		t.Errorf("Tags = %v", ute.Tags)
	}
	if err.Error() != "invalid tags: foo bar" {
		t.Errorf("Error() = %q", err.Error())
	}
}
