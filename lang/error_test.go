package lang

import (
	"errors"
	"log/slog"
	"testing"
)

func TestErrorSentinels(t *testing.T) {
	sentinel := NewError("widget exploded")

	if sentinel.Error() != "widget exploded" {
		t.Errorf("Error() = %q", sentinel.Error())
	}

	cause := errors.New("loose bolt")
	wrapped := sentinel.Wrap(cause)

	if wrapped.Error() != "widget exploded: loose bolt" {
		t.Errorf("wrapped Error() = %q", wrapped.Error())
	}

	// Derived copies still match the sentinel and expose the cause.
	if !errors.Is(wrapped, sentinel) {
		t.Error("Wrap broke errors.Is against the sentinel")
	}

	if !errors.Is(wrapped, cause) {
		t.Error("Unwrap chain lost the cause")
	}

	if errors.Is(sentinel, NewError("other")) {
		t.Error("distinct sentinels compare equal")
	}

	// Deriving must not mutate the sentinel.
	if sentinel.cause != nil || len(sentinel.attrs) != 0 {
		t.Error("Wrap mutated the sentinel")
	}
}

func TestErrorAttrsAreCopied(t *testing.T) {
	base := NewError("base").With(slog.String("a", "1"))

	first := base.With(slog.String("b", "2"))
	second := base.With(slog.String("c", "3"))

	if len(base.attrs) != 1 || len(first.attrs) != 2 || len(second.attrs) != 2 {
		t.Fatalf("attr lengths = %d, %d, %d",
			len(base.attrs), len(first.attrs), len(second.attrs))
	}

	// Siblings derived from the same base must not share tails.
	if first.attrs[1].Key != "b" || second.attrs[1].Key != "c" {
		t.Errorf("derived attrs overlap: %v / %v",
			first.attrs[1].Key, second.attrs[1].Key)
	}
}

func TestConvertErrorMessage(t *testing.T) {
	err := newConvertError(NewVersion(MakeVersion(1, 2)), KindNumber)

	want := "Unable to convert value '1.2' from type Version to type Number."
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}
