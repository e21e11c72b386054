package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(CodeStorage, "write row", cause)
	if got := err.Error(); got != "write row: disk full" {
		t.Fatalf("unexpected message: %q", got)
	}
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New(CodeDuplicateName, "student name already exists")
	wrapped := fmt.Errorf("add student: %w", New(CodeDuplicateName, "other message"))
	if !stderrors.Is(wrapped, sentinel) {
		t.Fatal("expected code match")
	}
	if stderrors.Is(New(CodeNotFound, "missing"), sentinel) {
		t.Fatal("expected code mismatch")
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", New(CodeEncodingUnknown, "bad bytes"))
	if got := CodeOf(wrapped); got != CodeEncodingUnknown {
		t.Fatalf("CodeOf = %q, want %q", got, CodeEncodingUnknown)
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("CodeOf plain error = %q, want %q", got, CodeUnknown)
	}
}
