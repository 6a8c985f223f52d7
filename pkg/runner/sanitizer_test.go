package runner

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeInput_CleanPassthrough(t *testing.T) {
	in := "add text.heading"
	out, err := SanitizeInput(in)
	if err != nil {
		t.Fatalf("SanitizeInput failed: %v", err)
	}
	if out != in {
		t.Errorf("expected passthrough, got %q", out)
	}
}

func TestSanitizeInput_RejectsOversized(t *testing.T) {
	_, err := SanitizeInput(strings.Repeat("a", DefaultMaxInputSize+1))
	if !errors.Is(err, ErrInputTooLarge) {
		t.Fatalf("expected ErrInputTooLarge, got %v", err)
	}
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")

	if _, err := SanitizeInput(strings.Repeat("a", 11)); !errors.Is(err, ErrInputTooLarge) {
		t.Fatalf("expected override to lower the limit, got %v", err)
	}
	if _, err := SanitizeInput("short"); err != nil {
		t.Fatalf("expected short input to pass, got %v", err)
	}
}

func TestSanitizeInput_RejectsInvalidUTF8(t *testing.T) {
	_, err := SanitizeInput("bad\xff\xfe")
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestSanitizeInput_StripsControlCharacters(t *testing.T) {
	out, err := SanitizeInput("a\x1b[31mred\x00b\tok\n")
	if err != nil {
		t.Fatalf("SanitizeInput failed: %v", err)
	}
	if out != "a[31mredb\tok\n" {
		t.Errorf("expected escape and NUL stripped, tab and newline kept; got %q", out)
	}
}
