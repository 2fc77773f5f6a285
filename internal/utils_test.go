package internal

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"casa", "casa"},
		{"  la casa ", "la_casa"},
		{"¿qué?", "_qué_"},
		{"über-groß", "über-groß"},
		{"a/b\\c", "a_b_c"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMediaFileName(t *testing.T) {
	name := MediaFileName(42, "la casa", ".mp3")
	if !strings.HasPrefix(name, "42_la_casa_") {
		t.Errorf("unexpected prefix: %s", name)
	}
	if !strings.HasSuffix(name, ".mp3") {
		t.Errorf("unexpected suffix: %s", name)
	}

	if MediaFileName(42, "la casa", "mp3") != name {
		t.Error("MediaFileName should be stable for the same input")
	}
	if MediaFileName(42, "la cosa", "mp3") == name {
		t.Error("different texts must not share a file name")
	}

	long := MediaFileName(1, strings.Repeat("x", 100), "mp3")
	if len(long) > 60 {
		t.Errorf("long names should be truncated, got %d chars", len(long))
	}
}
