package handlers

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateRunesShortStringUntouched(t *testing.T) {
	if got := truncateRunes("hello", 50); got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestTruncateRunesKeepsMultibyteIntact(t *testing.T) {
	s := strings.Repeat("é", 60)
	got := truncateRunes(s, 50)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
	want := strings.Repeat("é", 50) + "..."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
