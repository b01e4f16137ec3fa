package normalization

import (
	"testing"
)

func TestParseInputString_TrimsAndLowers(t *testing.T) {
	got := ParseInputString("  Alice@Example.COM ")
	if got != "alice@example.com" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestParseTopicString_KeepsCasingCollapsesWhitespace(t *testing.T) {
	got := ParseTopicString("  Machine   Learning ")
	if got != "Machine Learning" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestParseTopicString_EmptyInput(t *testing.T) {
	if got := ParseTopicString("   "); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
