package task

import (
	"strings"
	"testing"
)

// TestCondenseSummary_ShortPassthrough tests that short narratives are kept whole
func TestCondenseSummary_ShortPassthrough(t *testing.T) {
	in := "A strong showing in the mid lane."
	out, err := condenseSummary(in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out != in {
		t.Errorf("Expected passthrough, got %q", out)
	}
}

// TestCondenseSummary_CutsAtSentence tests the sentence-boundary cut
func TestCondenseSummary_CutsAtSentence(t *testing.T) {
	first := "The opening ten minutes set the tone for the entire game."
	in := first + " " + strings.Repeat("Filler sentence to push past the budget. ", 20)

	out, err := condenseSummary(in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len([]rune(out)) > condensedMaxChars {
		t.Errorf("Condensed summary over budget: %d runes", len([]rune(out)))
	}
	if !strings.HasPrefix(out, first) {
		t.Errorf("Expected the first sentence kept, got %q", out)
	}
	if !strings.HasSuffix(out, ".") {
		t.Errorf("Expected a sentence-boundary cut, got %q", out)
	}
}

// TestCondenseSummary_Empty tests the error path
func TestCondenseSummary_Empty(t *testing.T) {
	if _, err := condenseSummary("   "); err == nil {
		t.Error("Expected error for empty narrative")
	}
}

// TestVoiceSummary tests TTS-friendly rewriting
func TestVoiceSummary(t *testing.T) {
	out, err := voiceSummary("Ahri", true, "You went 8/2 in lane. *Great* roams.")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "Your win on Ahri.") {
		t.Errorf("Expected spoken lead-in, got %q", out)
	}
	if strings.Contains(out, "/") {
		t.Errorf("Expected slashes rewritten, got %q", out)
	}
	if strings.Contains(out, "*") {
		t.Errorf("Expected markdown stripped, got %q", out)
	}
}
