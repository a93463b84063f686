package analysis

import (
	"errors"
	"testing"
)

// TestCheckCompliance_RejectsWinRateClaim covers the policy scenario: a
// narrative stating a win-rate percentage is rejected.
func TestCheckCompliance_RejectsWinRateClaim(t *testing.T) {
	err := CheckCompliance("该增益胜率为 55%")
	if err == nil {
		t.Fatal("Expected compliance violation for win-rate claim")
	}
	var ce *ComplianceError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected *ComplianceError, got %T", err)
	}
}

// TestCheckCompliance_Patterns walks rejected and accepted phrasings.
func TestCheckCompliance_Patterns(t *testing.T) {
	rejected := []string{
		"You won 55% of your fights.",
		"Your win rate this patch is high.",
		"The probability of success was low.",
		"伤害占比是一个高百分比",
		"这个选择提高了概率",
		"Roughly 3.5 % of games go this way.",
	}
	for _, text := range rejected {
		if err := CheckCompliance(text); err == nil {
			t.Errorf("Expected violation for %q", text)
		}
	}

	accepted := []string{
		"Strong laning with a 600 gold lead at ten minutes.",
		"You placed 9 wards and cleared 3.",
		"团战参与度很高，节奏很好。",
	}
	for _, text := range accepted {
		if err := CheckCompliance(text); err != nil {
			t.Errorf("Unexpected violation for %q: %v", text, err)
		}
	}
}

// TestCheckCompliance_ScansAllTexts verifies suggestions are screened too.
func TestCheckCompliance_ScansAllTexts(t *testing.T) {
	if err := CheckCompliance("clean narrative text here", "aim for a 60% dodge rate"); err == nil {
		t.Error("Expected violation found in secondary text")
	}
}

// TestCheckHallucination walks data-missing claims in both languages.
func TestCheckHallucination(t *testing.T) {
	rejected := []string{
		"Unfortunately the data is not available for this match.",
		"I don't have access to the timeline.",
		"There is insufficient data to analyze this game.",
		"抱歉，无法获取数据。",
	}
	for _, text := range rejected {
		err := CheckHallucination(text)
		if err == nil {
			t.Errorf("Expected hallucination detection for %q", text)
			continue
		}
		var he *HallucinationError
		if !errors.As(err, &he) {
			t.Errorf("Expected *HallucinationError, got %T", err)
		}
	}

	if err := CheckHallucination("Solid game with strong objective control."); err != nil {
		t.Errorf("Unexpected hallucination flag: %v", err)
	}
}
