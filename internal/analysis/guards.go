package analysis

import (
	"fmt"
	"regexp"
	"strings"
)

// compliancePatterns ban probability and win-rate claims in generated text
// for policy-constrained modes. The patterns cover both English and Chinese
// phrasings seen in provider output.
var compliancePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+(?:\.\d+)?\s*%`),
	regexp.MustCompile(`(?i)win\s*rate`),
	regexp.MustCompile(`(?i)probability`),
	regexp.MustCompile(`(?i)percent(?:age)?`),
	regexp.MustCompile(`胜率`),
	regexp.MustCompile(`百分比`),
	regexp.MustCompile(`概率`),
}

// hallucinationPhrases indicate the generator claims data is missing even
// though a computed base report exists.
var hallucinationPhrases = []string{
	"data missing",
	"no data available",
	"insufficient data",
	"data is not available",
	"unable to analyze",
	"cannot access the match",
	"i don't have access",
	"数据缺失",
	"无法获取数据",
	"没有相关数据",
}

// ComplianceError reports a banned pattern in generated text.
type ComplianceError struct {
	Pattern string
	Excerpt string
}

func (e *ComplianceError) Error() string {
	return fmt.Sprintf("compliance violation: pattern %q matched %q", e.Pattern, e.Excerpt)
}

// HallucinationError reports a data-missing claim in generated text.
type HallucinationError struct {
	Phrase string
}

func (e *HallucinationError) Error() string {
	return fmt.Sprintf("hallucination detected: generator claims %q", e.Phrase)
}

// CheckCompliance scans the given texts for banned probability and win-rate
// phrasing and returns a ComplianceError on the first match.
func CheckCompliance(texts ...string) error {
	for _, text := range texts {
		for _, pattern := range compliancePatterns {
			if loc := pattern.FindString(text); loc != "" {
				return &ComplianceError{Pattern: pattern.String(), Excerpt: excerpt(text, loc)}
			}
		}
	}
	return nil
}

// CheckHallucination scans texts for data-missing claims. The base report is
// always computed before the generator runs, so any such claim is fabricated.
func CheckHallucination(texts ...string) error {
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, phrase := range hallucinationPhrases {
			if strings.Contains(lower, phrase) {
				return &HallucinationError{Phrase: phrase}
			}
		}
	}
	return nil
}

func excerpt(text, match string) string {
	i := strings.Index(text, match)
	start := i - 12
	if start < 0 {
		start = 0
	}
	end := i + len(match) + 12
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}
