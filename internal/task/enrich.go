package task

import (
	"fmt"
	"strings"
	"unicode"
)

const condensedMaxChars = 240

// condenseSummary trims the narrative down to its leading sentences for
// compact surfaces like push notifications.
func condenseSummary(narrative string) (string, error) {
	narrative = strings.TrimSpace(narrative)
	if narrative == "" {
		return "", fmt.Errorf("empty narrative")
	}

	runes := []rune(narrative)
	if len(runes) <= condensedMaxChars {
		return narrative, nil
	}

	// Cut at the last sentence boundary inside the budget.
	cut := 0
	for i := 0; i < condensedMaxChars; i++ {
		switch runes[i] {
		case '.', '!', '?', '。', '！', '？':
			cut = i + 1
		}
	}
	if cut == 0 {
		cut = condensedMaxChars
	}
	return strings.TrimSpace(string(runes[:cut])), nil
}

// voiceSummary rewrites the narrative opening into a single line suitable for
// text-to-speech: a spoken-friendly lead-in, no markdown, no slashes.
func voiceSummary(champion string, win bool, narrative string) (string, error) {
	condensed, err := condenseSummary(narrative)
	if err != nil {
		return "", err
	}

	outcome := "loss"
	if win {
		outcome = "win"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your %s on %s. ", outcome, champion)
	for _, r := range condensed {
		switch {
		case r == '/':
			b.WriteString(" out of ")
		case r == '*' || r == '_' || r == '#' || r == '`':
			// markdown noise, drop
		case unicode.IsControl(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}
