// Package telegram handles the integration with the Telegram Bot API.
// It is responsible for receiving updates from Telegram, driving the
// complaint intake conversation, and running the admin commands.
package telegram

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinComplaintRunes is the minimum length of a complaint text, counted in
// runes so Cyrillic input is measured the same as Latin.
const MinComplaintRunes = 20

var (
	phoneSeparators = regexp.MustCompile(`[\s\-()]`)
	phonePattern    = regexp.MustCompile(`^\+?998\d{9}$`)
)

// NormalizePhone strips separators from an Uzbek phone number and returns
// it in canonical +998XXXXXXXXX form. The second return is false when the
// input is not a valid number. Normalization is idempotent: feeding the
// output back in returns it unchanged.
func NormalizePhone(raw string) (string, bool) {
	cleaned := phoneSeparators.ReplaceAllString(raw, "")
	if !phonePattern.MatchString(cleaned) {
		return "", false
	}
	if !strings.HasPrefix(cleaned, "+") {
		cleaned = "+" + cleaned
	}
	return cleaned, true
}

// ValidFullName requires at least two whitespace-separated words, a
// first and a last name.
func ValidFullName(raw string) bool {
	return len(strings.Fields(raw)) >= 2
}

// ValidComplaintText rejects texts shorter than MinComplaintRunes runes.
func ValidComplaintText(raw string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(raw)) >= MinComplaintRunes
}
