package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// SanitizeString trims input and drops control characters. HTML is left as
// typed; JSON encoding and html/template escape on output.
func SanitizeString(input string) string {
	return strings.TrimSpace(removeControlChars(input))
}

// SanitizeIdentifier normalises a username or email used as a lookup key.
// Identifiers are case-insensitive, so they are stored and compared lower-cased.
func SanitizeIdentifier(identifier string) string {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	identifier = stripHTML(identifier)
	return removeControlChars(identifier)
}

// SanitizeEmail sanitizes email input
func SanitizeEmail(email string) string {
	return SanitizeIdentifier(email)
}

// SanitizeText sanitizes multi-line text input
func SanitizeText(input string) string {
	// Remove any control characters except newlines and tabs
	var result strings.Builder
	for _, r := range input {
		if unicode.IsPrint(r) || r == '\n' || r == '\t' || r == '\r' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// SanitizeOptional applies fn to a non-nil pointer value.
func SanitizeOptional(value *string, fn func(string) string) *string {
	if value == nil {
		return nil
	}
	sanitized := fn(*value)
	return &sanitized
}

func stripHTML(input string) string {
	return htmlTagPattern.ReplaceAllString(input, "")
}

func removeControlChars(input string) string {
	var result strings.Builder
	for _, r := range input {
		if unicode.IsPrint(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
