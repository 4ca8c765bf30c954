package utils

import (
	"strings"
)

// NormalizeEmail trims and lower-cases an e-mail address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DigitsOnly strips spaces and dashes from card or phone numbers.
func DigitsOnly(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "\t", "").Replace(strings.TrimSpace(s))
}

// MaskCard keeps the last four digits of a card number.
func MaskCard(number string) string {
	n := DigitsOnly(number)
	if len(n) <= 4 {
		return "**** **** **** " + n
	}
	return "**** **** **** " + n[len(n)-4:]
}

// SafeFilenamePart strips characters that break download file names.
func SafeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
