// Package credential holds the pure predicates applied to account credentials
// at registration, login and profile update.
package credential

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the minimum number of characters in a strong password.
const MinPasswordLength = 8

// PasswordSymbols is the set of symbols of which a strong password needs at least one.
const PasswordSymbols = "@$!%*?&"

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

// IsValidEmail reports whether s has the local@domain.tld shape.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsStrongPassword reports whether s is at least MinPasswordLength characters
// long and mixes lowercase, uppercase, digit and PasswordSymbols characters.
func IsStrongPassword(s string) bool {
	if utf8.RuneCountInString(s) < MinPasswordLength {
		return false
	}

	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// IsValidPhone reports whether s is 10 to 15 digits with an optional leading '+'.
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// NormalizeEmail returns the canonical stored form of an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
