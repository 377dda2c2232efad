package service

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"taxpadi-referral-be/internal/pkg/apperror"
)

var accountNumberPattern = regexp.MustCompile(`^\d{10}$`)

// normalizeAccountNumber strips whitespace and requires exactly 10 digits,
// the NUBAN account number format.
func normalizeAccountNumber(raw string) (string, error) {
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	if !accountNumberPattern.MatchString(normalized) {
		return "", apperror.Validation("account number must be exactly 10 digits")
	}
	return normalized, nil
}

// toKobo converts a naira amount to kobo. The settlement walk compares in
// integer kobo so float accumulation can never blur the exact-sum check.
func toKobo(naira float64) int64 {
	return int64(math.Round(naira * 100))
}

// round2 rounds to two decimal places (kobo precision).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
