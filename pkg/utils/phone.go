package utils

import "strings"

// NormalizePhone strips everything but digits and keeps the last 10.
// "+91 98765 43210", "09876543210" and "9876543210" all normalize to
// the same portal login id.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return digits
}
