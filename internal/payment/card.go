package payment

import (
	"strings"
	"time"
)

// ValidCardNumber reports whether the input is a well-formed 16-digit card
// number under the Luhn checksum. It is a typo check only: it says nothing
// about the card being real, funded, or authorized.
func ValidCardNumber(raw string) bool {
	digits := stripNonDigits(raw)
	if len(digits) != 16 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ValidExpiry reports whether an MM/YY expiry is well formed and not in the
// past.
func ValidExpiry(expiry string) bool {
	parts := strings.SplitN(expiry, "/", 2)
	if len(parts) != 2 {
		return false
	}
	month := parseInt(parts[0])
	year := parseInt(parts[1])
	if month < 1 || month > 12 || year < 0 {
		return false
	}

	now := time.Now()
	currentYear := now.Year() % 100
	currentMonth := int(now.Month())

	if year < currentYear {
		return false
	}
	return year > currentYear || month >= currentMonth
}

// MaskCardNumber reformats raw input into "#### #### #### ####" groups,
// capped at 16 digits.
func MaskCardNumber(raw string) string {
	digits := stripNonDigits(raw)
	if len(digits) > 16 {
		digits = digits[:16]
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MaskExpiry reformats raw input into "MM/YY".
func MaskExpiry(raw string) string {
	digits := stripNonDigits(raw)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) >= 2 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}

// MaskCVV keeps at most three digits.
func MaskCVV(raw string) string {
	digits := stripNonDigits(raw)
	if len(digits) > 3 {
		return digits[:3]
	}
	return digits
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseInt(s string) int {
	if s == "" {
		return -1
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}
