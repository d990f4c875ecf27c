package utils

import (
	"regexp"
	"strings"
)

// RFC 5321 caps the total address length at 254 octets in practice.
const maxEmailLength = 254

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// Ghanaian numbers: +233 or a leading 0, then a valid network prefix.
	phoneRegex = regexp.MustCompile(`^(?:(?:\+233)|0)(?:[2357]\d{8}|[23][2-9]\d{7})$`)
)

// IsValidEmail reports whether the input is a well-formed email address.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if len(email) > maxEmailLength {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsValidPhone reports whether the input is a well-formed local phone number.
func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(strings.TrimSpace(phone))
}
