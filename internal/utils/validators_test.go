package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{" user@example.com ", true},
		{"user@example", false},
		{"@example.com", false},
		{"user@", false},
		{"", false},
		{strings.Repeat("a", 250) + "@x.com", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, IsValidEmail(tc.email), "email %q", tc.email)
	}
}

func TestIsValidPhone(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"+233241234567", true},
		{"0241234567", true},
		{"0541234567", true},
		{"+233999999999", false},
		{"12345", false},
		{"notaphone", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, IsValidPhone(tc.phone), "phone %q", tc.phone)
	}
}

func TestHashSecretRoundTrip(t *testing.T) {
	hash, err := HashSecret("super-secret-material")
	assert.NoError(t, err)
	assert.NotEqual(t, "super-secret-material", hash)

	assert.True(t, CheckSecret(hash, "super-secret-material"))
	assert.False(t, CheckSecret(hash, "different-material"))
}
