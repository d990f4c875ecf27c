package utils

import "golang.org/x/crypto/bcrypt"

// HashSecret returns a bcrypt hash of the provided token secret.
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckSecret compares a bcrypt hash with its possible plaintext secret.
// bcrypt's comparison is constant time for matching-length inputs.
func CheckSecret(hashedSecret, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedSecret), []byte(secret)) == nil
}
