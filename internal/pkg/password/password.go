// Package password wraps bcrypt hashing with the work factor used across
// the system.
package password

import "golang.org/x/crypto/bcrypt"

const cost = 10

// Hash returns the salted bcrypt hash of plaintext.
func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plaintext matches hash. bcrypt performs the
// comparison itself, so no extra constant-time handling is needed here.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
