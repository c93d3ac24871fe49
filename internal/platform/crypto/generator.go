// File: internal/platform/crypto/generator.go
package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateSecureRandomString creates a cryptographically secure random string.
// n is the number of bytes of randomness, resulting string length will be larger due to base64 encoding.
func GenerateSecureRandomString(n int) (string, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// GenerateJoinCode creates an n-character uppercase alphanumeric code suitable
// for sharing out of band. Uses rejection sampling so every character is drawn
// uniformly from the alphabet.
func GenerateJoinCode(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("join code length must be positive, got %d", n)
	}

	code := make([]byte, 0, n)
	buf := make([]byte, n*2)
	// 252 is the largest multiple of 36 below 256; bytes at or above it would
	// skew the distribution if taken modulo the alphabet size.
	const limit = byte(252)

	for len(code) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			code = append(code, joinCodeAlphabet[int(b)%len(joinCodeAlphabet)])
			if len(code) == n {
				break
			}
		}
	}
	return string(code), nil
}
