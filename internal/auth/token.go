package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// SessionTokenLength is the length of issued session tokens. 64 characters
// over a 62-symbol alphabet is roughly 380 bits of entropy.
const SessionTokenLength = 64

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateToken returns length characters drawn uniformly from the
// alphanumeric alphabet using crypto/rand. Rejection sampling keeps the
// distribution unbiased.
func GenerateToken(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", length)
	}

	out := make([]byte, 0, length)
	buf := make([]byte, length*2)
	// Largest multiple of len(tokenAlphabet) below 256; bytes at or above it
	// are rejected to avoid modulo bias.
	const max = byte(256 - 256%len(tokenAlphabet))

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= max {
				continue
			}
			out = append(out, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}

// GenerateSessionToken returns a fresh 64-character session token.
func GenerateSessionToken() (string, error) {
	return GenerateToken(SessionTokenLength)
}

// HashToken returns the hex-encoded SHA-256 digest of a token. The digest is
// the only form ever persisted, so a leaked sessions table cannot be replayed.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}

// VerifyToken reports whether the token digests to the stored hash.
func VerifyToken(token, hash string) bool {
	computed := HashToken(token)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}
