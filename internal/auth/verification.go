package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// verificationTokenBytes is the entropy of the opaque verification and reset
// tokens stored on the user row.
const verificationTokenBytes = 32

// GenerateVerificationToken returns a cryptographically random URL-safe opaque
// token. Used for both email verification and password reset.
func GenerateVerificationToken() (string, error) {
	buf := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
