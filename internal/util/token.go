package util

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomToken is URL-safe. main uses it for an ephemeral dev JWT secret.
func RandomToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
