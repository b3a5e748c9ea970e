package v1

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/base64"
	"fmt"
)

var idEncoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// newEntityID returns a random 120-bit identifier encoded as lowercase
// base32, used for user and credential ids.
func newEntityID() (string, error) {
	b := make([]byte, 15)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return idEncoding.EncodeToString(b), nil
}

// newSessionID returns a random 256-bit session identifier. Session ids must
// be unguessable; they are the only proof of authentication a client holds.
func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
