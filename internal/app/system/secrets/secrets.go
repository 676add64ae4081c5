// Package secrets seals small credential strings for storage at rest.
//
// Creators hand us their own Stripe secret keys; those keys live in the
// users collection, so they are encrypted with a server-side sealing key
// before any write and opened again just before a provider call. Sealing
// uses nacl/secretbox with a random nonce per value; the sealed form is
// base64 so it stores as an ordinary string field.
package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrOpenFailed is returned when a sealed value cannot be authenticated,
// which usually means the sealing key changed or the value was corrupted.
var ErrOpenFailed = errors.New("secrets: cannot open sealed value")

// Sealer encrypts and decrypts credential strings with a fixed key.
type Sealer struct {
	key [32]byte
}

// NewSealer derives a sealing key from the configured passphrase.
// The passphrase must be non-empty; it is hashed to the 32 bytes
// secretbox requires, so any reasonably long random string works.
func NewSealer(passphrase string) (*Sealer, error) {
	if passphrase == "" {
		return nil, errors.New("secrets: sealing key is empty")
	}
	return &Sealer{key: sha256.Sum256([]byte(passphrase))}, nil
}

// Seal encrypts a plaintext credential. Empty input seals to empty output
// so optional fields round-trip without special cases.
func (s *Sealer) Seal(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("secrets: nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal.
func (s *Sealer) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrOpenFailed
	}
	if len(raw) <= nonceSize {
		return "", ErrOpenFailed
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])

	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrOpenFailed
	}
	return string(plain), nil
}
