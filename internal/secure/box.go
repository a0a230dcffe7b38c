// Package secure holds the per-connection symmetric encryption applied to
// every application message after the handshake.
package secure

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the length of a session key in bytes.
const KeySize = chacha20poly1305.KeySize

var (
	ErrAuthentication = errors.New("message authentication failed")
	ErrKeySize        = fmt.Errorf("session key must be %d bytes", KeySize)
)

// NewKey returns a fresh random session key.
func NewKey() ([]byte, error) {
	k := make([]byte, KeySize)
	if _, err := rand.Read(k); err != nil {
		return nil, fmt.Errorf("generate session key: %w", err)
	}
	return k, nil
}

// Box seals and opens messages under one session key with
// XChaCha20-Poly1305. Ciphertexts are nonce || sealed.
type Box struct {
	aead cipher.AEAD
}

func NewBox(key []byte) (*Box, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &Box{aead: aead}, nil
}

func (b *Box) Seal(plaintext, aad []byte) ([]byte, error) {
	ns := b.aead.NonceSize()
	out := make([]byte, ns, ns+len(plaintext)+b.aead.Overhead())
	if _, err := rand.Read(out); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	return b.aead.Seal(out, out[:ns], plaintext, aad), nil
}

// Open never returns data unless the ciphertext was sealed by this key
// with the same aad.
func (b *Box) Open(ciphertext, aad []byte) ([]byte, error) {
	ns := b.aead.NonceSize()
	if len(ciphertext) < ns+b.aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrAuthentication)
	}
	plain, err := b.aead.Open(nil, ciphertext[:ns], ciphertext[ns:], aad)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plain, nil
}
