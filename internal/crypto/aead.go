package crypto

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// KeyBytes is the length every symmetric key must have.
	KeyBytes = 32

	aeadNonceBytes = chacha20poly1305.NonceSize
	aeadOverhead   = chacha20poly1305.Overhead
)

var (
	// ErrKeySize is returned when a symmetric key is not exactly 32 bytes.
	ErrKeySize = errors.New("crypto: key must be 32 bytes")
	// ErrBundleTooShort is returned when a bundle cannot even hold its
	// fixed-size header and tag.
	ErrBundleTooShort = errors.New("crypto: bundle too short")
	// ErrDecryptFailed is returned when authentication fails: the bundle was
	// tampered with, corrupted, or encrypted under a different key. No
	// plaintext is ever returned alongside it.
	ErrDecryptFailed = errors.New("crypto: decryption failed")
)

// Seal encrypts plaintext under key with ChaCha20-Poly1305 and a fresh
// random nonce. Wire format: nonce(12) || ciphertext || tag(16). The layout
// is contractual; the sibling client decrypts these bundles byte-for-byte.
func Seal(key, plaintext []byte) ([]byte, error) {
	if len(key) != KeyBytes {
		return nil, ErrKeySize
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, aeadNonceBytes, aeadNonceBytes+len(plaintext)+aeadOverhead)
	if _, err := rand.Read(out[:aeadNonceBytes]); err != nil {
		return nil, err
	}
	return aead.Seal(out, out[:aeadNonceBytes], plaintext, nil), nil
}

// Open decrypts a bundle produced by Seal. It verifies the tag before
// returning any plaintext and fails closed on any mismatch.
func Open(key, bundle []byte) ([]byte, error) {
	if len(key) != KeyBytes {
		return nil, ErrKeySize
	}
	if len(bundle) < aeadNonceBytes+aeadOverhead {
		return nil, ErrBundleTooShort
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, bundle[:aeadNonceBytes], bundle[aeadNonceBytes:], nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return pt, nil
}
