package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	boxNonceBytes = 24
	boxOverhead   = secretbox.Overhead
)

// SealBox encrypts plaintext under key with NaCl secretbox
// (XSalsa20-Poly1305) and a fresh random 24-byte nonce. Wire format:
// nonce(24) || ciphertext+tag. This matches the TweetNaCl format the
// counterpart system standardized on for local artifacts and synced
// settings; it is deliberately distinct from Seal's compact format.
func SealBox(key, plaintext []byte) ([]byte, error) {
	if len(key) != KeyBytes {
		return nil, ErrKeySize
	}
	var k [KeyBytes]byte
	copy(k[:], key)

	var nonce [boxNonceBytes]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, err
	}
	out := make([]byte, boxNonceBytes, boxNonceBytes+len(plaintext)+boxOverhead)
	copy(out, nonce[:])
	return secretbox.Seal(out, plaintext, &nonce, &k), nil
}

// OpenBox decrypts a bundle produced by SealBox, failing closed on any
// authentication mismatch.
func OpenBox(key, bundle []byte) ([]byte, error) {
	if len(key) != KeyBytes {
		return nil, ErrKeySize
	}
	if len(bundle) < boxNonceBytes+boxOverhead {
		return nil, ErrBundleTooShort
	}
	var k [KeyBytes]byte
	copy(k[:], key)

	var nonce [boxNonceBytes]byte
	copy(nonce[:], bundle[:boxNonceBytes])
	pt, ok := secretbox.Open(nil, bundle[boxNonceBytes:], &nonce, &k)
	if !ok {
		return nil, ErrDecryptFailed
	}
	return pt, nil
}
