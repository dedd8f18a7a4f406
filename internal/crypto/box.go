package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/nacl/box"

	"github.com/denysvitali/trustcore/internal/domain"
	"github.com/denysvitali/trustcore/internal/util/memzero"
)

const anonHeaderBytes = 32 + boxNonceBytes

// SealAnonymous encrypts plaintext to recipient with NaCl box under a
// freshly generated ephemeral sender key pair. The shared key comes from
// X25519 between the ephemeral secret and the recipient's public key, so no
// prior relationship between the parties is needed; the recipient recovers
// it from the prepended ephemeral public key alone.
//
// Wire format: ephemeralPub(32) || nonce(24) || ciphertext+tag.
//
// The ephemeral secret is wiped before returning and can never be reused
// across calls, which is what gives each bundle forward secrecy.
func SealAnonymous(plaintext []byte, recipient domain.X25519Public) ([]byte, error) {
	ephPub, ephPriv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(ephPriv[:])

	var nonce [boxNonceBytes]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, err
	}

	out := make([]byte, 0, anonHeaderBytes+len(plaintext)+box.Overhead)
	out = append(out, ephPub[:]...)
	out = append(out, nonce[:]...)
	return box.Seal(out, plaintext, &nonce, (*[32]byte)(&recipient), ephPriv), nil
}

// OpenAnonymous decrypts a bundle produced by SealAnonymous using the
// recipient's secret key. A bundle addressed to a different key, or tampered
// with in any way, yields ErrDecryptFailed and no plaintext.
func OpenAnonymous(bundle []byte, recipient domain.X25519Private) ([]byte, error) {
	if len(bundle) < anonHeaderBytes+box.Overhead {
		return nil, ErrBundleTooShort
	}

	var ephPub [32]byte
	copy(ephPub[:], bundle[:32])
	var nonce [boxNonceBytes]byte
	copy(nonce[:], bundle[32:anonHeaderBytes])

	pt, ok := box.Open(nil, bundle[anonHeaderBytes:], &nonce, &ephPub, (*[32]byte)(&recipient))
	if !ok {
		return nil, ErrDecryptFailed
	}
	return pt, nil
}
