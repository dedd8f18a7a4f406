package pairing

import (
	"context"
	"errors"
	"fmt"

	"github.com/denysvitali/trustcore/internal/crypto"
	"github.com/denysvitali/trustcore/internal/domain"
	"github.com/denysvitali/trustcore/internal/util/memzero"
)

// Credential bundle plaintext layout: masterSecret(32) || token (UTF-8,
// possibly empty). Length-unambiguous, so no framing is needed.
const secretBytes = 32

// ErrBundleFormat is returned when a decrypted credential bundle is too
// short to hold a master secret.
var ErrBundleFormat = errors.New("pairing: credential bundle too short")

// Approve is the approving-device side of linking: parse the scanned
// payload, encrypt the account credentials to the requester's ephemeral
// public key and submit the bundle. Stateless and one-shot; there is no
// polling on this side.
func Approve(ctx context.Context, api domain.PairingAPI, payload string, creds domain.Credentials) error {
	pub, err := ParsePayload(payload)
	if err != nil {
		return err
	}

	plaintext := encodeCredentials(creds)
	bundle, err := crypto.SealAnonymous(plaintext, pub)
	memzero.Zero(plaintext)
	if err != nil {
		return fmt.Errorf("pairing: seal credentials: %w", err)
	}

	if err := api.SubmitApproval(ctx, pub, bundle); err != nil {
		return fmt.Errorf("pairing: submit approval: %w", err)
	}
	return nil
}

func encodeCredentials(creds domain.Credentials) []byte {
	out := make([]byte, 0, secretBytes+len(creds.Token))
	out = append(out, creds.Secret[:]...)
	out = append(out, creds.Token...)
	return out
}

// decodeCredentials parses a decrypted bundle. The token inside the bundle
// is authenticated and wins over the one the wait response carried beside
// it; the response token is only a fallback for approvers that omit it.
func decodeCredentials(plaintext []byte, responseToken domain.SessionToken) (domain.Credentials, error) {
	if len(plaintext) < secretBytes {
		return domain.Credentials{}, ErrBundleFormat
	}
	var creds domain.Credentials
	copy(creds.Secret[:], plaintext[:secretBytes])
	if len(plaintext) > secretBytes {
		creds.Token = domain.SessionToken(plaintext[secretBytes:])
	} else {
		creds.Token = responseToken
	}
	return creds, nil
}
