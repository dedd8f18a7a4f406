package account

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	"github.com/denysvitali/trustcore/internal/backupkey"
	"github.com/denysvitali/trustcore/internal/crypto"
	"github.com/denysvitali/trustcore/internal/domain"
	"github.com/denysvitali/trustcore/internal/protocol/pairing"
	"github.com/denysvitali/trustcore/internal/util/memzero"
)

// ErrClosed is returned by every operation on a session after Close.
var ErrClosed = errors.New("account: session closed")

// Derivation paths for the account's working keys.
var (
	settingsPath = crypto.Path{crypto.Text("account"), crypto.Text("settings")}
	identityPath = crypto.Path{crypto.Text("account"), crypto.Text("identity")}
)

func artifactPath(id string) crypto.Path {
	return crypto.Path{crypto.Text("artifact"), crypto.Text(id)}
}

// Session owns the master secret of a signed-in account. Exactly one session
// is active at a time; Close wipes the secret (best effort under a GC) and
// makes the session unusable.
type Session struct {
	mu     sync.Mutex
	creds  domain.Credentials
	closed bool
}

// NewSession wraps existing credentials, e.g. loaded from the credential
// store or recovered through pairing.
func NewSession(creds domain.Credentials) *Session {
	return &Session{creds: creds}
}

// Create generates a brand-new account with a random master secret.
func Create() (*Session, error) {
	var creds domain.Credentials
	if _, err := rand.Read(creds.Secret[:]); err != nil {
		return nil, fmt.Errorf("account: generate master secret: %w", err)
	}
	return &Session{creds: creds}, nil
}

// Restore rebuilds a session from a transcribed backup key.
func Restore(backupKey string) (*Session, error) {
	secret, err := backupkey.Decode(backupKey)
	if err != nil {
		return nil, err
	}
	return &Session{creds: domain.Credentials{Secret: secret}}, nil
}

// Credentials returns the session's master secret and token, e.g. for
// handing to the credential store.
func (s *Session) Credentials() (domain.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.Credentials{}, ErrClosed
	}
	return s.creds, nil
}

// DeriveKey derives the working key at path from the master secret.
func (s *Session) DeriveKey(path crypto.Path) (domain.SubKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.SubKey{}, ErrClosed
	}
	return crypto.Derive(s.creds.Secret, path)
}

// BackupKey renders the master secret in its human-transcribable form.
func (s *Session) BackupKey() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}
	return backupkey.Encode(s.creds.Secret), nil
}

// IdentityKeyPair returns the account's long-lived X25519 pair, stable
// across every device holding this master secret.
func (s *Session) IdentityKeyPair() (domain.KeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.KeyPair{}, ErrClosed
	}
	return crypto.DeriveKeyPair(s.creds.Secret, identityPath)
}

// Fingerprint returns a short fingerprint of the account identity key for
// display.
func (s *Session) Fingerprint() (domain.Fingerprint, error) {
	kp, err := s.IdentityKeyPair()
	if err != nil {
		return "", err
	}
	return domain.Fingerprint(crypto.Fingerprint(kp.Pub.Slice())), nil
}

// SealSettings encrypts the synced settings document under the settings
// subkey (wide-nonce box format, shared with the counterpart system).
func (s *Session) SealSettings(plaintext []byte) ([]byte, error) {
	return s.sealAt(settingsPath, plaintext)
}

// OpenSettings decrypts a bundle produced by SealSettings on any device of
// this account.
func (s *Session) OpenSettings(bundle []byte) ([]byte, error) {
	return s.openAt(settingsPath, bundle)
}

// SealArtifact encrypts a local artifact under a key specific to its id.
func (s *Session) SealArtifact(id string, plaintext []byte) ([]byte, error) {
	return s.sealAt(artifactPath(id), plaintext)
}

// OpenArtifact decrypts an artifact bundle produced by SealArtifact.
func (s *Session) OpenArtifact(id string, bundle []byte) ([]byte, error) {
	return s.openAt(artifactPath(id), bundle)
}

// Approve answers a scanned pairing payload by wrapping this account's
// credentials for the requesting device and submitting them.
func (s *Session) Approve(ctx context.Context, api domain.PairingAPI, payload string) error {
	creds, err := s.Credentials()
	if err != nil {
		return err
	}
	return pairing.Approve(ctx, api, payload, creds)
}

// Close wipes the master secret and marks the session unusable. Wiping is
// best effort: the runtime may already hold copies.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	memzero.Zero(s.creds.Secret[:])
	s.creds.Token = ""
	s.closed = true
}

func (s *Session) sealAt(path crypto.Path, plaintext []byte) ([]byte, error) {
	key, err := s.DeriveKey(path)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key[:])
	return crypto.SealBox(key.Slice(), plaintext)
}

func (s *Session) openAt(path crypto.Path, bundle []byte) ([]byte, error) {
	key, err := s.DeriveKey(path)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key[:])
	return crypto.OpenBox(key.Slice(), bundle)
}
