package types

// X25519Public is a Curve25519 public key.
type X25519Public [32]byte

// Slice returns the key as a []byte.
func (p X25519Public) Slice() []byte { return p[:] }

// X25519Private is a Curve25519 private key.
type X25519Private [32]byte

// Slice returns the key as a []byte.
func (k X25519Private) Slice() []byte { return k[:] }

// KeyPair bundles an X25519 scalar with its public point. Ephemeral pairs
// are generated fresh per linking attempt and discarded after one use;
// the long-lived account pair is derived from the master secret.
type KeyPair struct {
	Pub  X25519Public
	Priv X25519Private
}
