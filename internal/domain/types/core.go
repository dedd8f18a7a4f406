package types

// MasterSecret is the 32-byte account root of trust. It is created once at
// account creation or received once via restore/linking, and only ever leaves
// the device wrapped in an asymmetric bundle or as a backup-key string.
type MasterSecret [32]byte

// Slice returns the secret as a []byte.
func (s MasterSecret) Slice() []byte { return s[:] }

// SubKey is a 32-byte working key derived from the master secret.
type SubKey [32]byte

// Slice returns the key as a []byte.
func (k SubKey) Slice() []byte { return k[:] }

// SessionToken is an opaque credential handed off alongside the master
// secret during device linking.
type SessionToken string

// String returns the string form of the token.
func (t SessionToken) String() string { return string(t) }

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// Credentials is everything the linking protocol hands to a newly joined
// device: the account master secret plus its accompanying session token.
type Credentials struct {
	Secret MasterSecret `json:"secret"`
	Token  SessionToken `json:"token"`
}
