// Package store persists the account credentials at rest.
//
// The master secret and session token are serialized to JSON and sealed in a
// passphrase-encrypted envelope (scrypt key derivation, XChaCha20-Poly1305,
// KDF parameters recorded in the blob). Files are written with 0600 modes
// via a temp file and rename so a crash never leaves a partial blob.
package store
