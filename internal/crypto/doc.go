// Package crypto exposes the primitives of the trust core.
//
// Contents
//
//   - Path-based subkey derivation from the account master secret
//     (Derive, DeriveKeyPair)
//   - Compact symmetric AEAD with a 12-byte nonce, wire-compatible with the
//     sibling client's encryption library (Seal, Open)
//   - Wide-nonce symmetric encryption over NaCl secretbox (SealBox, OpenBox)
//   - Anonymous-sender public-key encryption with a per-call ephemeral key
//     (SealAnonymous, OpenAnonymous)
//   - X25519 key generation and clamping (GenerateX25519)
//   - Short public-key fingerprints for display (Fingerprint)
//
// # Notes
//
// All functions are pure and safe for concurrent use. They return fixed-size
// array types defined in internal/domain to avoid accidental reallocations.
// Callers should treat returned secrets as sensitive and rely on
// memzero.Zero when practical to reduce lifetime in memory; Go's runtime
// cannot guarantee secure wiping, so this is best effort.
//
// The two symmetric formats (Seal and SealBox) target two different external
// wire contracts and must not be merged: the 12-byte-nonce format matches
// the sibling client's AEAD library, the 24-byte-nonce format matches its
// TweetNaCl secretbox usage.
package crypto
