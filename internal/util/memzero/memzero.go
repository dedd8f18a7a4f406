// Package memzero provides best-effort wiping of secret byte slices.
//
// Go's garbage collector may have copied a secret before Zero runs, so this
// reduces the window a secret lives in memory rather than guaranteeing
// erasure. That limitation is inherent to the runtime and is accepted.
package memzero

import "crypto/subtle"

// Zero overwrites b with zeros in a way the compiler will not elide.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}
