// Package backupkey encodes the account master secret as a human-writable
// string and decodes it back, tolerating the transcription mistakes people
// actually make.
package backupkey

import (
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/denysvitali/trustcore/internal/domain"
)

// Crockford's base32 alphabet. I, L, O and U are excluded because they are
// easily confused with 1, 1, 0 and V when read back from paper.
const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// groupSize is the number of characters between dashes in the rendered key.
// 32 bytes encode to 52 characters, so a key is 13 groups of 4.
const groupSize = 4

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

var (
	// ErrInvalidCharacter is returned when the input contains a character
	// outside the alphabet that no normalization rule can repair.
	ErrInvalidCharacter = errors.New("backupkey: invalid character")
	// ErrInvalidLength is returned when the input does not decode to
	// exactly 32 bytes.
	ErrInvalidLength = errors.New("backupkey: decoded key is not 32 bytes")
)

// Encode renders the master secret as an upper-case, dash-grouped Crockford
// base32 string, e.g. "0A1B-2C3D-...". This is the only form of the secret a
// human is ever asked to transcribe.
func Encode(secret domain.MasterSecret) string {
	raw := encoding.EncodeToString(secret[:])
	var b strings.Builder
	b.Grow(len(raw) + len(raw)/groupSize)
	for i := 0; i < len(raw); i += groupSize {
		if i > 0 {
			b.WriteByte('-')
		}
		end := i + groupSize
		if end > len(raw) {
			end = len(raw)
		}
		b.WriteString(raw[i:end])
	}
	return b.String()
}

// Decode parses a transcribed backup key back into the master secret.
//
// It strips whitespace and group separators, upper-cases the input, and
// normalizes the Crockford ambiguities (O to 0, I and L to 1) before
// decoding. Anything else outside the alphabet, or a result that is not
// exactly 32 bytes, is an error. Decode never panics on garbage input.
func Decode(input string) (domain.MasterSecret, error) {
	var secret domain.MasterSecret

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range strings.ToUpper(input) {
		switch {
		case r == '-' || unicode.IsSpace(r):
			// group separators and stray whitespace
		case r == 'O':
			b.WriteByte('0')
		case r == 'I', r == 'L':
			b.WriteByte('1')
		case r < 128 && strings.ContainsRune(alphabet, r):
			b.WriteByte(byte(r))
		default:
			return secret, fmt.Errorf("%w: %q", ErrInvalidCharacter, r)
		}
	}

	raw, err := encoding.DecodeString(b.String())
	if err != nil {
		return secret, fmt.Errorf("backupkey: %w", err)
	}
	if len(raw) != len(secret) {
		return secret, ErrInvalidLength
	}
	copy(secret[:], raw)
	return secret, nil
}
