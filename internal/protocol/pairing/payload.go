package pairing

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/denysvitali/trustcore/internal/domain"
)

// Link payload layout: trustcore://pair?pk=<base64url public key>.
const (
	payloadScheme = "trustcore"
	payloadHost   = "pair"
	payloadParam  = "pk"
)

// ErrBadPayload is returned when a scanned or pasted link payload cannot be
// parsed into a requester public key.
var ErrBadPayload = errors.New("pairing: malformed link payload")

// BuildPayload returns the URI the requesting device renders as a QR code or
// shares as a link.
func BuildPayload(pub domain.X25519Public) string {
	return payloadScheme + "://" + payloadHost + "?" + payloadParam + "=" +
		base64.RawURLEncoding.EncodeToString(pub[:])
}

// ParsePayload extracts the requester public key from a scanned payload.
func ParsePayload(s string) (domain.X25519Public, error) {
	var pub domain.X25519Public

	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return pub, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if u.Scheme != payloadScheme || u.Host != payloadHost {
		return pub, fmt.Errorf("%w: not a %s:// link", ErrBadPayload, payloadScheme)
	}
	enc := u.Query().Get(payloadParam)
	if enc == "" {
		return pub, fmt.Errorf("%w: missing %s parameter", ErrBadPayload, payloadParam)
	}
	raw, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return pub, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if len(raw) != len(pub) {
		return pub, fmt.Errorf("%w: key is %d bytes, want %d", ErrBadPayload, len(raw), len(pub))
	}
	copy(pub[:], raw)
	return pub, nil
}
