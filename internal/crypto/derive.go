package crypto

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"

	"golang.org/x/crypto/curve25519"

	"github.com/denysvitali/trustcore/internal/domain"
	"github.com/denysvitali/trustcore/internal/util/memzero"
)

// Segment serialization is domain-separated by a leading type byte so a
// text segment can never collide with an index segment.
const (
	segTagText  = 0x00
	segTagIndex = 0x01
)

var (
	// ErrEmptyPath is returned when a derivation path has no segments.
	ErrEmptyPath = errors.New("crypto: empty derivation path")
	// ErrEmptySegment is returned when a text segment is the empty string.
	ErrEmptySegment = errors.New("crypto: empty path segment")
)

// Segment is one element of a derivation path, either a text label or a
// numeric index.
type Segment struct {
	text    string
	index   uint32
	isIndex bool
}

// Text returns a text path segment.
func Text(s string) Segment { return Segment{text: s} }

// Index returns a numeric path segment.
func Index(n uint32) Segment { return Segment{index: n, isIndex: true} }

// Path identifies a sub-purpose for a derived key, e.g.
// Path{Text("account"), Text("settings")}.
type Path []Segment

// Derive computes the subkey for path from the master secret.
//
// Derivation is an iterative HMAC-SHA512 chain: the chain key starts as the
// master secret and, for each segment, becomes the first 32 bytes of
// HMAC-SHA512(chainKey, serialize(segment)). The final chain key is the
// output. Same inputs always yield the same key; distinct paths yield
// independent keys.
func Derive(secret domain.MasterSecret, path Path) (domain.SubKey, error) {
	var out domain.SubKey
	if len(path) == 0 {
		return out, ErrEmptyPath
	}

	chain := make([]byte, len(secret))
	copy(chain, secret[:])
	defer memzero.Zero(chain)

	for _, seg := range path {
		msg, err := seg.serialize()
		if err != nil {
			return out, err
		}
		mac := hmac.New(sha512.New, chain)
		mac.Write(msg)
		sum := mac.Sum(nil)
		copy(chain, sum[:len(chain)])
		memzero.Zero(sum)
	}

	copy(out[:], chain)
	return out, nil
}

// DeriveKeyPair derives the X25519 key pair rooted at path. The derived
// subkey is clamped per RFC 7748 and used as the private scalar, so the
// pair is stable across devices holding the same master secret.
func DeriveKeyPair(secret domain.MasterSecret, path Path) (domain.KeyPair, error) {
	sub, err := Derive(secret, path)
	if err != nil {
		return domain.KeyPair{}, err
	}

	var priv domain.X25519Private
	copy(priv[:], sub[:])
	memzero.Zero(sub[:])
	clamp(&priv)

	pb, err := curve25519.X25519(priv.Slice(), curve25519.Basepoint)
	if err != nil {
		return domain.KeyPair{}, err
	}
	var pub domain.X25519Public
	copy(pub[:], pb)
	return domain.KeyPair{Pub: pub, Priv: priv}, nil
}

func (s Segment) serialize() ([]byte, error) {
	if s.isIndex {
		b := make([]byte, 5)
		b[0] = segTagIndex
		binary.BigEndian.PutUint32(b[1:], s.index)
		return b, nil
	}
	if s.text == "" {
		return nil, ErrEmptySegment
	}
	b := make([]byte, 1+len(s.text))
	b[0] = segTagText
	copy(b[1:], s.text)
	return b, nil
}
