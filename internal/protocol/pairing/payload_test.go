package pairing_test

import (
	"errors"
	"testing"

	"github.com/denysvitali/trustcore/internal/crypto"
	"github.com/denysvitali/trustcore/internal/protocol/pairing"
)

func TestPayload_RoundTrip(t *testing.T) {
	pub, _, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}

	payload := pairing.BuildPayload(pub)
	got, err := pairing.ParsePayload(payload)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if got != pub {
		t.Fatal("public key mismatch after round trip")
	}
}

func TestParsePayload_TrimsSurroundingSpace(t *testing.T) {
	pub, _, err := crypto.GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	got, err := pairing.ParsePayload("  " + pairing.BuildPayload(pub) + "\n")
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if got != pub {
		t.Fatal("public key mismatch")
	}
}

func TestParsePayload_Rejects(t *testing.T) {
	cases := []string{
		"",
		"https://example.com/pair?pk=AAAA",
		"trustcore://other?pk=AAAA",
		"trustcore://pair",
		"trustcore://pair?pk=",
		"trustcore://pair?pk=!!!",
		"trustcore://pair?pk=AAAA", // decodes, but not 32 bytes
	}
	for i, in := range cases {
		if _, err := pairing.ParsePayload(in); !errors.Is(err, pairing.ErrBadPayload) {
			t.Fatalf("case %d (%q): got %v, want ErrBadPayload", i, in, err)
		}
	}
}
