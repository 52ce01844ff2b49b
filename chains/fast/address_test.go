package fast

import (
	"strings"
	"testing"

	"github.com/chinmay1088/lumen/errs"
)

func testKey(fill byte) PublicKey {
	var p PublicKey
	for i := range p {
		p[i] = fill
	}
	return p
}

func TestAddressRoundTrip(t *testing.T) {
	keys := []PublicKey{
		{},
		testKey(0x01),
		testKey(0xff),
		{0xde, 0xad, 0xbe, 0xef},
	}

	for _, pub := range keys {
		addr, err := EncodeAddress(pub)
		if err != nil {
			t.Fatalf("EncodeAddress(%x): %v", pub[:4], err)
		}
		if !strings.HasPrefix(addr, AddressHRP+"1") {
			t.Errorf("address %q does not start with %q", addr, AddressHRP+"1")
		}

		decoded, err := DecodeAddress(addr)
		if err != nil {
			t.Fatalf("DecodeAddress(%q): %v", addr, err)
		}
		if decoded != pub {
			t.Errorf("round trip changed key: got %x, want %x", decoded[:], pub[:])
		}
	}
}

func TestEncodeAddressDeterministic(t *testing.T) {
	pub := testKey(0x42)
	a1, err := EncodeAddress(pub)
	if err != nil {
		t.Fatal(err)
	}
	a2, err := EncodeAddress(pub)
	if err != nil {
		t.Fatal(err)
	}
	if a1 != a2 {
		t.Errorf("encoding is not deterministic: %q vs %q", a1, a2)
	}
}

func TestDecodeAddressRejectsCorruption(t *testing.T) {
	addr, err := EncodeAddress(testKey(0x07))
	if err != nil {
		t.Fatal(err)
	}

	// Flip one data character; the checksum must catch it.
	for i := len(addr) - 1; i > len(AddressHRP); i-- {
		c := addr[i]
		replacement := byte('q')
		if c == 'q' {
			replacement = 'p'
		}
		corrupted := addr[:i] + string(replacement) + addr[i+1:]
		if corrupted == addr {
			continue
		}
		if _, err := DecodeAddress(corrupted); err == nil {
			t.Errorf("corrupted address %q decoded without error", corrupted)
		}
		break
	}
}

func TestDecodeAddressErrors(t *testing.T) {
	valid, err := EncodeAddress(testKey(0x11))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		addr string
	}{
		{"empty", ""},
		{"garbage", "not an address"},
		{"wrong prefix", strings.Replace(valid, AddressHRP+"1", "slow1", 1)},
		{"truncated", valid[:len(valid)-5]},
		{"uppercase mix", strings.ToUpper(valid[:6]) + valid[6:]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAddress(tt.addr)
			if err == nil {
				t.Fatalf("DecodeAddress(%q) succeeded, want error", tt.addr)
			}
			if !errs.Is(err, errs.InvalidInput) {
				t.Errorf("error kind = %v, want InvalidInput", errs.KindOf(err))
			}
		})
	}
}

func TestDecodeAddressRejectsBech32Checksum(t *testing.T) {
	// A classic bech32 (non-m) string with the right HRP must be rejected:
	// same alphabet, different checksum constant.
	const bech32Addr = "fast1qyqszqgpqyqszqgpqyqszqgpqyqszqgpqyqszqgpqyqszqgpqyqs2rlfe4"
	if _, err := DecodeAddress(bech32Addr); err == nil {
		t.Fatal("address with bech32 checksum decoded without error")
	}
}

func TestPublicKeyFromBytes(t *testing.T) {
	raw := make([]byte, PublicKeySize)
	raw[0] = 0xab
	pub, err := PublicKeyFromBytes(raw)
	if err != nil {
		t.Fatal(err)
	}
	if pub[0] != 0xab {
		t.Errorf("first byte = %x, want ab", pub[0])
	}

	if _, err := PublicKeyFromBytes(raw[:31]); !errs.Is(err, errs.InvalidInput) {
		t.Errorf("short key error kind = %v, want InvalidInput", errs.KindOf(err))
	}
}
