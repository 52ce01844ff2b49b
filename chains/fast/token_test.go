package fast

import (
	"testing"

	"github.com/chinmay1088/lumen/errs"
)

func TestNativeTokenID(t *testing.T) {
	id := NativeTokenID()
	if string(id[:4]) != "FAST" {
		t.Errorf("marker = %q, want FAST", id[:4])
	}
	for i := 4; i < TokenIDSize; i++ {
		if id[i] != 0 {
			t.Errorf("byte %d = %x, want 0", i, id[i])
		}
	}
	if !id.IsNative() {
		t.Error("native id not recognized as native")
	}
}

func TestParseTokenIDAlignment(t *testing.T) {
	// Short ids are left-aligned with trailing zero padding; this is what
	// makes the textual native marker parse back to the reserved id.
	id, err := ParseTokenID("0x0102")
	if err != nil {
		t.Fatal(err)
	}
	if id[0] != 0x01 || id[1] != 0x02 {
		t.Errorf("leading bytes = %x %x, want 01 02", id[0], id[1])
	}
	for i := 2; i < TokenIDSize; i++ {
		if id[i] != 0 {
			t.Fatalf("byte %d = %x, want trailing zero", i, id[i])
		}
	}
}

func TestParseTokenIDNativeMarker(t *testing.T) {
	// "FAST" in hex is 46415354
	id, err := ParseTokenID("0x46415354")
	if err != nil {
		t.Fatal(err)
	}
	if !id.IsNative() {
		t.Error("hex-spelled native marker did not parse to the native id")
	}
}

func TestParseTokenID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"full 32 bytes", "0x" + "ab" + "00000000000000000000000000000000000000000000000000000000000000", false},
		{"no prefix", "deadbeef", false},
		{"odd length gets leading zero", "0xabc", false},
		{"uppercase prefix", "0Xdeadbeef", false},
		{"empty", "", true},
		{"just prefix", "0x", true},
		{"non-hex", "0xzz", true},
		{"too long", "0x" + "00" + "ab" + "00000000000000000000000000000000000000000000000000000000000000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTokenID(tt.in)
			if tt.wantErr {
				if !errs.Is(err, errs.InvalidInput) {
					t.Errorf("ParseTokenID(%q) error = %v, want InvalidInput", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseTokenID(%q): %v", tt.in, err)
			}
		})
	}
}

func TestParseTokenIDOddLength(t *testing.T) {
	// "abc" reads as 0x0abc: the leading zero goes on the front, the
	// padding on the back.
	id, err := ParseTokenID("abc")
	if err != nil {
		t.Fatal(err)
	}
	if id[0] != 0x0a || id[1] != 0xbc {
		t.Errorf("bytes = %x %x, want 0a bc", id[0], id[1])
	}
}

func TestTokenIDFromBytes(t *testing.T) {
	raw := make([]byte, TokenIDSize)
	raw[31] = 0x99
	id, err := TokenIDFromBytes(raw)
	if err != nil {
		t.Fatal(err)
	}
	if id[31] != 0x99 {
		t.Errorf("last byte = %x, want 99", id[31])
	}

	if _, err := TokenIDFromBytes(raw[:16]); !errs.Is(err, errs.InvalidInput) {
		t.Errorf("short id error kind = %v, want InvalidInput", errs.KindOf(err))
	}
}

func TestLooksLikeTokenID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0xdeadbeef", true},
		{"deadbeef", true},
		{"ABCDEF", true},
		{"", false},
		{"0x", false},
		{"mytoken", false},
		{"0xzz", false},
	}
	for _, tt := range tests {
		if got := looksLikeTokenID(tt.in); got != tt.want {
			t.Errorf("looksLikeTokenID(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
