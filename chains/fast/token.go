package fast

import (
	"encoding/hex"
	"strings"

	"github.com/chinmay1088/lumen/errs"
)

// TokenIDSize is the length of a token id in bytes.
const TokenIDSize = 32

// TokenID identifies a token on the Fast ledger. The native token uses a
// reserved value: the 4-byte ASCII marker "FAST" followed by 28 zero bytes.
// Every other id is an opaque 32-byte value.
type TokenID [TokenIDSize]byte

// NativeTokenSymbol is the display symbol of the native token.
const NativeTokenSymbol = "FAST"

// NativeTokenDecimals is the number of base-unit decimals of the native token.
const NativeTokenDecimals = 18

var nativeMarker = [4]byte{'F', 'A', 'S', 'T'}

// NativeTokenID returns the reserved native token id.
func NativeTokenID() TokenID {
	var id TokenID
	copy(id[:4], nativeMarker[:])
	return id
}

// IsNative reports whether the id is the reserved native token id.
func (t TokenID) IsNative() bool {
	return t == NativeTokenID()
}

// Hex returns the 0x-prefixed hex form of the id.
func (t TokenID) Hex() string {
	return "0x" + hex.EncodeToString(t[:])
}

// Equal compares two ids byte-wise. Kept as a method for call sites that
// hold ids as slices off the wire; see TokenIDFromBytes.
func (t TokenID) Equal(other TokenID) bool {
	return t == other
}

// TokenIDFromBytes converts a wire byte slice into a TokenID. The length
// must be exactly TokenIDSize.
func TokenIDFromBytes(b []byte) (TokenID, error) {
	var id TokenID
	if len(b) != TokenIDSize {
		return id, errs.New(errs.InvalidInput, ChainName, "token id must be 32 bytes")
	}
	copy(id[:], b)
	return id, nil
}

// ParseTokenID interprets a hex string (optionally 0x-prefixed) as a
// big-endian byte string and left-aligns it into a 32-byte id, padding
// with trailing zero bytes. "0x0102" becomes 01 02 00 ... 00, not
// 00 ... 00 01 02. The native token marker depends on this alignment.
func ParseTokenID(s string) (TokenID, error) {
	var id TokenID

	h := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if h == "" {
		return id, errs.New(errs.InvalidInput, ChainName, "empty token id")
	}
	if len(h)%2 != 0 {
		h = "0" + h
	}

	raw, err := hex.DecodeString(h)
	if err != nil {
		return id, errs.New(errs.InvalidInput, ChainName, "token id is not valid hex: "+s)
	}
	if len(raw) > TokenIDSize {
		return id, errs.New(errs.InvalidInput, ChainName, "token id longer than 32 bytes")
	}

	copy(id[:], raw)
	return id, nil
}

// looksLikeTokenID reports whether s plausibly names a token by hex id.
func looksLikeTokenID(s string) bool {
	h := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if h == "" {
		return false
	}
	for _, c := range h {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
