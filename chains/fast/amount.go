package fast

import (
	"strings"

	"github.com/holiman/uint256"

	"github.com/chinmay1088/lumen/errs"
)

// Amounts on the Fast ledger are unsigned 256-bit integers. The wire and
// query layers use hex strings, humans see decimal strings; both
// conversions are lossless across the full 256-bit range.

// AmountFromHex parses a hex amount string (optionally 0x-prefixed).
// Zero-padded forms like "0x00" or "0x0de0..." are accepted: servers are
// free to pad balances to a fixed width.
func AmountFromHex(s string) (*uint256.Int, error) {
	h := strings.ToLower(s)
	h = strings.TrimPrefix(h, "0x")
	if trimmed := strings.TrimLeft(h, "0"); trimmed != "" {
		h = trimmed
	} else if h != "" {
		h = "0"
	}
	a, err := uint256.FromHex("0x" + h)
	if err != nil {
		return nil, errs.New(errs.InvalidInput, ChainName, "invalid hex amount: "+s)
	}
	return a, nil
}

// AmountFromDecimal parses a decimal amount string.
func AmountFromDecimal(s string) (*uint256.Int, error) {
	a, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errs.New(errs.InvalidInput, ChainName, "invalid decimal amount: "+s)
	}
	return a, nil
}

// AmountToHex formats an amount as a minimal 0x-prefixed hex string.
func AmountToHex(a *uint256.Int) string {
	if a == nil {
		return "0x0"
	}
	return a.Hex()
}

// AmountToDecimal formats an amount as a decimal string.
func AmountToDecimal(a *uint256.Int) string {
	if a == nil {
		return "0"
	}
	return a.Dec()
}
