package fast

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/chinmay1088/lumen/errs"
)

// PublicKeySize is the length of an ed25519 public key in bytes.
const PublicKeySize = 32

const (
	// AddressHRP is the human-readable prefix of Fast addresses.
	AddressHRP = "fast"

	// AddressWitnessVersion is the witness version carried in front of
	// the 5-bit key program.
	AddressWitnessVersion = 0
)

// PublicKey is a raw ed25519 public key. Its text form is a bech32m
// address: HRP + witness version + the 32 key bytes.
type PublicKey [PublicKeySize]byte

// Address returns the bech32m text address for the key.
func (p PublicKey) Address() string {
	addr, err := EncodeAddress(p)
	if err != nil {
		// Only reachable with a broken charset table; fall back to hex.
		return AddressHRP + ":" + hex.EncodeToString(p[:])
	}
	return addr
}

// Hex returns the 0x-prefixed hex form of the key.
func (p PublicKey) Hex() string {
	return "0x" + hex.EncodeToString(p[:])
}

// MarshalJSON encodes the key as 0x-prefixed hex for the RPC wire.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Hex())
}

// UnmarshalJSON decodes a 0x-prefixed hex key.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return fmt.Errorf("invalid public key hex: %w", err)
	}
	if len(raw) != PublicKeySize {
		return fmt.Errorf("public key must be %d bytes, got %d", PublicKeySize, len(raw))
	}
	copy(p[:], raw)
	return nil
}

// PublicKeyFromBytes converts a byte slice into a PublicKey.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var p PublicKey
	if len(b) != PublicKeySize {
		return p, errs.New(errs.InvalidInput, ChainName, fmt.Sprintf("public key must be %d bytes, got %d", PublicKeySize, len(b)))
	}
	copy(p[:], b)
	return p, nil
}

// EncodeAddress encodes a raw public key as a checksummed bech32m address.
// Deterministic for well-formed input.
func EncodeAddress(pub PublicKey) (string, error) {
	conv, err := bech32.ConvertBits(pub[:], 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("failed to regroup key bits: %w", err)
	}
	data := append([]byte{AddressWitnessVersion}, conv...)
	addr, err := bech32.EncodeM(AddressHRP, data)
	if err != nil {
		return "", fmt.Errorf("failed to encode address: %w", err)
	}
	return addr, nil
}

// DecodeAddress decodes a Fast address back into the raw public key.
// Fails for a malformed checksum, a wrong prefix, a wrong witness version,
// or a wrong decoded length.
func DecodeAddress(addr string) (PublicKey, error) {
	var pub PublicKey

	hrp, data, version, err := bech32.DecodeGeneric(addr)
	if err != nil {
		return pub, errs.New(errs.InvalidInput, ChainName, "malformed address: "+err.Error())
	}
	if version != bech32.VersionM {
		return pub, errs.New(errs.InvalidInput, ChainName, "address has a bech32 checksum, expected bech32m")
	}
	if hrp != AddressHRP {
		return pub, errs.New(errs.InvalidInput, ChainName, "wrong address prefix: "+hrp)
	}
	if len(data) < 1 || data[0] != AddressWitnessVersion {
		return pub, errs.New(errs.InvalidInput, ChainName, "unsupported witness version")
	}

	raw, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return pub, errs.New(errs.InvalidInput, ChainName, "malformed address payload: "+err.Error())
	}
	if len(raw) != PublicKeySize {
		return pub, errs.New(errs.InvalidInput, ChainName, fmt.Sprintf("address payload must be %d bytes, got %d", PublicKeySize, len(raw)))
	}

	copy(pub[:], raw)
	return pub, nil
}
