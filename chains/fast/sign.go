package fast

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

const (
	// SigningDomain is the fixed ASCII prefix mixed into every signed
	// transaction. It is deliberately not configurable: dropping or
	// moving it yields a signature the network rejects.
	SigningDomain = "fastnet.tx.v1"

	// PrivateKeySize is the length of an ed25519 seed in bytes.
	PrivateKeySize = 32

	// SignatureSize is the length of an ed25519 signature in bytes.
	SignatureSize = 64

	// TxHashSize is the length of a transaction id in bytes.
	TxHashSize = 32
)

// KeyPair holds raw key material handed in by the keystore for the
// duration of a single signing call. It is passed by value and never
// retained by the protocol client.
type KeyPair struct {
	Public  PublicKey
	Private [PrivateKeySize]byte
}

// KeyPairFromSeed derives the key pair of an ed25519 seed.
func KeyPairFromSeed(seed [PrivateKeySize]byte) KeyPair {
	priv := ed25519.NewKeyFromSeed(seed[:])
	var kp KeyPair
	copy(kp.Public[:], priv.Public().(ed25519.PublicKey))
	kp.Private = seed
	return kp
}

// SigningBytes builds the exact message the network verifies: the domain
// separator concatenated with the canonical transaction encoding.
func SigningBytes(tx *Transaction) ([]byte, error) {
	enc, err := EncodeTransaction(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}
	msg := make([]byte, 0, len(SigningDomain)+len(enc))
	msg = append(msg, SigningDomain...)
	msg = append(msg, enc...)
	return msg, nil
}

// SignTransaction signs the domain-separated canonical encoding of tx.
func SignTransaction(tx *Transaction, kp KeyPair) ([SignatureSize]byte, error) {
	var sig [SignatureSize]byte
	msg, err := SigningBytes(tx)
	if err != nil {
		return sig, err
	}
	priv := ed25519.NewKeyFromSeed(kp.Private[:])
	copy(sig[:], ed25519.Sign(priv, msg))
	return sig, nil
}

// Sign signs an arbitrary message with the seed. Used for the wallet's
// generic message-signing surface, not for transactions.
func Sign(msg []byte, kp KeyPair) [SignatureSize]byte {
	var sig [SignatureSize]byte
	priv := ed25519.NewKeyFromSeed(kp.Private[:])
	copy(sig[:], ed25519.Sign(priv, msg))
	return sig
}

// Verify reports whether sig is a valid signature over msg by pub.
// It never panics: malformed input verifies as false.
func Verify(pub, msg, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), msg, sig)
}

// HashTransaction computes the canonical transaction id: BLAKE3-256 over
// the canonical encoding. Identical transactions hash identically; any
// single-bit field change produces a different id.
func HashTransaction(tx *Transaction) ([TxHashSize]byte, error) {
	var id [TxHashSize]byte
	enc, err := EncodeTransaction(tx)
	if err != nil {
		return id, err
	}
	id = blake3.Sum256(enc)
	return id, nil
}

// TxHashHex formats a transaction id for display.
func TxHashHex(id [TxHashSize]byte) string {
	return "0x" + hex.EncodeToString(id[:])
}
