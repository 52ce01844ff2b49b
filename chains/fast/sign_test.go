package fast

import (
	"bytes"
	"strings"
	"testing"

	"github.com/holiman/uint256"
)

func testKeyPair(fill byte) KeyPair {
	var seed [PrivateKeySize]byte
	for i := range seed {
		seed[i] = fill
	}
	return KeyPairFromSeed(seed)
}

func TestKeyPairFromSeedDeterministic(t *testing.T) {
	a := testKeyPair(0x55)
	b := testKeyPair(0x55)
	if a.Public != b.Public {
		t.Error("same seed produced different public keys")
	}
	c := testKeyPair(0x56)
	if a.Public == c.Public {
		t.Error("different seeds produced the same public key")
	}
}

func TestSigningBytesDomainPrefix(t *testing.T) {
	msg, err := SigningBytes(testTx())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(msg), SigningDomain) {
		t.Errorf("signing bytes do not start with %q", SigningDomain)
	}

	enc, err := EncodeTransaction(testTx())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(msg[len(SigningDomain):], enc) {
		t.Error("signing bytes after the domain differ from the canonical encoding")
	}
}

func TestSignTransactionVerifies(t *testing.T) {
	kp := testKeyPair(0x31)
	tx := testTx()
	tx.Sender = kp.Public

	sig, err := SignTransaction(tx, kp)
	if err != nil {
		t.Fatal(err)
	}

	msg, err := SigningBytes(tx)
	if err != nil {
		t.Fatal(err)
	}

	if !Verify(kp.Public[:], msg, sig[:]) {
		t.Error("valid signature did not verify")
	}

	// Without the domain the signature must not verify.
	enc, _ := EncodeTransaction(tx)
	if Verify(kp.Public[:], enc, sig[:]) {
		t.Error("signature verified against undomained encoding")
	}

	// A different signer must not verify.
	other := testKeyPair(0x32)
	if Verify(other.Public[:], msg, sig[:]) {
		t.Error("signature verified under the wrong key")
	}
}

func TestSignAndVerifyMessage(t *testing.T) {
	kp := testKeyPair(0x99)
	msg := []byte("proof of ownership")

	sig := Sign(msg, kp)
	if !Verify(kp.Public[:], msg, sig[:]) {
		t.Error("message signature did not verify")
	}
	if Verify(kp.Public[:], []byte("other message"), sig[:]) {
		t.Error("signature verified for a different message")
	}
}

func TestVerifyMalformedInput(t *testing.T) {
	kp := testKeyPair(0x10)
	msg := []byte("hello")
	sig := Sign(msg, kp)

	// Wrong lengths must verify false, not panic.
	if Verify(kp.Public[:31], msg, sig[:]) {
		t.Error("short public key verified")
	}
	if Verify(kp.Public[:], msg, sig[:63]) {
		t.Error("short signature verified")
	}
	if Verify(nil, msg, nil) {
		t.Error("nil inputs verified")
	}
}

func TestHashTransaction(t *testing.T) {
	tx := testTx()
	h1, err := HashTransaction(tx)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashTransaction(tx)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Error("hashing the same transaction twice differs")
	}

	tx.Nonce++
	h3, err := HashTransaction(tx)
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h3 {
		t.Error("nonce change did not change the hash")
	}

	tx.Nonce--
	tx.Claim.(*TokenTransfer).Amount = uint256.NewInt(999)
	h4, err := HashTransaction(tx)
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h4 {
		t.Error("amount change did not change the hash")
	}
}

func TestTxHashHex(t *testing.T) {
	var id [TxHashSize]byte
	id[0] = 0xab
	got := TxHashHex(id)
	if !strings.HasPrefix(got, "0xab") {
		t.Errorf("TxHashHex = %q, want 0xab... prefix", got)
	}
	if len(got) != 2+2*TxHashSize {
		t.Errorf("TxHashHex length = %d, want %d", len(got), 2+2*TxHashSize)
	}
}
