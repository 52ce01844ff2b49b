package wallet

import (
	"strings"
	"testing"

	"github.com/chinmay1088/lumen/chains/fast"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/tyler-smith/go-bip39"
)

// Fixed BIP-39 test vector mnemonic (all-zero entropy).
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art"

func TestDeriveFastKeyDeterministic(t *testing.T) {
	seed := bip39.NewSeed(testMnemonic, "")

	a, err := deriveFastKey(seed, FastDerivationPath)
	if err != nil {
		t.Fatal(err)
	}
	b, err := deriveFastKey(seed, FastDerivationPath)
	if err != nil {
		t.Fatal(err)
	}
	if a.Public != b.Public {
		t.Error("same seed and path produced different keys")
	}
}

func TestDeriveFastKeyPathSeparation(t *testing.T) {
	seed := bip39.NewSeed(testMnemonic, "")

	mainnet, err := deriveFastKey(seed, FastDerivationPath)
	if err != nil {
		t.Fatal(err)
	}
	testnet, err := deriveFastKey(seed, FastTestnetDerivationPath)
	if err != nil {
		t.Fatal(err)
	}
	if mainnet.Public == testnet.Public {
		t.Error("mainnet and testnet paths derived the same key")
	}

	// The Fast path must not collide with the Solana key either, even
	// though both chains use the same derivation scheme.
	solKey, err := deriveSolanaKey(seed, SolDerivationPath)
	if err != nil {
		t.Fatal(err)
	}
	var solPub [32]byte
	copy(solPub[:], solKey.PublicKey().Bytes())
	if mainnet.Public == fast.PublicKey(solPub) {
		t.Error("fast and solana paths derived the same key")
	}
}

func TestDeriveFastKeyAddressable(t *testing.T) {
	seed := bip39.NewSeed(testMnemonic, "")

	kp, err := deriveFastKey(seed, FastDerivationPath)
	if err != nil {
		t.Fatal(err)
	}

	addr, err := fast.EncodeAddress(kp.Public)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(addr, "fast1") {
		t.Errorf("derived address %q lacks the fast1 prefix", addr)
	}
}

func TestDeriveEthereumKeyDeterministic(t *testing.T) {
	seed := bip39.NewSeed(testMnemonic, "")

	path, err := accounts.ParseDerivationPath(EthDerivationPath)
	if err != nil {
		t.Fatal(err)
	}

	a, err := deriveEthereumKey(seed, path)
	if err != nil {
		t.Fatal(err)
	}
	b, err := deriveEthereumKey(seed, path)
	if err != nil {
		t.Fatal(err)
	}
	if a.D.Cmp(b.D) != 0 {
		t.Error("same seed and path produced different ethereum keys")
	}
}
