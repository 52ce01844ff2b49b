package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chinmay1088/lumen/registry"
	"github.com/chinmay1088/lumen/wallet"
)

var signCmd = &cobra.Command{
	Use:   "sign [message]",
	Short: "Sign a message with your Fast ledger key",
	Long: `Sign an arbitrary message with your Fast ledger key. The signature
proves address ownership without building a transaction.

Example:
  lumen sign "I own this address"`,
	Args: cobra.ExactArgs(1),
	RunE: runSign,
}

var verifyCmd = &cobra.Command{
	Use:   "verify [address] [message] [signature]",
	Short: "Verify a signed message against a Fast ledger address",
	Long: `Verify that a hex signature covers a message for the owner of a
Fast ledger address. Verification needs no wallet and works offline.

Example:
  lumen verify fast1qxy2... "I own this address" 0xdeadbeef...`,
	Args: cobra.ExactArgs(3),
	RunE: runVerify,
}

func runSign(cmd *cobra.Command, args []string) error {
	manager := wallet.NewManager()

	if !manager.IsUnlocked() {
		return fmt.Errorf("wallet is locked. Run 'lumen unlock' first")
	}

	reg := registry.New(manager)
	adapter, err := reg.Get("fast")
	if err != nil {
		return err
	}

	address, err := adapter.SetupWallet()
	if err != nil {
		return fmt.Errorf("failed to get wallet address: %w", err)
	}

	sig, err := adapter.SignMessage([]byte(args[0]))
	if err != nil {
		return fmt.Errorf("failed to sign message: %w", err)
	}

	fmt.Println("✍️  Message signed")
	fmt.Printf("   📍 Address:   %s\n", address)
	fmt.Printf("   📝 Signature: 0x%s\n", hex.EncodeToString(sig))

	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	address := args[0]
	message := args[1]
	sigHex := strings.TrimPrefix(args[2], "0x")

	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return fmt.Errorf("invalid signature hex: %w", err)
	}

	// Verification is stateless; no unlocked wallet needed
	reg := registry.New(wallet.NewManager())
	adapter, err := reg.Get("fast")
	if err != nil {
		return err
	}

	if adapter.VerifyMessage(address, []byte(message), sig) {
		fmt.Println("✅ Signature is valid")
		return nil
	}

	fmt.Println("❌ Signature is NOT valid")
	return nil
}
