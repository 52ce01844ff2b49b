package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chinmay1088/lumen/registry"
	"github.com/chinmay1088/lumen/wallet"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [address]",
	Short: "List Fast ledger tokens held by an account",
	Long: `List every token an account holds on the Fast ledger, including
the native FAST balance. Without an address argument your own wallet is
queried.

Examples:
  lumen tokens                  # List your own tokens
  lumen tokens fast1qxy2...     # List another account's tokens`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokens,
}

func runTokens(cmd *cobra.Command, args []string) error {
	manager := wallet.NewManager()

	if !manager.IsUnlocked() {
		return fmt.Errorf("wallet is locked. Run 'lumen unlock' first")
	}

	reg := registry.New(manager)
	adapter, err := reg.Get("fast")
	if err != nil {
		return err
	}

	address := ""
	if len(args) == 1 {
		address = args[0]
	} else {
		address, err = adapter.SetupWallet()
		if err != nil {
			return fmt.Errorf("failed to get wallet address: %w", err)
		}
	}

	tokens, err := adapter.OwnedTokens(context.Background(), address)
	if err != nil {
		return fmt.Errorf("failed to list tokens: %w", err)
	}

	fmt.Println("🪙 Token Holdings")
	fmt.Printf("   📍 Address: %s\n", address)
	fmt.Println()

	for _, t := range tokens {
		fmt.Printf("   %s: %s\n", t.Symbol, t.Balance)
		if t.Symbol != t.Address {
			fmt.Printf("      id: %s\n", t.Address)
		}
	}

	return nil
}
