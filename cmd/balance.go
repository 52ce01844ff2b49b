package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/chinmay1088/lumen/registry"
	"github.com/chinmay1088/lumen/wallet"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [chain]",
	Short: "Check cryptocurrency balances",
	Long: `Check your cryptocurrency balances for supported chains.

Supported chains: fast, eth, btc, sol

Examples:
  lumen balance                  # Check all balances
  lumen balance fast             # Check Fast ledger balance
  lumen balance fast --token 0xabc123...  # Check a custom token balance
  lumen balance eth              # Check Ethereum balance`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBalance,
}

func runBalance(cmd *cobra.Command, args []string) error {
	manager := wallet.NewManager()

	// Check if wallet is unlocked
	if !manager.IsUnlocked() {
		return fmt.Errorf("wallet is locked. Run 'lumen unlock' first")
	}

	token, _ := cmd.Flags().GetString("token")
	reg := registry.New(manager)

	// Determine which chains to check
	var chains []string
	if len(args) == 0 {
		if token != "" {
			return fmt.Errorf("--token requires a chain argument")
		}
		if manager.IsTestnet() {
			// Bitcoin not supported in testnet mode
			chains = []string{"fast", "eth", "sol"}
		} else {
			chains = []string{"fast", "eth", "btc", "sol"}
		}
	} else {
		chain := strings.ToLower(args[0])
		if (chain == "btc" || chain == "bitcoin") && manager.IsTestnet() {
			return fmt.Errorf("bitcoin is not supported in testnet mode")
		}
		chains = []string{chain}
	}

	fmt.Println("💰 Wallet Balances")

	// Display network information
	networkType := "Mainnet"
	if manager.IsTestnet() {
		networkType = "Testnet"
	}
	fmt.Printf("🌐 Network: %s\n", networkType)
	fmt.Println()

	for _, chain := range chains {
		if err := displayBalance(reg, chain, token); err != nil {
			fmt.Printf("❌ %s: Error - %v\n", chainLabel(chain), err)
		}
	}

	return nil
}

func displayBalance(reg *registry.Registry, chain, token string) error {
	adapter, err := reg.Get(chain)
	if err != nil {
		return err
	}

	address, err := adapter.SetupWallet()
	if err != nil {
		return fmt.Errorf("failed to get address: %w", err)
	}

	res, err := adapter.Balance(context.Background(), address, token)
	if err != nil {
		return fmt.Errorf("failed to fetch balance: %w", err)
	}

	fmt.Printf("%s %s: %s %s\n", chainEmoji(chain), chainLabel(chain), res.Amount, res.Token)
	fmt.Printf("   📍 Address: %s\n", address)
	fmt.Println()
	return nil
}

func chainLabel(chain string) string {
	switch chain {
	case "fast":
		return "Fast"
	case "eth", "ethereum":
		return "Ethereum"
	case "btc", "bitcoin":
		return "Bitcoin"
	case "sol", "solana":
		return "Solana"
	default:
		return chain
	}
}

func chainEmoji(chain string) string {
	switch chain {
	case "fast":
		return "⚡"
	case "eth", "ethereum":
		return "🔷"
	case "btc", "bitcoin":
		return "🟠"
	case "sol", "solana":
		return "🟣"
	default:
		return "💠"
	}
}

func init() {
	balanceCmd.Flags().String("token", "", "Token id to query (Fast ledger only)")
}
