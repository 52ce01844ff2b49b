package cmd

import (
	"fmt"
	"strings"

	"github.com/chinmay1088/lumen/registry"
	"github.com/chinmay1088/lumen/wallet"
	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address [chain]",
	Short: "Show wallet address",
	Long: `Show your wallet address for the specified blockchain.
Supported chains: fast, eth, btc, sol

Examples:
  lumen address fast    # Show Fast ledger address
  lumen address eth     # Show Ethereum address
  lumen address btc     # Show Bitcoin address
  lumen address sol     # Show Solana address
  lumen address         # Show all addresses`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAddress,
}

func runAddress(cmd *cobra.Command, args []string) error {
	manager := wallet.NewManager()

	// Check if wallet is unlocked
	if !manager.IsUnlocked() {
		return fmt.Errorf("wallet is locked. Run 'lumen unlock' first")
	}

	reg := registry.New(manager)

	// If no chain specified, show all addresses
	if len(args) == 0 {
		return showAllAddresses(manager, reg)
	}

	// Show specific chain address
	chain := strings.ToLower(args[0])
	return showChainAddress(manager, reg, chain)
}

func chainAddress(reg *registry.Registry, chain string) (string, error) {
	adapter, err := reg.Get(chain)
	if err != nil {
		return "", err
	}
	return adapter.SetupWallet()
}

func showAllAddresses(manager *wallet.Manager, reg *registry.Registry) error {
	fmt.Println("🔑 Your wallet addresses:")

	// Display network information
	networkType := "Mainnet"
	if manager.IsTestnet() {
		networkType = "Testnet"
	}
	fmt.Printf("🌐 Network: %s\n", networkType)
	fmt.Println()

	// Fast ledger address
	fastAddress, err := chainAddress(reg, "fast")
	if err != nil {
		return fmt.Errorf("failed to get Fast address: %w", err)
	}
	if manager.IsTestnet() {
		fmt.Printf("Fast (FAST - Testnet): %s\n", fastAddress)
	} else {
		fmt.Printf("Fast (FAST): %s\n", fastAddress)
	}

	// Ethereum address
	ethAddress, err := chainAddress(reg, "eth")
	if err != nil {
		return fmt.Errorf("failed to get Ethereum address: %w", err)
	}
	if manager.IsTestnet() {
		fmt.Printf("Ethereum (ETH - Sepolia): %s\n", ethAddress)
	} else {
		fmt.Printf("Ethereum (ETH): %s\n", ethAddress)
	}

	// Bitcoin address - only on mainnet
	if !manager.IsTestnet() {
		btcAddress, err := chainAddress(reg, "btc")
		if err != nil {
			return fmt.Errorf("failed to get Bitcoin address: %w", err)
		}
		fmt.Printf("Bitcoin (BTC):  %s\n", btcAddress)
	} else {
		fmt.Println("Bitcoin (BTC):  Not supported in testnet mode")
	}

	// Solana address
	solAddress, err := chainAddress(reg, "sol")
	if err != nil {
		return fmt.Errorf("failed to get Solana address: %w", err)
	}
	if manager.IsTestnet() {
		fmt.Printf("Solana (SOL - Devnet): %s\n", solAddress)
		fmt.Println("   📝 Note: Solana addresses need to be initialized by receiving SOL first.")
	} else {
		fmt.Printf("Solana (SOL): %s\n", solAddress)
	}

	return nil
}

func showChainAddress(manager *wallet.Manager, reg *registry.Registry, chain string) error {
	// Display network information
	networkType := "Mainnet"
	if manager.IsTestnet() {
		networkType = "Testnet"
	}
	fmt.Printf("🌐 Network: %s\n\n", networkType)

	if (chain == "btc" || chain == "bitcoin") && manager.IsTestnet() {
		fmt.Println("Bitcoin (BTC): Not supported in testnet mode")
		return nil
	}

	address, err := chainAddress(reg, chain)
	if err != nil {
		return fmt.Errorf("failed to get %s address: %w", chain, err)
	}

	switch chain {
	case "fast":
		fmt.Printf("Fast (FAST): %s\n", address)
	case "eth", "ethereum":
		fmt.Printf("Ethereum (ETH): %s\n", address)
	case "btc", "bitcoin":
		fmt.Printf("Bitcoin (BTC): %s\n", address)
	case "sol", "solana":
		fmt.Printf("Solana (SOL): %s\n", address)
	default:
		fmt.Println(address)
	}

	return nil
}
