package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/lumen/api"
)

// Network type constants
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

var networkCmd = &cobra.Command{
	Use:   "network [mainnet|testnet]",
	Short: "Show or change network",
	Long: `Show the current network or switch between mainnet and testnet.

Fast (testnet), Ethereum (Sepolia), and Solana devnet are supported.
Bitcoin is only supported on mainnet.

Examples:
  lumen network            # Show current network
  lumen network mainnet    # Switch to mainnet
  lumen network testnet    # Switch to testnet
  lumen network rpc fast https://my-node:8545  # Override an RPC endpoint
  lumen network rpc fast                       # Clear an override`,
	Args: cobra.MaximumNArgs(3),
	RunE: runNetwork,
}

func runNetwork(cmd *cobra.Command, args []string) error {
	// If no arguments provided, show current network
	if len(args) == 0 {
		return showCurrentNetwork()
	}

	if strings.ToLower(args[0]) == "rpc" {
		return runNetworkRPC(args[1:])
	}

	network := strings.ToLower(args[0])

	// Validate network argument
	if network != NetworkMainnet && network != NetworkTestnet {
		return fmt.Errorf("invalid network: %s. Use 'mainnet' or 'testnet'", network)
	}

	// Set the network
	return setNetwork(network)
}

// runNetworkRPC manages per-chain endpoint overrides for the current
// network. Adapters read overrides at construction, so a running process
// must rebuild its registry (the CLI builds one per invocation anyway).
func runNetworkRPC(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: lumen network rpc <chain> [url]")
	}

	chain := strings.ToLower(args[0])
	switch chain {
	case "fast", "eth", "btc", "sol":
	default:
		return fmt.Errorf("unknown chain: %s. Supported chains: fast, eth, btc, sol", chain)
	}

	network, err := getCurrentNetwork()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		if current := api.EndpointOverride(chain, network); current != "" {
			if err := api.SaveEndpointOverride(chain, network, ""); err != nil {
				return fmt.Errorf("failed to clear override: %w", err)
			}
			fmt.Printf("🌐 Cleared %s RPC override on %s (was %s)\n", chain, network, current)
		} else {
			fmt.Printf("🌐 No %s RPC override set on %s\n", chain, network)
		}
		return nil
	}

	url := args[1]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("invalid RPC URL: %s", url)
	}

	if err := api.SaveEndpointOverride(chain, network, url); err != nil {
		return fmt.Errorf("failed to save override: %w", err)
	}

	fmt.Printf("🌐 %s RPC on %s now points to %s\n", chain, network, url)
	return nil
}

func showCurrentNetwork() error {
	network, err := getCurrentNetwork()
	if err != nil {
		return err
	}

	if network == NetworkMainnet {
		fmt.Printf("🌐 Current network: %s\n", color.GreenString("Mainnet"))
		fmt.Println()
		fmt.Println("Network details:")
		fmt.Println("   - Fast: Mainnet")
		fmt.Println("   - Ethereum: Mainnet")
		fmt.Println("   - Bitcoin: Mainnet")
		fmt.Println("   - Solana: Mainnet")
		fmt.Println("💡 Lumen uses different wallets per network for your safety")
		fmt.Println("🔐 Your mainnet and testnet addresses are all separate")
	} else {
		fmt.Printf("🌐 Current network: %s\n", color.YellowString("Testnet"))
		fmt.Println()
		fmt.Println("Network details:")
		fmt.Println("   - Fast: Testnet (faucet available)")
		fmt.Println("   - Ethereum: Sepolia")
		fmt.Printf("   - Bitcoin: %s\n", color.RedString("Not supported"))
		fmt.Println("   - Solana: Devnet")
		fmt.Println()
		fmt.Println("⚠️  Warning: Bitcoin is not supported in testnet mode")
		fmt.Println("💡 Lumen uses different wallets per network for your safety")
		fmt.Println("🔐 Your mainnet and testnet addresses are all separate")
	}

	return nil
}

func setNetwork(network string) error {
	// Get home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	// Create .lumen directory if it doesn't exist
	configDir := filepath.Join(homeDir, ".lumen")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write network to network.txt file
	networkPath := filepath.Join(configDir, "network.txt")
	if err := os.WriteFile(networkPath, []byte(network), 0600); err != nil {
		return fmt.Errorf("failed to write network file: %w", err)
	}

	fmt.Printf("🌐 Switched to %s network\n", strings.ToUpper(network))

	if network == NetworkTestnet {
		fmt.Println()
		fmt.Println("⚠️  You are now on TESTNET mode")
		fmt.Println("   - Fast: Testnet (use 'lumen faucet' for test funds)")
		fmt.Println("   - Ethereum: Sepolia Testnet")
		fmt.Println("   - Solana: Devnet")
		fmt.Println("   - Bitcoin: Not supported in testnet mode")
		fmt.Println()
		fmt.Println("💡 Lumen uses different wallets per network for your safety")
		fmt.Println("🔐 Your mainnet and testnet addresses are all separate")
	} else {
		fmt.Println()
		fmt.Println("✅ You are now on MAINNET mode")
		fmt.Println("   All features except the faucet are available in mainnet mode")
		fmt.Println("💡 Lumen uses different wallets per network for your safety")
		fmt.Println("🔐 Your mainnet and testnet addresses are all separate")
	}

	return nil
}

// getCurrentNetwork returns the current network (mainnet or testnet)
func getCurrentNetwork() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return NetworkMainnet, nil // Default to mainnet on error
	}

	networkPath := filepath.Join(homeDir, ".lumen", "network.txt")

	// Check if network file exists
	if _, err := os.Stat(networkPath); os.IsNotExist(err) {
		// File doesn't exist, default to mainnet
		return NetworkMainnet, nil
	}

	// Read network from file
	data, err := os.ReadFile(networkPath)
	if err != nil {
		// Error reading file, default to mainnet
		return NetworkMainnet, nil
	}

	network := strings.TrimSpace(string(data))

	// Validate network
	if network != NetworkMainnet && network != NetworkTestnet {
		// Invalid network, default to mainnet
		return NetworkMainnet, nil
	}

	return network, nil
}
