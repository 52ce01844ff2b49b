package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chinmay1088/lumen/log"
)

var (
	version = "0.3.1"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "lumen",
	Aliases: []string{"lm"},
	Short:   "A secure command-line multi-chain wallet",
	Long: `Lumen is a secure, deterministic cryptocurrency wallet for the Fast
ledger, Ethereum, Bitcoin, and Solana. It provides local key generation,
encrypted storage, and offline transaction signing.

Features:
  • Fast ledger support: transfers, tokens, faucet, message signing
  • Multi-chain support (FAST, ETH, BTC, SOL)
  • BIP-39 mnemonic generation
  • BIP-44 hierarchical deterministic wallets
  • AES-256-GCM encrypted vault storage
  • Mainnet and Testnet support

Security:
  • All keys generated locally
  • Encrypted vault storage
  • Keys live in memory only while signing
  • No keys transmitted over network

Examples:
  lumen init                      # Create new wallet
  lumen unlock                    # Unlock wallet
  lumen address                   # Show all addresses
  lumen balance fast              # Check Fast ledger balance
  lumen pay fast 1.5 fast1...     # Send 1.5 FAST
  lumen faucet                    # Request testnet funds
  lumen network testnet           # Switch to testnet mode`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.Init("debug", false)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress output")

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(addressCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(payCmd)
	rootCmd.AddCommand(faucetCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(recoveryPhraseCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(networkCmd)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Lumen Wallet v%s\n", version)
	},
}
