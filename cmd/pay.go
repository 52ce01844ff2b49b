package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/chinmay1088/lumen/registry"
	"github.com/chinmay1088/lumen/wallet"
	"github.com/spf13/cobra"
)

var payCmd = &cobra.Command{
	Use:   "pay [chain] [amount] [address]",
	Short: "Send cryptocurrency",
	Long: `Send cryptocurrency to another address.

Supported chains: fast, eth, btc, sol

Examples:
  lumen pay fast 1.5 fast1qxy2kgdygjrsqtzq2n0yrf2493p83kkfj6640vr
  lumen pay fast 1000 fast1... --token 0xabc123...
  lumen pay eth 0.1 0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8b6
  lumen pay btc 0.001 bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh
  lumen pay sol 1.5 7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU`,
	Args: cobra.ExactArgs(3),
	RunE: runPay,
}

func runPay(cmd *cobra.Command, args []string) error {
	manager := wallet.NewManager()

	// Check if wallet is unlocked
	if !manager.IsUnlocked() {
		return fmt.Errorf("wallet is locked. Run 'lumen unlock' first")
	}

	// Get confirmation before proceeding with any transaction
	if !getTransactionConfirmation(manager) {
		fmt.Println("❌ Transaction cancelled by user")
		return nil
	}

	chain := strings.ToLower(args[0])
	amount := args[1]
	recipient := args[2]
	token, _ := cmd.Flags().GetString("token")

	if token != "" && chain != "fast" {
		return fmt.Errorf("--token is only supported on the fast chain")
	}

	reg := registry.New(manager)
	adapter, err := reg.Get(chain)
	if err != nil {
		return err
	}

	fmt.Printf("%s Sending %s Transaction\n", chainEmoji(chain), chainLabel(chain))
	fmt.Println()

	sender, err := adapter.SetupWallet()
	if err != nil {
		return fmt.Errorf("failed to get sender address: %w", err)
	}

	fmt.Printf("📊 Transaction Details:\n")
	fmt.Printf("   From:    %s\n", sender)
	fmt.Printf("   To:      %s\n", recipient)
	fmt.Printf("   Amount:  %s\n", amount)
	if token != "" {
		fmt.Printf("   Token:   %s\n", token)
	}
	fmt.Printf("   Network: %s\n", manager.GetCurrentNetwork())
	fmt.Println()

	res, err := adapter.Send(context.Background(), registry.SendRequest{
		To:     recipient,
		Amount: amount,
		Token:  token,
	})
	if err != nil {
		return fmt.Errorf("failed to send transaction: %w", err)
	}

	fmt.Printf("✅ Transaction sent successfully!\n")
	fmt.Printf("📝 Transaction Hash: %s\n", res.TxHash)
	if res.Fee != "" && res.Fee != "0" {
		fmt.Printf("💸 Fee: %s\n", res.Fee)
	}
	if res.Explorer != "" {
		fmt.Printf("🔗 Explorer: %s\n", res.Explorer)
	}

	return nil
}

func getTransactionConfirmation(manager *wallet.Manager) bool {
	fmt.Println()
	if manager.IsTestnet() {
		fmt.Printf("⚠️ You are on testnet. By confirming this transaction no real funds will be sent to this address.\n")
	} else {
		fmt.Printf("🚨 You are on main network. By confirming this transaction real funds will be sent to this address.\n")
	}

	fmt.Printf("Press y to confirm or n to stop (y/n): ")

	var response string
	fmt.Scanln(&response)

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

func init() {
	payCmd.Flags().String("token", "", "Token id to transfer (Fast ledger only, amount in base units)")
}
