package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/lumen/errs"
	"github.com/chinmay1088/lumen/registry"
	"github.com/chinmay1088/lumen/wallet"
)

var faucetCmd = &cobra.Command{
	Use:   "faucet [address]",
	Short: "Request testnet funds from the Fast faucet",
	Long: `Request testnet FAST from the faucet. Only available on testnet.

Without an address argument the funds go to your own wallet.

Examples:
  lumen faucet                  # Fund your own address
  lumen faucet fast1qxy2...     # Fund another address`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFaucet,
}

func runFaucet(cmd *cobra.Command, args []string) error {
	manager := wallet.NewManager()

	if !manager.IsUnlocked() {
		return fmt.Errorf("wallet is locked. Run 'lumen unlock' first")
	}

	if !manager.IsTestnet() {
		return fmt.Errorf("faucet is only available on testnet. Run 'lumen network testnet' first")
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

	fmt.Println("🚰 Requesting testnet funds...")
	fmt.Printf("   📍 Recipient: %s\n", address)
	fmt.Println()

	res, err := adapter.Faucet(context.Background(), address)
	if err != nil {
		if errs.Is(err, errs.FaucetThrottled) {
			return handleThrottled(err)
		}
		return fmt.Errorf("faucet request failed: %w", err)
	}

	fmt.Printf("✅ Drip received!\n")
	fmt.Printf("💰 Balance is now %s %s\n", res.Amount, res.Token)
	fmt.Println()
	fmt.Println("   ℹ️ The received amount is slightly less than requested")
	fmt.Println("   ℹ️ because the drip transaction pays network fees.")

	return nil
}

// handleThrottled shows a countdown for the server's wait hint instead of
// dumping the raw rejection.
func handleThrottled(err error) error {
	wait := errs.RetryAfter(err)
	if wait <= 0 {
		return fmt.Errorf("faucet is throttled, try again later")
	}

	fmt.Printf("⏳ Faucet is throttled. Try again in %d seconds.\n", wait)
	fmt.Println()

	bar := progressbar.NewOptions(wait,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetDescription("[cyan]Cooling down...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:     "[green]=[reset]",
			SaucerHead: "[green]>[reset]",
			BarStart:   "[",
			BarEnd:     "]",
		}),
	)
	for i := 0; i < wait; i++ {
		time.Sleep(time.Second)
		bar.Add(1)
	}
	fmt.Println()
	fmt.Println("🚰 Cooldown over. Run 'lumen faucet' again to request funds.")

	return nil
}
