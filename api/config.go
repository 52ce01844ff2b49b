package api

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// network type constants
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

// Default RPC endpoints
const (
	// mainnet rpc's
	MainnetFastRPC     = "https://rpc.fastnet.org"
	MainnetEthereumRPC = "https://ethereum-rpc.publicnode.com"
	MainnetSolanaRPC   = "https://api.mainnet-beta.solana.com"
	MainnetBitcoinRPC  = "https://blockchain.info"

	// testnet rpc's
	TestnetFastRPC     = "https://rpc.testnet.fastnet.org"
	TestnetEthereumRPC = "https://ethereum-sepolia.publicnode.com"
	TestnetSolanaRPC   = "https://api.devnet.solana.com"
	// bitcoin is not supported for testnet
)

// endpointOverrides maps chain -> network -> RPC URL. Stored in
// ~/.lumen/rpc.json so users can point a chain at their own node.
type endpointOverrides map[string]map[string]string

func overridesPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".lumen", "rpc.json"), nil
}

// loadOverrides reads the endpoint override file. A missing or unreadable
// file yields an empty set, never an error: defaults always work.
func loadOverrides() endpointOverrides {
	path, err := overridesPath()
	if err != nil {
		return endpointOverrides{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return endpointOverrides{}
	}
	var ov endpointOverrides
	if err := json.Unmarshal(data, &ov); err != nil {
		return endpointOverrides{}
	}
	return ov
}

// SaveEndpointOverride records a custom RPC URL for a chain+network.
// An empty url removes the override. Callers owning a cached client must
// rebuild it afterwards; overrides are read once at client construction.
func SaveEndpointOverride(chain, network, url string) error {
	path, err := overridesPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	ov := loadOverrides()
	if url == "" {
		delete(ov[chain], network)
		if len(ov[chain]) == 0 {
			delete(ov, chain)
		}
	} else {
		if ov[chain] == nil {
			ov[chain] = map[string]string{}
		}
		ov[chain][network] = url
	}

	data, err := json.MarshalIndent(ov, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal overrides: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write overrides file: %w", err)
	}
	return nil
}

// EndpointOverride returns the override for a chain+network, "" if unset.
func EndpointOverride(chain, network string) string {
	return loadOverrides()[chain][network]
}
