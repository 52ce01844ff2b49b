package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client handles API calls to external services
type Client struct {
	httpClient *http.Client
	network    string
	overrides  endpointOverrides
}

// NewClient creates a new API client for the currently selected network.
// Endpoint overrides are read once here; rebuild the client after changing
// them.
func NewClient() *Client {
	// Determine the current network
	network := NetworkMainnet // Default to mainnet

	homeDir, err := os.UserHomeDir()
	if err == nil {
		networkPath := filepath.Join(homeDir, ".lumen", "network.txt")

		// Read network file if it exists
		if _, err := os.Stat(networkPath); err == nil {
			data, err := os.ReadFile(networkPath)
			if err == nil {
				network = strings.TrimSpace(string(data))
				// Validate network
				if network != NetworkMainnet && network != NetworkTestnet {
					network = NetworkMainnet // Default to mainnet if invalid
				}
			}
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		network:   network,
		overrides: loadOverrides(),
	}
}

// NewClientForNetwork creates a client pinned to a specific network,
// bypassing the network.txt selection. Used by the registry.
func NewClientForNetwork(network string) *Client {
	if network != NetworkMainnet && network != NetworkTestnet {
		network = NetworkMainnet
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		network:   network,
		overrides: loadOverrides(),
	}
}

// IsTestnet returns true if the client is using testnet
func (c *Client) IsTestnet() bool {
	return c.network == NetworkTestnet
}

// Network returns the network this client talks to.
func (c *Client) Network() string {
	return c.network
}

// endpoint resolves a chain's RPC URL: override first, then the default.
func (c *Client) endpoint(chain, defaultURL string) string {
	if url := c.overrides[chain][c.network]; url != "" {
		return url
	}
	return defaultURL
}

// postJSON sends a POST request with JSON payload
func (c *Client) postJSON(url string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	resp, err := c.httpClient.Post(url, "application/json", strings.NewReader(string(jsonData)))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// postJSONContext sends a POST request bound to ctx. The caller owns the
// timeout; cancellation aborts only this request.
func (c *Client) postJSONContext(ctx context.Context, url string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
