package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// GetBitcoinRPC returns the Bitcoin RPC URL (mainnet only)
func (c *Client) GetBitcoinRPC() string {
	return c.endpoint("btc", MainnetBitcoinRPC)
}

// GetBitcoinBalance fetches Bitcoin balance
func (c *Client) GetBitcoinBalance(address string) (float64, error) {
	// Bitcoin only supported in mainnet
	if c.IsTestnet() {
		return 0, fmt.Errorf("bitcoin is not supported in testnet mode")
	}

	// Use blockchain.info API
	url := fmt.Sprintf("%s/balance?active=%s", c.GetBitcoinRPC(), address)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch balance: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	// Blockchain.info returns address as key in JSON object
	var result map[string]struct {
		FinalBalance int64 `json:"final_balance"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}

	addrData, exists := result[address]
	if !exists {
		return 0, fmt.Errorf("address data not found in response")
	}

	// Convert balance from satoshis to BTC
	return float64(addrData.FinalBalance) / 100000000.0, nil
}

// GetBitcoinUTXOs fetches Bitcoin UTXOs
func (c *Client) GetBitcoinUTXOs(address string) ([]BitcoinUTXO, error) {
	// Bitcoin only supported in mainnet
	if c.IsTestnet() {
		return nil, fmt.Errorf("bitcoin is not supported in testnet mode")
	}

	// Use Blockchair API
	url := fmt.Sprintf("https://api.blockchair.com/bitcoin/outputs?q=recipient(%s),is_spent(false)", address)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch UTXOs: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result struct {
		Data struct {
			Items []struct {
				TransactionHash string `json:"transaction_hash"`
				Index           uint32 `json:"index"`
				Value           string `json:"value"`
				ScriptHex       string `json:"script_hex"`
			} `json:"outputs"`
		} `json:"data"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var utxos []BitcoinUTXO
	for _, item := range result.Data.Items {
		value, err := strconv.ParseFloat(item.Value, 64)
		if err != nil {
			continue // Skip this UTXO if value can't be parsed
		}

		utxos = append(utxos, BitcoinUTXO{
			TxID:   item.TransactionHash,
			Vout:   item.Index,
			Value:  value / 100000000.0, // Convert from satoshis to BTC
			Script: item.ScriptHex,
		})
	}

	return utxos, nil
}

// SendBitcoinTransaction sends a Bitcoin transaction
func (c *Client) SendBitcoinTransaction(signedTx string) (string, error) {
	// Bitcoin only supported in mainnet
	if c.IsTestnet() {
		return "", fmt.Errorf("bitcoin is not supported in testnet mode")
	}

	// Use mempool.space API
	url := "https://mempool.space/api/tx"

	resp, err := c.httpClient.Post(url, "text/plain", strings.NewReader(signedTx))
	if err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("transaction failed: %s", string(body))
	}

	return string(body), nil
}

// GetBitcoinFeeEstimate returns the estimated fee rate for Bitcoin in satoshis/byte
func (c *Client) GetBitcoinFeeEstimate() (int64, error) {
	if c.IsTestnet() {
		return 0, fmt.Errorf("bitcoin is not supported in testnet mode")
	}

	// Try mempool.space API first
	url := "https://mempool.space/api/v1/fees/recommended"
	resp, err := c.httpClient.Get(url)
	if err == nil && resp.StatusCode == http.StatusOK {
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err == nil {
			var feeResponse struct {
				FastestFee  int64 `json:"fastestFee"`
				HalfHourFee int64 `json:"halfHourFee"`
				HourFee     int64 `json:"hourFee"`
			}

			if err := json.Unmarshal(body, &feeResponse); err == nil && feeResponse.HalfHourFee > 0 {
				// Use the half hour fee rate (average priority)
				return feeResponse.HalfHourFee, nil
			}
		}
	}

	// Fallback to blockchain.info
	url = "https://api.blockchain.info/mempool/fees"
	resp, err = c.httpClient.Get(url)
	if err != nil {
		return 10, nil // Default to 10 sat/byte if API fails
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 10, nil
	}

	var feeResponse struct {
		Regular  int64 `json:"regular"`
		Priority int64 `json:"priority"`
	}

	if err := json.Unmarshal(body, &feeResponse); err != nil {
		return 10, nil
	}

	if feeResponse.Regular > 0 {
		return feeResponse.Regular, nil
	}

	return 10, nil
}
