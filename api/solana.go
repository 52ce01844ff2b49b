package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GetSolanaRPC returns the appropriate Solana RPC URL
func (c *Client) GetSolanaRPC() string {
	if c.IsTestnet() {
		return c.endpoint("sol", TestnetSolanaRPC)
	}
	return c.endpoint("sol", MainnetSolanaRPC)
}

// callSolana issues one JSON-RPC request and returns the raw result.
func (c *Client) callSolana(method string, params interface{}) (interface{}, error) {
	payload := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      1,
	}

	response, err := c.postJSON(c.GetSolanaRPC(), payload)
	if err != nil {
		return nil, err
	}

	var rpcResp SolanaRPCResponse
	if err := json.Unmarshal(response, &rpcResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if rpcResp.Error != nil {
		return nil, fmt.Errorf("RPC error: %s", rpcResp.Error.Message)
	}

	if rpcResp.Result == nil {
		return nil, fmt.Errorf("no result in response")
	}

	return rpcResp.Result, nil
}

// GetSolanaBalance fetches Solana balance
func (c *Client) GetSolanaBalance(address string) (uint64, error) {
	result, err := c.callSolana("getBalance", []interface{}{address})
	if err != nil {
		// Accounts don't exist on Solana until they receive SOL
		if strings.Contains(err.Error(), "could not find account") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to fetch Solana balance: %w", err)
	}

	// Handle Solana's response structure
	resultMap, ok := result.(map[string]interface{})
	if !ok {
		// Try direct value format
		if value, ok := result.(float64); ok {
			return uint64(value), nil
		}
		return 0, fmt.Errorf("invalid balance format")
	}

	if valueFloat, ok := resultMap["value"].(float64); ok {
		return uint64(valueFloat), nil
	}

	return 0, fmt.Errorf("could not find balance value in response")
}

// GetSolanaRecentBlockhash gets a recent blockhash for Solana transactions
func (c *Client) GetSolanaRecentBlockhash() (string, error) {
	// Use "finalized" commitment for the freshest blockhash that's already confirmed
	result, err := c.callSolana("getLatestBlockhash", []interface{}{
		map[string]interface{}{"commitment": "finalized"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	resultMap, ok := result.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected result format")
	}

	valueMap, ok := resultMap["value"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("missing 'value' in result")
	}

	blockhash, ok := valueMap["blockhash"].(string)
	if !ok {
		return "", fmt.Errorf("missing 'blockhash' in result")
	}

	return blockhash, nil
}

// SendSolanaTransaction sends a Solana transaction
func (c *Client) SendSolanaTransaction(signedTx string) (string, error) {
	result, err := c.callSolana("sendTransaction", []string{signedTx})
	if err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	txHash, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("invalid transaction hash format")
	}

	return txHash, nil
}
