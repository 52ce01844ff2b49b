package api

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// GetEthereumRPC returns the appropriate Ethereum RPC URL
func (c *Client) GetEthereumRPC() string {
	if c.IsTestnet() {
		return c.endpoint("eth", TestnetEthereumRPC)
	}
	return c.endpoint("eth", MainnetEthereumRPC)
}

// callEthereum issues one JSON-RPC request and returns the raw result.
func (c *Client) callEthereum(method string, params interface{}) (interface{}, error) {
	payload := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      1,
	}

	response, err := c.postJSON(c.GetEthereumRPC(), payload)
	if err != nil {
		return nil, err
	}

	var rpcResp EthereumRPCResponse
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

// callEthereumHex issues a request whose result is a hex-encoded quantity.
func (c *Client) callEthereumHex(method string, params interface{}) (*big.Int, error) {
	result, err := c.callEthereum(method, params)
	if err != nil {
		return nil, err
	}

	str, ok := result.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected result format for %s", method)
	}

	value := new(big.Int)
	if _, ok := value.SetString(strings.TrimPrefix(str, "0x"), 16); !ok {
		return nil, fmt.Errorf("invalid hex value: %s", str)
	}
	return value, nil
}

// GetEthereumBalance fetches Ethereum balance
func (c *Client) GetEthereumBalance(address string) (*big.Int, error) {
	return c.callEthereumHex("eth_getBalance", []string{address, "latest"})
}

// GetEthereumNonce fetches Ethereum nonce
func (c *Client) GetEthereumNonce(address string) (uint64, error) {
	nonce, err := c.callEthereumHex("eth_getTransactionCount", []string{address, "latest"})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch nonce: %w", err)
	}
	return nonce.Uint64(), nil
}

// GetEthereumGasPrice fetches current gas price
func (c *Client) GetEthereumGasPrice() (*big.Int, error) {
	price, err := c.callEthereumHex("eth_gasPrice", []interface{}{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gas price: %w", err)
	}
	return price, nil
}

// SendEthereumTransaction sends a signed Ethereum transaction
func (c *Client) SendEthereumTransaction(signedTx string) (string, error) {
	result, err := c.callEthereum("eth_sendRawTransaction", []string{signedTx})
	if err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	txHash, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("invalid transaction hash format")
	}
	return txHash, nil
}

// GetEthereumGasEstimate estimates the gas needed for an ETH transaction
func (c *Client) GetEthereumGasEstimate(from string, to string, value *big.Int, data []byte) (uint64, error) {
	txObject := map[string]interface{}{
		"from": from,
		"to":   to,
	}
	if value != nil && value.Sign() > 0 {
		txObject["value"] = "0x" + value.Text(16)
	}
	if len(data) > 0 {
		txObject["data"] = "0x" + fmt.Sprintf("%x", data)
	}

	result, err := c.callEthereum("eth_estimateGas", []interface{}{txObject})
	if err != nil {
		// Estimation is advisory; fall back to a conservative default
		return 50000, nil
	}

	resultStr, ok := result.(string)
	if !ok {
		return 50000, nil
	}

	gas, err := strconv.ParseUint(strings.TrimPrefix(resultStr, "0x"), 16, 64)
	if err != nil {
		return 50000, nil
	}

	// Add 20% buffer to account for potential variations
	return gas + gas/5, nil
}
