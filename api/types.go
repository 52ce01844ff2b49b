package api

import (
	"encoding/hex"
	"encoding/json"
	"strings"
)

// HexBytes is a wire byte string carried as 0x-prefixed hex in JSON.
type HexBytes []byte

// MarshalJSON encodes the bytes as 0x-prefixed hex.
func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + hex.EncodeToString(h))
}

// UnmarshalJSON decodes an optionally 0x-prefixed hex string.
func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
	if err != nil {
		return err
	}
	*h = raw
	return nil
}

// FastRPCResponse represents a Fast ledger RPC response envelope
type FastRPCResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// FastTokenBalance is one (token id, balance) entry of an account.
type FastTokenBalance struct {
	TokenID HexBytes `json:"token_id"`
	Balance string   `json:"balance"`
}

// FastAccountInfo is the account-info query result. A nil value means the
// account does not exist on the ledger yet.
type FastAccountInfo struct {
	Balance       string             `json:"balance"`
	NextNonce     uint64             `json:"next_nonce"`
	TokenBalances []FastTokenBalance `json:"token_balance"`
}

// FastTokenMetadata describes a token registered on the ledger.
type FastTokenMetadata struct {
	Name        string   `json:"name"`
	Decimals    uint8    `json:"decimals"`
	TotalSupply string   `json:"total_supply"`
	Admin       HexBytes `json:"admin"`
	Mints       uint64   `json:"mints"`
	UpdateID    uint64   `json:"update_id"`
}

// FastTokenMetadataEntry is one result of a batch metadata query. Metadata
// is nil when the ledger has no record for the id.
type FastTokenMetadataEntry struct {
	TokenID  HexBytes           `json:"token_id"`
	Metadata *FastTokenMetadata `json:"metadata"`
}

// EthereumRPCResponse represents Ethereum RPC response
type EthereumRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Result  interface{} `json:"result"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// BitcoinUTXO represents a Bitcoin UTXO
type BitcoinUTXO struct {
	TxID   string  `json:"txid"`
	Vout   uint32  `json:"vout"`
	Value  float64 `json:"value"`
	Script string  `json:"scriptPubKey"`
}

// SolanaRPCResponse represents Solana RPC response
type SolanaRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Result  interface{} `json:"result"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
