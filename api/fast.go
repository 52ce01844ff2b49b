package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chinmay1088/lumen/errs"
	"github.com/chinmay1088/lumen/log"
)

// FastRPCTimeout bounds a single Fast RPC call unless the caller's context
// sets a tighter deadline.
const FastRPCTimeout = 15 * time.Second

// GetFastRPC returns the appropriate Fast ledger RPC URL
func (c *Client) GetFastRPC() string {
	if c.IsTestnet() {
		return c.endpoint("fast", TestnetFastRPC)
	}
	return c.endpoint("fast", MainnetFastRPC)
}

// CallFast issues one Fast ledger RPC request: POST {method, params}.
// A transport error or timeout surfaces as a network failure; an error
// envelope in a 200 response surfaces as a protocol rejection carrying
// the raw server message. No retries happen here; retry policy belongs
// to the caller.
func (c *Client) CallFast(ctx context.Context, method string, params, result interface{}) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, FastRPCTimeout)
		defer cancel()
	}

	payload := map[string]interface{}{
		"method": method,
		"params": params,
	}

	response, err := c.postJSONContext(ctx, c.GetFastRPC(), payload)
	if err != nil {
		log.API.Debug().Str("method", method).Err(err).Msg("fast rpc transport failure")
		return errs.Wrap(errs.NetworkFailure, "fast", fmt.Errorf("%s: %w", method, err))
	}

	var rpcResp FastRPCResponse
	if err := json.Unmarshal(response, &rpcResp); err != nil {
		return errs.Wrap(errs.NetworkFailure, "fast", fmt.Errorf("%s: failed to parse response: %w", method, err))
	}

	if rpcResp.Error != nil {
		log.API.Debug().Str("method", method).Str("message", rpcResp.Error.Message).Msg("fast rpc rejected")
		return errs.New(errs.ProtocolRejection, "fast", rpcResp.Error.Message)
	}

	if result != nil && len(rpcResp.Result) > 0 && !bytes.Equal(rpcResp.Result, []byte("null")) {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return errs.Wrap(errs.NetworkFailure, "fast", fmt.Errorf("%s: failed to parse result: %w", method, err))
		}
	}

	return nil
}

// GetFastAccountInfo queries an account, optionally filtered to one token.
// Returns nil (and no error) when the account does not exist yet.
func (c *Client) GetFastAccountInfo(ctx context.Context, pubkey, token []byte) (*FastAccountInfo, error) {
	params := map[string]interface{}{
		"address": HexBytes(pubkey),
	}
	if token != nil {
		params["token_id"] = HexBytes(token)
	} else {
		params["token_id"] = nil
	}

	var info *FastAccountInfo
	if err := c.CallFast(ctx, "account_info", params, &info); err != nil {
		return nil, err
	}
	return info, nil
}

// SubmitFastTransaction submits a signed transaction and returns the
// server's acceptance certificate. The certificate is opaque: its internal
// structure belongs to the server and may evolve, so it is never decoded.
func (c *Client) SubmitFastTransaction(ctx context.Context, tx interface{}, signature []byte) (json.RawMessage, error) {
	params := map[string]interface{}{
		"transaction": tx,
		"signature": map[string]interface{}{
			"Signature": HexBytes(signature),
		},
	}

	var result struct {
		Success json.RawMessage `json:"Success"`
	}
	if err := c.CallFast(ctx, "submit_transaction", params, &result); err != nil {
		return nil, err
	}
	return result.Success, nil
}

// RequestFastDrip asks the testnet faucet to fund a recipient. The drip
// method returns null on success; the resulting balance must be queried
// separately because the drip transaction itself pays fees.
func (c *Client) RequestFastDrip(ctx context.Context, recipient []byte, amountHex string) error {
	params := map[string]interface{}{
		"recipient": HexBytes(recipient),
		"amount":    amountHex,
		"token_id":  nil,
	}
	return c.CallFast(ctx, "faucet_drip", params, nil)
}

// GetFastTokenMetadata batch-queries metadata for a list of token ids.
func (c *Client) GetFastTokenMetadata(ctx context.Context, tokenIDs [][]byte) ([]FastTokenMetadataEntry, error) {
	ids := make([]HexBytes, 0, len(tokenIDs))
	for _, id := range tokenIDs {
		ids = append(ids, HexBytes(id))
	}
	params := map[string]interface{}{
		"token_ids": ids,
	}

	var entries []FastTokenMetadataEntry
	if err := c.CallFast(ctx, "token_metadata", params, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
