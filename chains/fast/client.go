package fast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chinmay1088/lumen/api"
	"github.com/chinmay1088/lumen/errs"
	"github.com/chinmay1088/lumen/log"
)

// DefaultDripAmount is the faucet request amount in hex (10 FAST).
// The received amount is smaller because the drip transaction pays fees.
const DefaultDripAmount = "0x8ac7230489e80000"

// RPC is the transport the client drives. *api.Client satisfies it.
type RPC interface {
	GetFastAccountInfo(ctx context.Context, pubkey, token []byte) (*api.FastAccountInfo, error)
	SubmitFastTransaction(ctx context.Context, tx interface{}, signature []byte) (json.RawMessage, error)
	RequestFastDrip(ctx context.Context, recipient []byte, amountHex string) error
	GetFastTokenMetadata(ctx context.Context, tokenIDs [][]byte) ([]api.FastTokenMetadataEntry, error)
}

// Keystore hands key material into signing operations. Key bytes live
// only for the duration of one WithFastKey callback; the client never
// stores them.
type Keystore interface {
	FastPublicKey() (PublicKey, error)
	WithFastKey(fn func(KeyPair) error) error
}

// Client is the wallet-facing Fast ledger client. It owns the
// nonce-fetch -> build -> sign -> submit lifecycle and the classification
// of submission failures.
type Client struct {
	rpc     RPC
	testnet bool
	log     zerolog.Logger
}

// NewClient creates a Fast client over the given transport.
func NewClient(rpc RPC, testnet bool) *Client {
	return &Client{
		rpc:     rpc,
		testnet: testnet,
		log:     log.Fast,
	}
}

// IsTestnet returns true if the client targets the test network.
func (c *Client) IsTestnet() bool {
	return c.testnet
}

// BalanceResult is one token balance in base units.
type BalanceResult struct {
	Amount string
	Token  string
}

// SendRequest describes a transfer. Amount is a decimal base-unit string;
// Token is empty or "FAST" for the native token, else a hex token id.
type SendRequest struct {
	From   string
	To     string
	Amount string
	Token  string
}

// SendResult reports an accepted transfer.
type SendResult struct {
	TxHash string
	Fee    string
}

// FaucetResult reports a successful faucet drip.
type FaucetResult struct {
	Amount string
	Token  string
	TxHash string
}

// TokenInfo is one entry of an account's token list.
type TokenInfo struct {
	Symbol   string
	Address  string
	Balance  string
	Decimals uint8
}

// SetupWallet derives the wallet's Fast address from the keystore.
// Idempotent: key creation and persistence belong to the keystore; an
// existing key is reused, a fresh one yields a fresh address.
func (c *Client) SetupWallet(ks Keystore) (string, error) {
	pub, err := ks.FastPublicKey()
	if err != nil {
		return "", fmt.Errorf("failed to load wallet key: %w", err)
	}
	return EncodeAddress(pub)
}

// resolveToken maps a user-supplied token name to a token id.
func (c *Client) resolveToken(token string) (TokenID, error) {
	switch {
	case token == "" || strings.EqualFold(token, NativeTokenSymbol):
		return NativeTokenID(), nil
	case looksLikeTokenID(token):
		return ParseTokenID(token)
	default:
		return TokenID{}, errs.New(errs.TokenNotFound, ChainName, "unknown token: "+token)
	}
}

// Balance fetches an account's balance of one token in base units.
// A missing account reads as "0"; a transport failure propagates as an
// error and is never silently converted to "0".
func (c *Client) Balance(ctx context.Context, address, token string) (*BalanceResult, error) {
	pub, err := DecodeAddress(address)
	if err != nil {
		return nil, err
	}
	tokenID, err := c.resolveToken(token)
	if err != nil {
		return nil, err
	}

	var filter []byte
	if !tokenID.IsNative() {
		filter = tokenID[:]
	}

	info, err := c.rpc.GetFastAccountInfo(ctx, pub[:], filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account info: %w", err)
	}
	if info == nil {
		// Account not on the ledger yet; an explicit "not found" is the
		// only case that reads as zero.
		return &BalanceResult{Amount: "0", Token: tokenName(tokenID)}, nil
	}

	if tokenID.IsNative() {
		amount, err := AmountFromHex(info.Balance)
		if err != nil {
			return nil, fmt.Errorf("server returned malformed balance: %w", err)
		}
		return &BalanceResult{Amount: AmountToDecimal(amount), Token: NativeTokenSymbol}, nil
	}

	for _, tb := range info.TokenBalances {
		id, err := TokenIDFromBytes(tb.TokenID)
		if err != nil {
			continue
		}
		if id.Equal(tokenID) {
			amount, err := AmountFromHex(tb.Balance)
			if err != nil {
				return nil, fmt.Errorf("server returned malformed token balance: %w", err)
			}
			return &BalanceResult{Amount: AmountToDecimal(amount), Token: tokenID.Hex()}, nil
		}
	}

	return &BalanceResult{Amount: "0", Token: tokenID.Hex()}, nil
}

// Send builds, signs, and submits a token transfer. The sender's next
// nonce is fetched fresh immediately before signing, every time: the
// server consumes nonces atomically and a stale nonce always fails, so
// retries must re-enter here rather than reuse a transaction.
func (c *Client) Send(ctx context.Context, req SendRequest, ks Keystore) (*SendResult, error) {
	sender, err := DecodeAddress(req.From)
	if err != nil {
		return nil, err
	}
	recipient, err := DecodeAddress(req.To)
	if err != nil {
		return nil, err
	}
	amount, err := AmountFromDecimal(req.Amount)
	if err != nil {
		return nil, err
	}
	tokenID, err := c.resolveToken(req.Token)
	if err != nil {
		return nil, err
	}

	info, err := c.rpc.GetFastAccountInfo(ctx, sender[:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nonce: %w", err)
	}
	var nonce uint64
	if info != nil {
		nonce = info.NextNonce
	}

	tx := &Transaction{
		Sender:    sender,
		Recipient: recipient,
		Nonce:     nonce,
		Timestamp: TimestampFromTime(time.Now()),
		Claim: &TokenTransfer{
			Token:  tokenID,
			Amount: amount,
		},
	}

	var sig [SignatureSize]byte
	err = ks.WithFastKey(func(kp KeyPair) error {
		if kp.Public != sender {
			return errs.New(errs.InvalidInput, ChainName, "sender address does not belong to this wallet")
		}
		var signErr error
		sig, signErr = SignTransaction(tx, kp)
		return signErr
	})
	if err != nil {
		return nil, err
	}

	hash, err := HashTransaction(tx)
	if err != nil {
		return nil, err
	}

	cert, err := c.rpc.SubmitFastTransaction(ctx, tx, sig[:])
	if err != nil {
		return nil, classifySubmitError(err)
	}
	c.log.Debug().
		Str("tx", TxHashHex(hash)).
		Uint64("nonce", nonce).
		Int("certificate_bytes", len(cert)).
		Msg("transaction accepted")

	return &SendResult{TxHash: TxHashHex(hash), Fee: "0"}, nil
}

// classifySubmitError refines a protocol rejection by its message.
func classifySubmitError(err error) error {
	if !errs.Is(err, errs.ProtocolRejection) {
		return err
	}
	msg := rejectionMessage(err)
	if strings.Contains(strings.ToLower(msg), "insufficient") {
		return errs.New(errs.InsufficientBalance, ChainName, msg)
	}
	return errs.New(errs.TxFailed, ChainName, msg)
}

var retryAfterPattern = regexp.MustCompile(`(\d+)\s*(?:s\b|sec|second)`)

// Faucet requests testnet funds for an address. Mainnet clients refuse
// by policy, not capability. After a successful drip the real balance is
// re-queried: the drip transaction pays fees, so received != requested.
func (c *Client) Faucet(ctx context.Context, address string) (*FaucetResult, error) {
	if !c.testnet {
		return nil, errs.New(errs.Unsupported, ChainName, "faucet is only available on testnet")
	}

	pub, err := DecodeAddress(address)
	if err != nil {
		return nil, err
	}

	if err := c.rpc.RequestFastDrip(ctx, pub[:], DefaultDripAmount); err != nil {
		return nil, classifyFaucetError(err)
	}

	balance, err := c.Balance(ctx, address, "")
	if err != nil {
		return nil, fmt.Errorf("drip succeeded but balance query failed: %w", err)
	}

	return &FaucetResult{
		Amount: balance.Amount,
		Token:  NativeTokenSymbol,
		// The drip method returns no hash; the balance is the receipt.
		TxHash: "",
	}, nil
}

// classifyFaucetError turns a throttling rejection into a structured
// wait hint.
func classifyFaucetError(err error) error {
	if !errs.Is(err, errs.ProtocolRejection) {
		return err
	}
	msg := rejectionMessage(err)
	if strings.Contains(strings.ToLower(msg), "throttle") {
		e := errs.New(errs.FaucetThrottled, ChainName, msg)
		if m := retryAfterPattern.FindStringSubmatch(msg); m != nil {
			if secs, convErr := strconv.Atoi(m[1]); convErr == nil {
				e.RetryAfter = secs
			}
		}
		return e
	}
	return errs.New(errs.TxFailed, ChainName, msg)
}

// rejectionMessage extracts the raw server message from a classified error.
func rejectionMessage(err error) string {
	var e *errs.Error
	if errors.As(err, &e) && e.Value != "" {
		return e.Value
	}
	return err.Error()
}

// SignMessage signs an arbitrary message with the wallet key.
func (c *Client) SignMessage(msg []byte, ks Keystore) ([]byte, error) {
	var sig [SignatureSize]byte
	err := ks.WithFastKey(func(kp KeyPair) error {
		sig = Sign(msg, kp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sig[:], nil
}

// VerifyMessage reports whether sig is the address owner's signature over
// msg. Malformed input verifies as false, never as an error.
func (c *Client) VerifyMessage(address string, msg, sig []byte) bool {
	pub, err := DecodeAddress(address)
	if err != nil {
		return false
	}
	return Verify(pub[:], msg, sig)
}

// OwnedTokens lists every token the account holds. The native token is
// always present, even for an empty or missing account. Custom token
// metadata is batch-fetched; when unavailable the raw id doubles as the
// display symbol.
func (c *Client) OwnedTokens(ctx context.Context, address string) ([]TokenInfo, error) {
	pub, err := DecodeAddress(address)
	if err != nil {
		return nil, err
	}

	info, err := c.rpc.GetFastAccountInfo(ctx, pub[:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account info: %w", err)
	}

	native := TokenInfo{
		Symbol:   NativeTokenSymbol,
		Address:  NativeTokenID().Hex(),
		Balance:  "0",
		Decimals: NativeTokenDecimals,
	}
	if info != nil {
		amount, err := AmountFromHex(info.Balance)
		if err != nil {
			return nil, fmt.Errorf("server returned malformed balance: %w", err)
		}
		native.Balance = AmountToDecimal(amount)
	}
	tokens := []TokenInfo{native}

	if info == nil || len(info.TokenBalances) == 0 {
		return tokens, nil
	}

	ids := make([][]byte, 0, len(info.TokenBalances))
	for _, tb := range info.TokenBalances {
		ids = append(ids, tb.TokenID)
	}

	// Metadata is best-effort: a failed lookup degrades the display,
	// not the balances.
	meta := map[string]*api.FastTokenMetadata{}
	entries, err := c.rpc.GetFastTokenMetadata(ctx, ids)
	if err != nil {
		c.log.Warn().Err(err).Msg("token metadata lookup failed, falling back to raw ids")
	} else {
		for i := range entries {
			meta[string(entries[i].TokenID)] = entries[i].Metadata
		}
	}

	for _, tb := range info.TokenBalances {
		id, err := TokenIDFromBytes(tb.TokenID)
		if err != nil {
			continue
		}
		amount, err := AmountFromHex(tb.Balance)
		if err != nil {
			return nil, fmt.Errorf("server returned malformed token balance: %w", err)
		}

		ti := TokenInfo{
			Symbol:  id.Hex(),
			Address: id.Hex(),
			Balance: AmountToDecimal(amount),
		}
		if m := meta[string(tb.TokenID)]; m != nil {
			if m.Name != "" {
				ti.Symbol = m.Name
			}
			ti.Decimals = m.Decimals
		}
		tokens = append(tokens, ti)
	}

	return tokens, nil
}

// tokenName returns the display name of a token id.
func tokenName(id TokenID) string {
	if id.IsNative() {
		return NativeTokenSymbol
	}
	return id.Hex()
}
