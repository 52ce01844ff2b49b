package fast

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/chinmay1088/lumen/api"
	"github.com/chinmay1088/lumen/errs"
)

// fakeRPC scripts RPC responses per method.
type fakeRPC struct {
	accountInfo     func(pubkey, token []byte) (*api.FastAccountInfo, error)
	submit          func(tx interface{}, signature []byte) (json.RawMessage, error)
	drip            func(recipient []byte, amountHex string) error
	metadata        func(tokenIDs [][]byte) ([]api.FastTokenMetadataEntry, error)
	accountInfoHits int
}

func (f *fakeRPC) GetFastAccountInfo(ctx context.Context, pubkey, token []byte) (*api.FastAccountInfo, error) {
	f.accountInfoHits++
	if f.accountInfo == nil {
		return nil, nil
	}
	return f.accountInfo(pubkey, token)
}

func (f *fakeRPC) SubmitFastTransaction(ctx context.Context, tx interface{}, signature []byte) (json.RawMessage, error) {
	if f.submit == nil {
		return json.RawMessage(`{}`), nil
	}
	return f.submit(tx, signature)
}

func (f *fakeRPC) RequestFastDrip(ctx context.Context, recipient []byte, amountHex string) error {
	if f.drip == nil {
		return nil
	}
	return f.drip(recipient, amountHex)
}

func (f *fakeRPC) GetFastTokenMetadata(ctx context.Context, tokenIDs [][]byte) ([]api.FastTokenMetadataEntry, error) {
	if f.metadata == nil {
		return nil, nil
	}
	return f.metadata(tokenIDs)
}

// fakeKeystore hands out a fixed key pair.
type fakeKeystore struct {
	kp KeyPair
}

func (k *fakeKeystore) FastPublicKey() (PublicKey, error) {
	return k.kp.Public, nil
}

func (k *fakeKeystore) WithFastKey(fn func(KeyPair) error) error {
	return fn(k.kp)
}

func testClientSetup(t *testing.T, rpc *fakeRPC) (*Client, *fakeKeystore, string) {
	t.Helper()
	ks := &fakeKeystore{kp: testKeyPair(0x77)}
	addr, err := EncodeAddress(ks.kp.Public)
	if err != nil {
		t.Fatal(err)
	}
	return NewClient(rpc, true), ks, addr
}

func TestSetupWallet(t *testing.T) {
	client, ks, addr := testClientSetup(t, &fakeRPC{})

	got, err := client.SetupWallet(ks)
	if err != nil {
		t.Fatal(err)
	}
	if got != addr {
		t.Errorf("SetupWallet = %q, want %q", got, addr)
	}

	// Same keystore, same address.
	again, err := client.SetupWallet(ks)
	if err != nil {
		t.Fatal(err)
	}
	if again != got {
		t.Error("SetupWallet is not idempotent")
	}
}

func TestBalanceMissingAccount(t *testing.T) {
	rpc := &fakeRPC{accountInfo: func(pubkey, token []byte) (*api.FastAccountInfo, error) {
		return nil, nil
	}}
	client, _, addr := testClientSetup(t, rpc)

	res, err := client.Balance(context.Background(), addr, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Amount != "0" {
		t.Errorf("missing account balance = %q, want 0", res.Amount)
	}
	if res.Token != NativeTokenSymbol {
		t.Errorf("token = %q, want %q", res.Token, NativeTokenSymbol)
	}
}

func TestBalanceNetworkFailureNotZero(t *testing.T) {
	rpc := &fakeRPC{accountInfo: func(pubkey, token []byte) (*api.FastAccountInfo, error) {
		return nil, errs.New(errs.NetworkFailure, ChainName, "connection refused")
	}}
	client, _, addr := testClientSetup(t, rpc)

	_, err := client.Balance(context.Background(), addr, "")
	if err == nil {
		t.Fatal("network failure read as a balance")
	}
	if !errs.Is(err, errs.NetworkFailure) {
		t.Errorf("error kind = %v, want NetworkFailure", errs.KindOf(err))
	}
}

func TestBalanceNative(t *testing.T) {
	rpc := &fakeRPC{accountInfo: func(pubkey, token []byte) (*api.FastAccountInfo, error) {
		return &api.FastAccountInfo{Balance: "0xde0b6b3a7640000", NextNonce: 3}, nil
	}}
	client, _, addr := testClientSetup(t, rpc)

	res, err := client.Balance(context.Background(), addr, "FAST")
	if err != nil {
		t.Fatal(err)
	}
	if res.Amount != "1000000000000000000" {
		t.Errorf("balance = %q, want 1000000000000000000", res.Amount)
	}
}

func TestBalanceCustomToken(t *testing.T) {
	tokenID, err := ParseTokenID("0xdeadbeef")
	if err != nil {
		t.Fatal(err)
	}
	rpc := &fakeRPC{accountInfo: func(pubkey, token []byte) (*api.FastAccountInfo, error) {
		return &api.FastAccountInfo{
			Balance: "0x0",
			TokenBalances: []api.FastTokenBalance{
				{TokenID: tokenID[:], Balance: "0x64"},
			},
		}, nil
	}}
	client, _, addr := testClientSetup(t, rpc)

	res, err := client.Balance(context.Background(), addr, "0xdeadbeef")
	if err != nil {
		t.Fatal(err)
	}
	if res.Amount != "100" {
		t.Errorf("token balance = %q, want 100", res.Amount)
	}

	// A held token list without the queried token reads as zero.
	res, err = client.Balance(context.Background(), addr, "0xfeedface")
	if err != nil {
		t.Fatal(err)
	}
	if res.Amount != "0" {
		t.Errorf("absent token balance = %q, want 0", res.Amount)
	}
}

func TestBalanceUnknownTokenName(t *testing.T) {
	client, _, addr := testClientSetup(t, &fakeRPC{})

	_, err := client.Balance(context.Background(), addr, "mytoken")
	if !errs.Is(err, errs.TokenNotFound) {
		t.Errorf("error kind = %v, want TokenNotFound", errs.KindOf(err))
	}
}

func TestSendFetchesFreshNonce(t *testing.T) {
	var nonce uint64 = 41
	rpc := &fakeRPC{
		accountInfo: func(pubkey, token []byte) (*api.FastAccountInfo, error) {
			nonce++
			return &api.FastAccountInfo{Balance: "0xffff", NextNonce: nonce}, nil
		},
	}
	client, ks, addr := testClientSetup(t, rpc)
	recipient, _ := EncodeAddress(testKey(0x05))

	req := SendRequest{From: addr, To: recipient, Amount: "10"}
	if _, err := client.Send(context.Background(), req, ks); err != nil {
		t.Fatal(err)
	}
	first := rpc.accountInfoHits

	if _, err := client.Send(context.Background(), req, ks); err != nil {
		t.Fatal(err)
	}
	if rpc.accountInfoHits <= first {
		t.Error("second send did not re-fetch the nonce")
	}
}

func TestSendRejectsForeignSender(t *testing.T) {
	client, ks, _ := testClientSetup(t, &fakeRPC{})
	stranger, _ := EncodeAddress(testKey(0x06))
	recipient, _ := EncodeAddress(testKey(0x05))

	_, err := client.Send(context.Background(), SendRequest{
		From: stranger, To: recipient, Amount: "1",
	}, ks)
	if !errs.Is(err, errs.InvalidInput) {
		t.Errorf("error kind = %v, want InvalidInput", errs.KindOf(err))
	}
}

func TestSendClassifiesRejections(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    errs.Kind
	}{
		{"insufficient", "insufficient balance for transfer", errs.InsufficientBalance},
		{"other", "nonce too old", errs.TxFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rpc := &fakeRPC{
				submit: func(tx interface{}, signature []byte) (json.RawMessage, error) {
					return nil, errs.New(errs.ProtocolRejection, ChainName, tt.message)
				},
			}
			client, ks, addr := testClientSetup(t, rpc)
			recipient, _ := EncodeAddress(testKey(0x05))

			_, err := client.Send(context.Background(), SendRequest{
				From: addr, To: recipient, Amount: "1",
			}, ks)
			if !errs.Is(err, tt.want) {
				t.Errorf("error kind = %v, want %v", errs.KindOf(err), tt.want)
			}
		})
	}
}

func TestSendReturnsCanonicalHash(t *testing.T) {
	rpc := &fakeRPC{}
	client, ks, addr := testClientSetup(t, rpc)
	recipient, _ := EncodeAddress(testKey(0x05))

	res, err := client.Send(context.Background(), SendRequest{
		From: addr, To: recipient, Amount: "1",
	}, ks)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.TxHash) != 2+2*TxHashSize {
		t.Errorf("tx hash %q has wrong length", res.TxHash)
	}
	if res.Fee != "0" {
		t.Errorf("fee = %q, want 0", res.Fee)
	}
}

func TestFaucetMainnetRefused(t *testing.T) {
	ks := &fakeKeystore{kp: testKeyPair(0x77)}
	addr, _ := EncodeAddress(ks.kp.Public)
	client := NewClient(&fakeRPC{}, false)

	_, err := client.Faucet(context.Background(), addr)
	if !errs.Is(err, errs.Unsupported) {
		t.Errorf("error kind = %v, want Unsupported", errs.KindOf(err))
	}
}

func TestFaucetThrottleHint(t *testing.T) {
	rpc := &fakeRPC{
		drip: func(recipient []byte, amountHex string) error {
			return errs.New(errs.ProtocolRejection, ChainName, "faucet throttled, retry in 42 seconds")
		},
	}
	client, _, addr := testClientSetup(t, rpc)

	_, err := client.Faucet(context.Background(), addr)
	if !errs.Is(err, errs.FaucetThrottled) {
		t.Fatalf("error kind = %v, want FaucetThrottled", errs.KindOf(err))
	}
	if got := errs.RetryAfter(err); got != 42 {
		t.Errorf("RetryAfter = %d, want 42", got)
	}
}

func TestFaucetSuccessRequeriesBalance(t *testing.T) {
	dripped := false
	rpc := &fakeRPC{
		drip: func(recipient []byte, amountHex string) error {
			if amountHex != DefaultDripAmount {
				t.Errorf("drip amount = %q, want %q", amountHex, DefaultDripAmount)
			}
			dripped = true
			return nil
		},
		accountInfo: func(pubkey, token []byte) (*api.FastAccountInfo, error) {
			if !dripped {
				t.Error("balance queried before the drip")
			}
			return &api.FastAccountInfo{Balance: "0x8ac7230489e80000"}, nil
		},
	}
	client, _, addr := testClientSetup(t, rpc)

	res, err := client.Faucet(context.Background(), addr)
	if err != nil {
		t.Fatal(err)
	}
	if res.Amount != "10000000000000000000" {
		t.Errorf("amount = %q", res.Amount)
	}
	if res.TxHash != "" {
		t.Errorf("tx hash = %q, want empty (drip returns none)", res.TxHash)
	}
}

func TestSignAndVerifyMessageThroughClient(t *testing.T) {
	client, ks, addr := testClientSetup(t, &fakeRPC{})

	msg := []byte("hello ledger")
	sig, err := client.SignMessage(msg, ks)
	if err != nil {
		t.Fatal(err)
	}

	if !client.VerifyMessage(addr, msg, sig) {
		t.Error("signature did not verify")
	}
	if client.VerifyMessage(addr, []byte("tampered"), sig) {
		t.Error("tampered message verified")
	}

	other, _ := EncodeAddress(testKey(0x09))
	if client.VerifyMessage(other, msg, sig) {
		t.Error("signature verified for the wrong address")
	}
	if client.VerifyMessage("not-an-address", msg, sig) {
		t.Error("malformed address verified")
	}
}

func TestOwnedTokensAlwaysIncludesNative(t *testing.T) {
	rpc := &fakeRPC{accountInfo: func(pubkey, token []byte) (*api.FastAccountInfo, error) {
		return nil, nil
	}}
	client, _, addr := testClientSetup(t, rpc)

	tokens, err := client.OwnedTokens(context.Background(), addr)
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 1 {
		t.Fatalf("token count = %d, want 1", len(tokens))
	}
	if tokens[0].Symbol != NativeTokenSymbol || tokens[0].Balance != "0" {
		t.Errorf("native entry = %+v", tokens[0])
	}
}

func TestOwnedTokensMetadataFallback(t *testing.T) {
	tokenID, _ := ParseTokenID("0xdeadbeef")
	rpc := &fakeRPC{
		accountInfo: func(pubkey, token []byte) (*api.FastAccountInfo, error) {
			return &api.FastAccountInfo{
				Balance: "0x5",
				TokenBalances: []api.FastTokenBalance{
					{TokenID: tokenID[:], Balance: "0x64"},
				},
			}, nil
		},
		metadata: func(tokenIDs [][]byte) ([]api.FastTokenMetadataEntry, error) {
			return nil, errs.New(errs.NetworkFailure, ChainName, "metadata node down")
		},
	}
	client, _, addr := testClientSetup(t, rpc)

	tokens, err := client.OwnedTokens(context.Background(), addr)
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 2 {
		t.Fatalf("token count = %d, want 2", len(tokens))
	}
	// Metadata failed: the raw id doubles as symbol.
	if tokens[1].Symbol != tokenID.Hex() {
		t.Errorf("fallback symbol = %q, want %q", tokens[1].Symbol, tokenID.Hex())
	}
	if tokens[1].Balance != "100" {
		t.Errorf("token balance = %q, want 100", tokens[1].Balance)
	}
}

func TestOwnedTokensWithMetadata(t *testing.T) {
	tokenID, _ := ParseTokenID("0xdeadbeef")
	rpc := &fakeRPC{
		accountInfo: func(pubkey, token []byte) (*api.FastAccountInfo, error) {
			return &api.FastAccountInfo{
				Balance: "0x0",
				TokenBalances: []api.FastTokenBalance{
					{TokenID: tokenID[:], Balance: "0x64"},
				},
			}, nil
		},
		metadata: func(tokenIDs [][]byte) ([]api.FastTokenMetadataEntry, error) {
			return []api.FastTokenMetadataEntry{
				{TokenID: tokenID[:], Metadata: &api.FastTokenMetadata{Name: "ACME", Decimals: 6}},
			}, nil
		},
	}
	client, _, addr := testClientSetup(t, rpc)

	tokens, err := client.OwnedTokens(context.Background(), addr)
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 2 {
		t.Fatalf("token count = %d, want 2", len(tokens))
	}
	if tokens[1].Symbol != "ACME" || tokens[1].Decimals != 6 {
		t.Errorf("metadata entry = %+v", tokens[1])
	}
}
