package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chinmay1088/lumen/errs"
)

// newTestClient points a testnet client's fast endpoint at srv.
func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		network:    NetworkTestnet,
		overrides: endpointOverrides{
			"fast": {NetworkTestnet: srv.URL},
		},
	}
}

// fastServer replies with a fixed body and records the last request.
func fastServer(t *testing.T, body string) (*httptest.Server, *map[string]json.RawMessage) {
	t.Helper()
	var lastRequest map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&lastRequest); err != nil {
			t.Errorf("malformed request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &lastRequest
}

func TestCallFastSuccess(t *testing.T) {
	srv, lastReq := fastServer(t, `{"result":{"value":42}}`)
	client := newTestClient(srv)

	var result struct {
		Value int `json:"value"`
	}
	err := client.CallFast(context.Background(), "test_method", map[string]interface{}{"x": 1}, &result)
	if err != nil {
		t.Fatal(err)
	}
	if result.Value != 42 {
		t.Errorf("result value = %d, want 42", result.Value)
	}

	var method string
	if err := json.Unmarshal((*lastReq)["method"], &method); err != nil || method != "test_method" {
		t.Errorf("request method = %q, want test_method", method)
	}
}

func TestCallFastErrorEnvelope(t *testing.T) {
	srv, _ := fastServer(t, `{"error":{"code":-32000,"message":"insufficient balance for transfer"}}`)
	client := newTestClient(srv)

	err := client.CallFast(context.Background(), "submit_transaction", nil, nil)
	if !errs.Is(err, errs.ProtocolRejection) {
		t.Fatalf("error kind = %v, want ProtocolRejection", errs.KindOf(err))
	}

	// The raw server message must survive classification so callers can
	// refine the rejection.
	var e *errs.Error
	if !errors.As(err, &e) {
		t.Fatal("error does not unwrap to *errs.Error")
	}
	if e.Value != "insufficient balance for transfer" {
		t.Errorf("rejection message = %q", e.Value)
	}
}

func TestCallFastTransportFailure(t *testing.T) {
	srv, _ := fastServer(t, `{}`)
	client := newTestClient(srv)
	srv.Close()

	err := client.CallFast(context.Background(), "account_info", nil, nil)
	if !errs.Is(err, errs.NetworkFailure) {
		t.Errorf("error kind = %v, want NetworkFailure", errs.KindOf(err))
	}
}

func TestCallFastHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}))
	defer srv.Close()
	client := newTestClient(srv)

	err := client.CallFast(context.Background(), "account_info", nil, nil)
	if !errs.Is(err, errs.NetworkFailure) {
		t.Errorf("error kind = %v, want NetworkFailure", errs.KindOf(err))
	}
}

func TestCallFastNullResult(t *testing.T) {
	srv, _ := fastServer(t, `{"result":null}`)
	client := newTestClient(srv)

	var result *struct{ Value int }
	if err := client.CallFast(context.Background(), "faucet_drip", nil, &result); err != nil {
		t.Fatal(err)
	}
	if result != nil {
		t.Error("null result populated the target")
	}
}

func TestGetFastAccountInfo(t *testing.T) {
	srv, lastReq := fastServer(t, `{"result":{
		"balance":"0xde0b6b3a7640000",
		"next_nonce":5,
		"token_balance":[{"token_id":"0xdeadbeef","balance":"0x64"}]
	}}`)
	client := newTestClient(srv)

	info, err := client.GetFastAccountInfo(context.Background(), []byte{0x01, 0x02}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if info == nil {
		t.Fatal("account info is nil")
	}
	if info.Balance != "0xde0b6b3a7640000" || info.NextNonce != 5 {
		t.Errorf("account info = %+v", info)
	}
	if len(info.TokenBalances) != 1 || info.TokenBalances[0].Balance != "0x64" {
		t.Errorf("token balances = %+v", info.TokenBalances)
	}

	// The address travels as 0x-hex, the token filter as an explicit null.
	var params struct {
		Address string          `json:"address"`
		TokenID json.RawMessage `json:"token_id"`
	}
	if err := json.Unmarshal((*lastReq)["params"], &params); err != nil {
		t.Fatal(err)
	}
	if params.Address != "0x0102" {
		t.Errorf("address param = %q, want 0x0102", params.Address)
	}
	if string(params.TokenID) != "null" {
		t.Errorf("token_id param = %s, want null", params.TokenID)
	}
}

func TestGetFastAccountInfoMissingAccount(t *testing.T) {
	srv, _ := fastServer(t, `{"result":null}`)
	client := newTestClient(srv)

	info, err := client.GetFastAccountInfo(context.Background(), []byte{0x01}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if info != nil {
		t.Errorf("missing account = %+v, want nil", info)
	}
}

func TestSubmitFastTransaction(t *testing.T) {
	srv, lastReq := fastServer(t, `{"result":{"Success":{"round":12,"votes":["a","b"]}}}`)
	client := newTestClient(srv)

	tx := map[string]string{"sender": "0x01"}
	cert, err := client.SubmitFastTransaction(context.Background(), tx, []byte{0xaa, 0xbb})
	if err != nil {
		t.Fatal(err)
	}
	// The certificate comes back verbatim; it is never decoded.
	if string(cert) != `{"round":12,"votes":["a","b"]}` {
		t.Errorf("certificate = %s", cert)
	}

	var params struct {
		Transaction json.RawMessage `json:"transaction"`
		Signature   struct {
			Signature string `json:"Signature"`
		} `json:"signature"`
	}
	if err := json.Unmarshal((*lastReq)["params"], &params); err != nil {
		t.Fatal(err)
	}
	if params.Signature.Signature != "0xaabb" {
		t.Errorf("signature param = %q, want 0xaabb", params.Signature.Signature)
	}
	if len(params.Transaction) == 0 {
		t.Error("transaction param missing")
	}
}

func TestRequestFastDrip(t *testing.T) {
	srv, lastReq := fastServer(t, `{"result":null}`)
	client := newTestClient(srv)

	err := client.RequestFastDrip(context.Background(), []byte{0x0f}, "0x8ac7230489e80000")
	if err != nil {
		t.Fatal(err)
	}

	var params struct {
		Recipient string          `json:"recipient"`
		Amount    string          `json:"amount"`
		TokenID   json.RawMessage `json:"token_id"`
	}
	if err := json.Unmarshal((*lastReq)["params"], &params); err != nil {
		t.Fatal(err)
	}
	if params.Recipient != "0x0f" {
		t.Errorf("recipient param = %q, want 0x0f", params.Recipient)
	}
	if params.Amount != "0x8ac7230489e80000" {
		t.Errorf("amount param = %q", params.Amount)
	}
	if string(params.TokenID) != "null" {
		t.Errorf("token_id param = %s, want null", params.TokenID)
	}
}

func TestGetFastTokenMetadata(t *testing.T) {
	srv, lastReq := fastServer(t, `{"result":[
		{"token_id":"0xdeadbeef","metadata":{"name":"ACME","decimals":6,"total_supply":"0x3e8"}},
		{"token_id":"0xfeedface","metadata":null}
	]}`)
	client := newTestClient(srv)

	entries, err := client.GetFastTokenMetadata(context.Background(), [][]byte{
		{0xde, 0xad, 0xbe, 0xef},
		{0xfe, 0xed, 0xfa, 0xce},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entry count = %d, want 2", len(entries))
	}
	if entries[0].Metadata == nil || entries[0].Metadata.Name != "ACME" || entries[0].Metadata.Decimals != 6 {
		t.Errorf("first entry = %+v", entries[0].Metadata)
	}
	if entries[1].Metadata != nil {
		t.Error("unregistered token has metadata")
	}

	var params struct {
		TokenIDs []string `json:"token_ids"`
	}
	if err := json.Unmarshal((*lastReq)["params"], &params); err != nil {
		t.Fatal(err)
	}
	if len(params.TokenIDs) != 2 || params.TokenIDs[0] != "0xdeadbeef" {
		t.Errorf("token_ids param = %v", params.TokenIDs)
	}
}

func TestGetFastRPCOverride(t *testing.T) {
	client := &Client{
		httpClient: &http.Client{},
		network:    NetworkTestnet,
		overrides:  endpointOverrides{},
	}
	if got := client.GetFastRPC(); got != TestnetFastRPC {
		t.Errorf("default endpoint = %q, want %q", got, TestnetFastRPC)
	}

	client.overrides = endpointOverrides{"fast": {NetworkTestnet: "http://localhost:9999"}}
	if got := client.GetFastRPC(); got != "http://localhost:9999" {
		t.Errorf("override endpoint = %q", got)
	}

	// Overrides are per network: a testnet override never leaks to mainnet.
	client.network = NetworkMainnet
	if got := client.GetFastRPC(); got != MainnetFastRPC {
		t.Errorf("mainnet endpoint = %q, want %q", got, MainnetFastRPC)
	}
}
