package registry

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/chinmay1088/lumen/api"
	"github.com/chinmay1088/lumen/chains/fast"
	"github.com/chinmay1088/lumen/wallet"
)

// fastAdapter binds the Fast protocol client to the wallet keystore.
type fastAdapter struct {
	client  *fast.Client
	manager *wallet.Manager
}

func newFastAdapter(manager *wallet.Manager, network string) *fastAdapter {
	rpc := api.NewClientForNetwork(network)
	return &fastAdapter{
		client:  fast.NewClient(rpc, rpc.IsTestnet()),
		manager: manager,
	}
}

func (a *fastAdapter) SetupWallet() (string, error) {
	return a.client.SetupWallet(a.manager)
}

// displayAmount converts a base-unit amount to display units. Custom
// tokens with unknown decimals stay in base units.
func displayAmount(baseUnits string, decimals uint8) string {
	d, err := decimal.NewFromString(baseUnits)
	if err != nil || decimals == 0 {
		return baseUnits
	}
	return d.Shift(-int32(decimals)).String()
}

func (a *fastAdapter) Balance(ctx context.Context, address, token string) (*BalanceResult, error) {
	res, err := a.client.Balance(ctx, address, token)
	if err != nil {
		return nil, err
	}
	amount := res.Amount
	if res.Token == fast.NativeTokenSymbol {
		amount = displayAmount(amount, fast.NativeTokenDecimals)
	}
	return &BalanceResult{Amount: amount, Token: res.Token}, nil
}

// sendAmount converts a native display amount to base units. The token
// name matches case-insensitively, same as the client's own token
// resolution. Custom token amounts pass through unchanged because their
// decimals are not known here.
func sendAmount(amount, token string) (string, error) {
	if token != "" && !strings.EqualFold(token, fast.NativeTokenSymbol) {
		return amount, nil
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", err
	}
	return d.Shift(fast.NativeTokenDecimals).String(), nil
}

func (a *fastAdapter) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	from, err := a.client.SetupWallet(a.manager)
	if err != nil {
		return nil, err
	}

	amount, err := sendAmount(req.Amount, req.Token)
	if err != nil {
		return nil, err
	}

	res, err := a.client.Send(ctx, fast.SendRequest{
		From:   from,
		To:     req.To,
		Amount: amount,
		Token:  req.Token,
	}, a.manager)
	if err != nil {
		return nil, err
	}
	return &SendResult{TxHash: res.TxHash, Fee: res.Fee}, nil
}

func (a *fastAdapter) Faucet(ctx context.Context, address string) (*FaucetResult, error) {
	res, err := a.client.Faucet(ctx, address)
	if err != nil {
		return nil, err
	}
	return &FaucetResult{
		Amount: displayAmount(res.Amount, fast.NativeTokenDecimals),
		Token:  res.Token,
		TxHash: res.TxHash,
	}, nil
}

func (a *fastAdapter) SignMessage(msg []byte) ([]byte, error) {
	return a.client.SignMessage(msg, a.manager)
}

func (a *fastAdapter) VerifyMessage(address string, msg, sig []byte) bool {
	return a.client.VerifyMessage(address, msg, sig)
}

func (a *fastAdapter) OwnedTokens(ctx context.Context, address string) ([]TokenInfo, error) {
	tokens, err := a.client.OwnedTokens(ctx, address)
	if err != nil {
		return nil, err
	}
	out := make([]TokenInfo, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, TokenInfo{
			Symbol:   t.Symbol,
			Address:  t.Address,
			Balance:  displayAmount(t.Balance, t.Decimals),
			Decimals: t.Decimals,
		})
	}
	return out, nil
}
