package registry

import (
	"context"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/chinmay1088/lumen/api"
	"github.com/chinmay1088/lumen/chains/ethereum"
	"github.com/chinmay1088/lumen/errs"
	"github.com/chinmay1088/lumen/wallet"
)

// ethereumAdapter drives ETH transfers over JSON-RPC. Token balances and
// the faucet are not part of this adapter's surface.
type ethereumAdapter struct {
	client  *api.Client
	manager *wallet.Manager
}

func newEthereumAdapter(manager *wallet.Manager, network string) *ethereumAdapter {
	return &ethereumAdapter{
		client:  api.NewClientForNetwork(network),
		manager: manager,
	}
}

func (a *ethereumAdapter) SetupWallet() (string, error) {
	addr, err := a.manager.GetEthereumAddress()
	if err != nil {
		return "", err
	}
	return addr.Hex(), nil
}

func (a *ethereumAdapter) Balance(ctx context.Context, address, token string) (*BalanceResult, error) {
	if token != "" {
		return nil, errs.New(errs.TokenNotFound, "eth", "token balances are not supported: "+token)
	}
	if _, err := ethereum.ParseAddress(address); err != nil {
		return nil, errs.Wrap(errs.InvalidInput, "eth", err)
	}

	balance, err := a.client.GetEthereumBalance(address)
	if err != nil {
		return nil, errs.Wrap(errs.NetworkFailure, "eth", err)
	}

	eth := decimal.NewFromBigInt(balance, -18)
	return &BalanceResult{Amount: eth.String(), Token: "ETH"}, nil
}

func (a *ethereumAdapter) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if req.Token != "" {
		return nil, errs.New(errs.TokenNotFound, "eth", "token transfers are not supported: "+req.Token)
	}

	recipient, err := ethereum.ParseAddress(req.To)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidInput, "eth", err)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.Sign() <= 0 {
		return nil, errs.New(errs.InvalidInput, "eth", "invalid amount: "+req.Amount)
	}
	value := amount.Shift(18).BigInt()

	sender, err := a.manager.GetEthereumAddress()
	if err != nil {
		return nil, err
	}

	balance, err := a.client.GetEthereumBalance(sender.Hex())
	if err != nil {
		return nil, errs.Wrap(errs.NetworkFailure, "eth", err)
	}

	nonce, err := a.client.GetEthereumNonce(sender.Hex())
	if err != nil {
		return nil, errs.Wrap(errs.NetworkFailure, "eth", err)
	}

	gasPrice, err := a.client.GetEthereumGasPrice()
	if err != nil {
		return nil, errs.Wrap(errs.NetworkFailure, "eth", err)
	}
	// Pay 20% over the market rate for faster inclusion
	gasPrice.Mul(gasPrice, big.NewInt(120))
	gasPrice.Div(gasPrice, big.NewInt(100))

	gasLimit, err := a.client.GetEthereumGasEstimate(sender.Hex(), recipient.Hex(), value, nil)
	if err != nil {
		gasLimit = ethereum.EstimateGasLimit(nil)
	}

	maxFee := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))
	totalCost := new(big.Int).Add(value, maxFee)
	if balance.Cmp(totalCost) < 0 {
		return nil, errs.New(errs.InsufficientBalance, "eth",
			fmt.Sprintf("need %s ETH including fees, have %s ETH",
				decimal.NewFromBigInt(totalCost, -18), decimal.NewFromBigInt(balance, -18)))
	}

	tx := ethereum.NewTransaction(nonce, recipient, value, gasLimit, gasPrice, nil)
	if err := ethereum.ValidateTransaction(tx); err != nil {
		return nil, errs.Wrap(errs.InvalidInput, "eth", err)
	}

	key, err := a.manager.GetEthereumKey()
	if err != nil {
		return nil, err
	}

	chainID := ethereum.MainnetChainID
	if a.client.IsTestnet() {
		chainID = ethereum.SepoliaChainID
	}

	signedTx, err := ethereum.SignTransaction(tx, key, chainID)
	if err != nil {
		return nil, err
	}

	txHash, err := a.client.SendEthereumTransaction(signedTx)
	if err != nil {
		return nil, errs.Wrap(errs.TxFailed, "eth", err)
	}

	explorer := "https://etherscan.io/tx/" + txHash
	if a.client.IsTestnet() {
		explorer = "https://sepolia.etherscan.io/tx/" + txHash
	}

	return &SendResult{
		TxHash:   txHash,
		Fee:      decimal.NewFromBigInt(maxFee, -18).String(),
		Explorer: explorer,
	}, nil
}

func (a *ethereumAdapter) Faucet(ctx context.Context, address string) (*FaucetResult, error) {
	return nil, errs.New(errs.Unsupported, "eth", "no faucet for this chain")
}

func (a *ethereumAdapter) SignMessage(msg []byte) ([]byte, error) {
	return nil, errs.New(errs.Unsupported, "eth", "message signing is not supported")
}

func (a *ethereumAdapter) VerifyMessage(address string, msg, sig []byte) bool {
	return false
}

func (a *ethereumAdapter) OwnedTokens(ctx context.Context, address string) ([]TokenInfo, error) {
	res, err := a.Balance(ctx, address, "")
	if err != nil {
		return nil, err
	}
	return []TokenInfo{{Symbol: "ETH", Balance: res.Amount, Decimals: 18}}, nil
}
