package registry

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/chinmay1088/lumen/api"
	"github.com/chinmay1088/lumen/chains/solana"
	"github.com/chinmay1088/lumen/errs"
	"github.com/chinmay1088/lumen/wallet"
)

// Solana transaction fees are fixed per signature
const solanaFeeLamports = uint64(5000)

type solanaAdapter struct {
	client  *api.Client
	manager *wallet.Manager
}

func newSolanaAdapter(manager *wallet.Manager, network string) *solanaAdapter {
	return &solanaAdapter{
		client:  api.NewClientForNetwork(network),
		manager: manager,
	}
}

func (a *solanaAdapter) SetupWallet() (string, error) {
	addr, err := a.manager.GetSolanaAddress()
	if err != nil {
		return "", err
	}
	return addr.String(), nil
}

func (a *solanaAdapter) Balance(ctx context.Context, address, token string) (*BalanceResult, error) {
	if token != "" {
		return nil, errs.New(errs.TokenNotFound, "sol", "token balances are not supported: "+token)
	}
	if err := solana.ValidateAddress(address); err != nil {
		return nil, errs.Wrap(errs.InvalidInput, "sol", err)
	}

	lamports, err := a.client.GetSolanaBalance(address)
	if err != nil {
		return nil, errs.Wrap(errs.NetworkFailure, "sol", err)
	}
	return &BalanceResult{
		Amount: decimal.New(int64(lamports), -9).String(),
		Token:  "SOL",
	}, nil
}

func (a *solanaAdapter) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if req.Token != "" {
		return nil, errs.New(errs.TokenNotFound, "sol", "token transfers are not supported: "+req.Token)
	}

	recipient, err := solana.ParseAddress(req.To)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidInput, "sol", err)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.Sign() <= 0 {
		return nil, errs.New(errs.InvalidInput, "sol", "invalid amount: "+req.Amount)
	}
	value := uint64(amount.Shift(9).IntPart())

	sender, err := a.manager.GetSolanaAddress()
	if err != nil {
		return nil, err
	}

	balance, err := a.client.GetSolanaBalance(sender.String())
	if err != nil {
		return nil, errs.Wrap(errs.NetworkFailure, "sol", err)
	}
	if balance < value+solanaFeeLamports {
		return nil, errs.New(errs.InsufficientBalance, "sol",
			"need "+solana.FormatBalance(value+solanaFeeLamports)+" including fees, have "+solana.FormatBalance(balance))
	}

	key, err := a.manager.GetSolanaKey()
	if err != nil {
		return nil, err
	}

	tx, err := solana.CreateTransferTransaction(key, recipient, value, "")
	if err != nil {
		return nil, errs.Wrap(errs.InvalidInput, "sol", err)
	}

	// Fetch the blockhash immediately before signing; a stale one expires
	blockhash, err := a.client.GetSolanaRecentBlockhash()
	if err != nil {
		return nil, errs.Wrap(errs.NetworkFailure, "sol", err)
	}
	tx.SetRecentBlockhash(blockhash)

	signedTx, err := tx.BuildAndSign()
	if err != nil {
		return nil, errs.Wrap(errs.TxFailed, "sol", err)
	}

	txHash, err := a.client.SendSolanaTransaction(signedTx)
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "insufficient funds") || strings.Contains(msg, "0x1") {
			return nil, errs.New(errs.InsufficientBalance, "sol", msg)
		}
		return nil, errs.Wrap(errs.TxFailed, "sol", err)
	}

	explorer := "https://solscan.io/tx/" + txHash
	if a.client.IsTestnet() {
		explorer += "?cluster=devnet"
	}

	return &SendResult{
		TxHash:   txHash,
		Fee:      decimal.New(int64(solanaFeeLamports), -9).String(),
		Explorer: explorer,
	}, nil
}

func (a *solanaAdapter) Faucet(ctx context.Context, address string) (*FaucetResult, error) {
	return nil, errs.New(errs.Unsupported, "sol", "no faucet for this chain")
}

func (a *solanaAdapter) SignMessage(msg []byte) ([]byte, error) {
	return nil, errs.New(errs.Unsupported, "sol", "message signing is not supported")
}

func (a *solanaAdapter) VerifyMessage(address string, msg, sig []byte) bool {
	return false
}

func (a *solanaAdapter) OwnedTokens(ctx context.Context, address string) ([]TokenInfo, error) {
	res, err := a.Balance(ctx, address, "")
	if err != nil {
		return nil, err
	}
	return []TokenInfo{{Symbol: "SOL", Balance: res.Amount, Decimals: 9}}, nil
}
