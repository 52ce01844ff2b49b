package registry

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/chinmay1088/lumen/api"
	"github.com/chinmay1088/lumen/chains/bitcoin"
	"github.com/chinmay1088/lumen/errs"
	"github.com/chinmay1088/lumen/wallet"
)

// bitcoinAdapter drives BTC transfers. Mainnet only; testnet requests
// fail at the API layer.
type bitcoinAdapter struct {
	client  *api.Client
	manager *wallet.Manager
}

func newBitcoinAdapter(manager *wallet.Manager, network string) *bitcoinAdapter {
	return &bitcoinAdapter{
		client:  api.NewClientForNetwork(network),
		manager: manager,
	}
}

func (a *bitcoinAdapter) SetupWallet() (string, error) {
	addr, err := a.manager.GetBitcoinAddress()
	if err != nil {
		return "", err
	}
	return addr.String(), nil
}

func (a *bitcoinAdapter) Balance(ctx context.Context, address, token string) (*BalanceResult, error) {
	if token != "" {
		return nil, errs.New(errs.TokenNotFound, "btc", "token balances are not supported: "+token)
	}
	if err := bitcoin.ValidateAddress(address); err != nil {
		return nil, errs.Wrap(errs.InvalidInput, "btc", err)
	}

	btc, err := a.client.GetBitcoinBalance(address)
	if err != nil {
		return nil, errs.Wrap(errs.NetworkFailure, "btc", err)
	}
	return &BalanceResult{Amount: decimal.NewFromFloat(btc).String(), Token: "BTC"}, nil
}

func (a *bitcoinAdapter) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if req.Token != "" {
		return nil, errs.New(errs.TokenNotFound, "btc", "token transfers are not supported: "+req.Token)
	}

	recipient, err := bitcoin.ParseAddress(req.To)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidInput, "btc", err)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.Sign() <= 0 {
		return nil, errs.New(errs.InvalidInput, "btc", "invalid amount: "+req.Amount)
	}
	value := amount.Shift(8).IntPart()

	sender, err := a.manager.GetBitcoinAddress()
	if err != nil {
		return nil, err
	}

	apiUtxos, err := a.client.GetBitcoinUTXOs(sender.String())
	if err != nil {
		return nil, errs.Wrap(errs.NetworkFailure, "btc", err)
	}
	if len(apiUtxos) == 0 {
		return nil, errs.New(errs.InsufficientBalance, "btc", "wallet has no unspent outputs")
	}

	var utxos []*bitcoin.UTXO
	totalInput := int64(0)
	for _, u := range apiUtxos {
		utxoValue := bitcoin.BTCToSatoshis(u.Value)
		totalInput += utxoValue
		utxos = append(utxos, &bitcoin.UTXO{
			TxID:   u.TxID,
			Vout:   u.Vout,
			Value:  utxoValue,
			Script: []byte(u.Script),
		})
	}

	feeRate, err := a.client.GetBitcoinFeeEstimate()
	if err != nil {
		feeRate = 10
	}

	tx := bitcoin.NewTransaction()
	for _, utxo := range utxos {
		if err := tx.AddInput(utxo, nil, sender); err != nil {
			return nil, errs.Wrap(errs.InvalidInput, "btc", err)
		}
	}
	if err := tx.AddOutput(value, recipient); err != nil {
		return nil, errs.Wrap(errs.InvalidInput, "btc", err)
	}

	// P2WPKH: ~110 vbytes per input, 34 per output, 10 overhead
	txSize := 10 + len(utxos)*110 + 34
	fee := int64(txSize) * feeRate

	change := totalInput - value - fee
	const dustThreshold = int64(546)
	if change > 0 && change < dustThreshold {
		fee += change
		change = 0
	}
	if change > 0 {
		if err := tx.AddOutput(change, sender); err != nil {
			return nil, errs.Wrap(errs.InvalidInput, "btc", err)
		}
		txSize += 34
		if newFee := int64(txSize) * feeRate; newFee > fee {
			increase := newFee - fee
			if change > increase {
				change -= increase
				fee = newFee
				tx.UpdateChangeOutput(change)
			}
		}
	}

	if totalInput < value+fee {
		return nil, errs.New(errs.InsufficientBalance, "btc",
			"need "+bitcoin.FormatBalance(value+fee)+" including fees, have "+bitcoin.FormatBalance(totalInput))
	}

	key, err := a.manager.GetBitcoinKey()
	if err != nil {
		return nil, err
	}

	if err := tx.SignTransaction(utxos, key, sender); err != nil {
		return nil, errs.Wrap(errs.TxFailed, "btc", err)
	}

	signedTx, err := tx.Serialize()
	if err != nil {
		return nil, errs.Wrap(errs.TxFailed, "btc", err)
	}

	txHash, err := a.client.SendBitcoinTransaction(signedTx)
	if err != nil {
		return nil, errs.Wrap(errs.TxFailed, "btc", err)
	}

	return &SendResult{
		TxHash:   txHash,
		Fee:      decimal.New(fee, -8).String(),
		Explorer: "https://blockstream.info/tx/" + txHash,
	}, nil
}

func (a *bitcoinAdapter) Faucet(ctx context.Context, address string) (*FaucetResult, error) {
	return nil, errs.New(errs.Unsupported, "btc", "no faucet for this chain")
}

func (a *bitcoinAdapter) SignMessage(msg []byte) ([]byte, error) {
	return nil, errs.New(errs.Unsupported, "btc", "message signing is not supported")
}

func (a *bitcoinAdapter) VerifyMessage(address string, msg, sig []byte) bool {
	return false
}

func (a *bitcoinAdapter) OwnedTokens(ctx context.Context, address string) ([]TokenInfo, error) {
	res, err := a.Balance(ctx, address, "")
	if err != nil {
		return nil, err
	}
	return []TokenInfo{{Symbol: "BTC", Balance: res.Amount, Decimals: 8}}, nil
}
