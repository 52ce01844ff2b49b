package ethereum

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Chain IDs for transaction replay protection
var (
	MainnetChainID = big.NewInt(1)
	SepoliaChainID = big.NewInt(11155111)
)

// ParseAddress parses and validates an Ethereum address
func ParseAddress(address string) (common.Address, error) {
	if !strings.HasPrefix(address, "0x") {
		return common.Address{}, fmt.Errorf("address must start with 0x")
	}
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("invalid Ethereum address: %s", address)
	}
	return common.HexToAddress(address), nil
}

// EtherToWei converts an ether amount to wei
func EtherToWei(ether *big.Float) *big.Int {
	wei := new(big.Float).Mul(ether, big.NewFloat(1e18))
	result, _ := wei.Int(nil)
	return result
}

// WeiToEther converts wei to ether
func WeiToEther(wei *big.Int) float64 {
	ether := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18))
	result, _ := ether.Float64()
	return result
}

// EstimateGasLimit returns a conservative gas limit for a transfer
func EstimateGasLimit(data []byte) uint64 {
	// 21000 covers a plain transfer; add 68 gas per data byte
	gas := uint64(21000)
	gas += uint64(len(data)) * 68
	return gas
}

// NewTransaction creates an unsigned legacy transaction
func NewTransaction(nonce uint64, to common.Address, value *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte) *types.Transaction {
	return types.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)
}

// ValidateTransaction performs basic sanity checks before signing
func ValidateTransaction(tx *types.Transaction) error {
	if tx == nil {
		return fmt.Errorf("transaction is nil")
	}
	if tx.To() == nil {
		return fmt.Errorf("transaction has no recipient")
	}
	if tx.Value() == nil || tx.Value().Sign() < 0 {
		return fmt.Errorf("transaction value is invalid")
	}
	if tx.GasPrice() == nil || tx.GasPrice().Sign() <= 0 {
		return fmt.Errorf("gas price is invalid")
	}
	if tx.Gas() < 21000 {
		return fmt.Errorf("gas limit %d is below the transfer minimum", tx.Gas())
	}
	return nil
}

// SignTransaction signs a transaction with EIP-155 replay protection and
// returns the hex-encoded raw transaction ready for eth_sendRawTransaction
func SignTransaction(tx *types.Transaction, key *ecdsa.PrivateKey, chainID *big.Int) (string, error) {
	signer := types.NewEIP155Signer(chainID)
	signedTx, err := types.SignTx(tx, signer, key)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	raw, err := signedTx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}

	return "0x" + hex.EncodeToString(raw), nil
}
