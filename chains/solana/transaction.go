// Package solana builds and signs SOL transfer transactions.
package solana

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/mr-tron/base58"
)

// Transaction collects instructions and signers until a fresh blockhash
// arrives. The blockhash is set last because it expires quickly.
type Transaction struct {
	Instructions    []solana.Instruction
	Signers         []solana.PrivateKey
	FeePayer        solana.PublicKey
	RecentBlockhash string
}

// CreateTransferTransaction builds a single-transfer transaction. The
// blockhash may be empty here and set later via SetRecentBlockhash.
func CreateTransferTransaction(from solana.PrivateKey, to solana.PublicKey, amount uint64, recentBlockhash string) (*Transaction, error) {
	instruction := system.NewTransferInstruction(amount, from.PublicKey(), to).Build()
	return &Transaction{
		Instructions:    []solana.Instruction{instruction},
		Signers:         []solana.PrivateKey{from},
		FeePayer:        from.PublicKey(),
		RecentBlockhash: recentBlockhash,
	}, nil
}

func (tx *Transaction) SetRecentBlockhash(blockhash string) {
	tx.RecentBlockhash = blockhash
}

// BuildAndSign assembles, signs, and serializes the transaction to the
// base58 form sendTransaction expects.
func (tx *Transaction) BuildAndSign() (string, error) {
	if tx.RecentBlockhash == "" {
		return "", fmt.Errorf("blockhash is empty")
	}

	blockhash, err := solana.HashFromBase58(tx.RecentBlockhash)
	if err != nil {
		return "", fmt.Errorf("invalid blockhash format: %w", err)
	}

	stx, err := solana.NewTransaction(
		tx.Instructions,
		blockhash,
		solana.TransactionPayer(tx.FeePayer),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	if len(tx.Signers) == 0 {
		return "", fmt.Errorf("no signers provided for transaction")
	}

	_, err = stx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for _, signer := range tx.Signers {
			if key.Equals(signer.PublicKey()) {
				return &signer
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	serialized, err := stx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}

	return base58.Encode(serialized), nil
}

// ParseAddress parses and validates a Solana address
func ParseAddress(address string) (solana.PublicKey, error) {
	// Catch characters base58 never uses before handing off to the library
	if strings.ContainsAny(address, "0OIl") {
		return solana.PublicKey{}, fmt.Errorf("invalid Solana address: contains non-base58 characters")
	}

	pubKey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid Solana address (%s): %w", address, err)
	}
	return pubKey, nil
}

// ValidateAddress validates a Solana address
func ValidateAddress(address string) error {
	_, err := ParseAddress(address)
	return err
}

// FormatBalance formats lamports in a human-readable format
func FormatBalance(lamports uint64) string {
	return fmt.Sprintf("%.9f SOL", float64(lamports)/1e9)
}
