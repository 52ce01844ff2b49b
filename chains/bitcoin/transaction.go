// Package bitcoin builds and signs P2WPKH transfer transactions.
package bitcoin

import (
	"bytes"
	"crypto/ecdsa"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// UTXO represents an unspent transaction output
type UTXO struct {
	TxID   string
	Vout   uint32
	Value  int64
	Script []byte
}

// Transaction represents a Bitcoin transaction under construction
type Transaction struct {
	Version  int32
	Inputs   []*wire.TxIn
	Outputs  []*wire.TxOut
	LockTime uint32
}

// NewTransaction creates a new SegWit transaction
func NewTransaction() *Transaction {
	return &Transaction{
		Version:  2,
		Inputs:   make([]*wire.TxIn, 0),
		Outputs:  make([]*wire.TxOut, 0),
		LockTime: 0,
	}
}

// AddInput adds an input spending the given UTXO. Signature and witness
// are filled in by SignTransaction.
func (tx *Transaction) AddInput(utxo *UTXO, _ *btcec.PrivateKey, _ btcutil.Address) error {
	prevHash, err := chainhash.NewHashFromStr(utxo.TxID)
	if err != nil {
		return fmt.Errorf("invalid previous transaction hash: %w", err)
	}
	input := wire.NewTxIn(wire.NewOutPoint(prevHash, utxo.Vout), nil, nil)
	tx.Inputs = append(tx.Inputs, input)
	return nil
}

// AddOutput adds an output paying the given address
func (tx *Transaction) AddOutput(value int64, address btcutil.Address) error {
	script, err := txscript.PayToAddrScript(address)
	if err != nil {
		return fmt.Errorf("failed to create output script: %w", err)
	}
	tx.Outputs = append(tx.Outputs, wire.NewTxOut(value, script))
	return nil
}

// UpdateChangeOutput updates the value of the change output, which is
// always the last output added.
func (tx *Transaction) UpdateChangeOutput(value int64) error {
	if len(tx.Outputs) < 2 {
		return fmt.Errorf("no change output to update")
	}
	tx.Outputs[len(tx.Outputs)-1].Value = value
	return nil
}

// SignTransaction signs all inputs with witness signatures. The UTXOs
// must be in the same order as the inputs.
func (tx *Transaction) SignTransaction(utxos []*UTXO, privateKey *btcec.PrivateKey, address btcutil.Address) error {
	wireTx := tx.toWireTx()
	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	hashes := txscript.NewTxSigHashes(wireTx, fetcher)
	for i, input := range tx.Inputs {
		if i >= len(utxos) {
			return fmt.Errorf("insufficient UTXOs for signing")
		}
		utxo := utxos[i]
		script, err := txscript.PayToAddrScript(address)
		if err != nil {
			return fmt.Errorf("failed to create script: %w", err)
		}
		sighash, err := txscript.CalcWitnessSigHash(script, hashes, txscript.SigHashAll, wireTx, i, utxo.Value)
		if err != nil {
			return fmt.Errorf("failed to calculate sighash: %w", err)
		}

		sig, err := ecdsa.SignASN1(nil, privateKey.ToECDSA(), sighash)
		if err != nil {
			return fmt.Errorf("failed to sign input %d: %w", i, err)
		}

		input.Witness = wire.TxWitness{
			append(sig, byte(txscript.SigHashAll)),
			privateKey.PubKey().SerializeCompressed(),
		}
	}
	return nil
}

// Serialize serializes the transaction to hex
func (tx *Transaction) Serialize() (string, error) {
	wireTx := tx.toWireTx()
	var buf bytes.Buffer
	if err := wireTx.Serialize(&buf); err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return fmt.Sprintf("%x", buf.Bytes()), nil
}

func (tx *Transaction) toWireTx() *wire.MsgTx {
	wireTx := wire.NewMsgTx(tx.Version)
	for _, input := range tx.Inputs {
		wireTx.AddTxIn(input)
	}
	for _, output := range tx.Outputs {
		wireTx.AddTxOut(output)
	}
	wireTx.LockTime = tx.LockTime
	return wireTx
}

// ParseAddress parses a mainnet Bitcoin address
func ParseAddress(address string) (btcutil.Address, error) {
	return btcutil.DecodeAddress(address, &chaincfg.MainNetParams)
}

// ValidateAddress validates a Bitcoin address
func ValidateAddress(address string) error {
	_, err := ParseAddress(address)
	return err
}

// BTCToSatoshis converts BTC to satoshis
func BTCToSatoshis(btc float64) int64 {
	return int64(btc * 100000000.0)
}

// FormatBalance formats satoshis in a human-readable format
func FormatBalance(satoshis int64) string {
	return fmt.Sprintf("%.8f BTC", float64(satoshis)/100000000.0)
}
