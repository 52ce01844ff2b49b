package fast

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/holiman/uint256"
)

// Timestamp is an unsigned 128-bit nanosecond timestamp, stored as two
// little-endian 64-bit halves.
type Timestamp struct {
	Lo uint64
	Hi uint64
}

// TimestampFromTime converts a wall-clock time to a ledger timestamp.
func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp{Lo: uint64(t.UnixNano())}
}

// String returns the full 128-bit decimal value.
func (ts Timestamp) String() string {
	v := new(big.Int).SetUint64(ts.Hi)
	v.Lsh(v, 64)
	v.Add(v, new(big.Int).SetUint64(ts.Lo))
	return v.String()
}

// MarshalJSON encodes the timestamp as a decimal string; 128-bit values
// do not survive a JSON number.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

// Transaction is one Fast ledger transaction. A value is built fresh for
// every operation, encoded, signed, submitted once, then discarded.
type Transaction struct {
	Sender    PublicKey `json:"sender"`
	Recipient PublicKey `json:"recipient"`
	Nonce     uint64    `json:"nonce"`
	Timestamp Timestamp `json:"timestamp"`
	Claim     Claim     `json:"-"`
	Archival  bool      `json:"archival"`
}

// MarshalJSON produces the wire JSON form with an externally-tagged claim,
// e.g. {"claim": {"TokenTransfer": {...}}}.
func (tx *Transaction) MarshalJSON() ([]byte, error) {
	if tx.Claim == nil {
		return nil, fmt.Errorf("transaction has no claim")
	}
	type wireTx struct {
		Sender    PublicKey              `json:"sender"`
		Recipient PublicKey              `json:"recipient"`
		Nonce     uint64                 `json:"nonce"`
		Timestamp Timestamp              `json:"timestamp"`
		Claim     map[string]interface{} `json:"claim"`
		Archival  bool                   `json:"archival"`
	}
	return json.Marshal(wireTx{
		Sender:    tx.Sender,
		Recipient: tx.Recipient,
		Nonce:     tx.Nonce,
		Timestamp: tx.Timestamp,
		Claim:     map[string]interface{}{tx.Claim.claimName(): tx.Claim},
		Archival:  tx.Archival,
	})
}

// encoder builds the canonical byte encoding. All integers are
// little-endian fixed width; sequences and byte strings carry a 64-bit
// length prefix; optional fields carry a one-byte presence tag.
type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) u8(v uint8) {
	e.buf.WriteByte(v)
}

func (e *encoder) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

func (e *encoder) u128(v Timestamp) {
	e.u64(v.Lo)
	e.u64(v.Hi)
}

// u256 writes a 32-byte little-endian amount. A nil amount encodes as zero.
func (e *encoder) u256(v *uint256.Int) {
	var zero uint256.Int
	if v == nil {
		v = &zero
	}
	for i := 0; i < 4; i++ {
		e.u64(v[i])
	}
}

func (e *encoder) boolean(v bool) {
	if v {
		e.buf.WriteByte(1)
	} else {
		e.buf.WriteByte(0)
	}
}

// fixed writes raw bytes with no length prefix (fixed-width fields).
func (e *encoder) fixed(b []byte) {
	e.buf.Write(b)
}

// bytes writes a length-prefixed byte string.
func (e *encoder) bytes(b []byte) {
	e.u64(uint64(len(b)))
	e.buf.Write(b)
}

// str writes a length-prefixed UTF-8 string.
func (e *encoder) str(s string) {
	e.u64(uint64(len(s)))
	e.buf.WriteString(s)
}

// seqLen writes the length prefix of a sequence.
func (e *encoder) seqLen(n int) {
	e.u64(uint64(n))
}

// option writes the presence tag of an optional field.
func (e *encoder) option(present bool) {
	e.boolean(present)
}

// optBytes writes an optional byte string: absent when empty.
func (e *encoder) optBytes(b []byte) {
	if len(b) == 0 {
		e.option(false)
		return
	}
	e.option(true)
	e.bytes(b)
}

// EncodeTransaction serializes a transaction into its canonical bytes.
// Encoding the same logical value twice yields byte-identical output; the
// network, the transaction hash, and the signature all depend on that.
func EncodeTransaction(tx *Transaction) ([]byte, error) {
	if tx == nil {
		return nil, fmt.Errorf("nil transaction")
	}
	if tx.Claim == nil {
		return nil, fmt.Errorf("transaction has no claim")
	}

	var e encoder
	e.fixed(tx.Sender[:])
	e.fixed(tx.Recipient[:])
	e.u64(tx.Nonce)
	e.u128(tx.Timestamp)
	e.u32(tx.Claim.claimTag())
	tx.Claim.encodePayload(&e)
	e.boolean(tx.Archival)

	return e.buf.Bytes(), nil
}
