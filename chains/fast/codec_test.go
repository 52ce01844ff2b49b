package fast

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/holiman/uint256"
)

func testTx() *Transaction {
	return &Transaction{
		Sender:    testKey(0x01),
		Recipient: testKey(0x02),
		Nonce:     7,
		Timestamp: Timestamp{Lo: 1700000000000000000},
		Claim: &TokenTransfer{
			Token:  NativeTokenID(),
			Amount: uint256.NewInt(1),
		},
	}
}

func TestEncodeTransactionLayout(t *testing.T) {
	tx := testTx()
	enc, err := EncodeTransaction(tx)
	if err != nil {
		t.Fatal(err)
	}

	// sender(32) recipient(32) nonce(8) timestamp(16) tag(4) token(32)
	// amount(32) userdata-option(1) archival(1)
	if len(enc) != 158 {
		t.Fatalf("encoded length = %d, want 158", len(enc))
	}

	if !bytes.Equal(enc[0:32], tx.Sender[:]) {
		t.Error("sender bytes wrong")
	}
	if !bytes.Equal(enc[32:64], tx.Recipient[:]) {
		t.Error("recipient bytes wrong")
	}
	if got := binary.LittleEndian.Uint64(enc[64:72]); got != tx.Nonce {
		t.Errorf("nonce = %d, want %d", got, tx.Nonce)
	}
	if got := binary.LittleEndian.Uint64(enc[72:80]); got != tx.Timestamp.Lo {
		t.Errorf("timestamp lo = %d, want %d", got, tx.Timestamp.Lo)
	}
	if got := binary.LittleEndian.Uint64(enc[80:88]); got != 0 {
		t.Errorf("timestamp hi = %d, want 0", got)
	}
	if got := binary.LittleEndian.Uint32(enc[88:92]); got != 0 {
		t.Errorf("claim tag = %d, want 0 (TokenTransfer)", got)
	}
	native := NativeTokenID()
	if !bytes.Equal(enc[92:124], native[:]) {
		t.Error("token id bytes wrong")
	}
	// amount 1 = word0 little-endian
	if got := binary.LittleEndian.Uint64(enc[124:132]); got != 1 {
		t.Errorf("amount word0 = %d, want 1", got)
	}
	if enc[156] != 0 {
		t.Errorf("user data option = %d, want 0 (absent)", enc[156])
	}
	if enc[157] != 0 {
		t.Errorf("archival = %d, want 0", enc[157])
	}
}

func TestEncodeTransactionDeterministic(t *testing.T) {
	tx := testTx()
	a, err := EncodeTransaction(tx)
	if err != nil {
		t.Fatal(err)
	}
	b, err := EncodeTransaction(tx)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("encoding the same transaction twice differs")
	}
}

func TestEncodeTransactionFieldSensitivity(t *testing.T) {
	base, err := EncodeTransaction(testTx())
	if err != nil {
		t.Fatal(err)
	}

	mutations := map[string]func(*Transaction){
		"nonce":     func(tx *Transaction) { tx.Nonce++ },
		"sender":    func(tx *Transaction) { tx.Sender[0] ^= 1 },
		"recipient": func(tx *Transaction) { tx.Recipient[31] ^= 1 },
		"timestamp": func(tx *Transaction) { tx.Timestamp.Lo++ },
		"archival":  func(tx *Transaction) { tx.Archival = true },
		"amount": func(tx *Transaction) {
			tx.Claim.(*TokenTransfer).Amount = uint256.NewInt(2)
		},
	}

	for name, mutate := range mutations {
		tx := testTx()
		mutate(tx)
		enc, err := EncodeTransaction(tx)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if bytes.Equal(base, enc) {
			t.Errorf("changing %s did not change the encoding", name)
		}
	}
}

func TestEncodeTransactionErrors(t *testing.T) {
	if _, err := EncodeTransaction(nil); err == nil {
		t.Error("nil transaction encoded without error")
	}
	if _, err := EncodeTransaction(&Transaction{}); err == nil {
		t.Error("claimless transaction encoded without error")
	}
}

func TestOptBytesEncoding(t *testing.T) {
	withData := testTx()
	withData.Claim.(*TokenTransfer).UserData = []byte{0xaa, 0xbb}

	enc, err := EncodeTransaction(withData)
	if err != nil {
		t.Fatal(err)
	}
	// option(1) + length(8) + 2 data bytes replace the single absent byte
	if len(enc) != 158+10 {
		t.Fatalf("encoded length = %d, want %d", len(enc), 168)
	}
	if enc[156] != 1 {
		t.Errorf("user data option = %d, want 1 (present)", enc[156])
	}
	if got := binary.LittleEndian.Uint64(enc[157:165]); got != 2 {
		t.Errorf("user data length = %d, want 2", got)
	}
	if enc[165] != 0xaa || enc[166] != 0xbb {
		t.Error("user data bytes wrong")
	}
}

func TestClaimTags(t *testing.T) {
	tests := []struct {
		claim Claim
		tag   uint32
		name  string
	}{
		{&TokenTransfer{}, 0, "TokenTransfer"},
		{&TokenCreation{}, 1, "TokenCreation"},
		{&TokenManagement{}, 2, "TokenManagement"},
		{&Mint{}, 3, "Mint"},
		{ValidatorJoin, 4, "ValidatorJoin"},
		{ValidatorLeave, 5, "ValidatorLeave"},
		{EpochChange, 6, "EpochChange"},
		{ProtocolUpgrade, 7, "ProtocolUpgrade"},
		{ConfigChange, 8, "ConfigChange"},
		{Checkpoint, 9, "Checkpoint"},
		{&ExternalClaim{}, 10, "ExternalClaim"},
		{&Batch{}, 11, "Batch"},
	}

	for _, tt := range tests {
		if got := tt.claim.claimTag(); got != tt.tag {
			t.Errorf("%s tag = %d, want %d", tt.name, got, tt.tag)
		}
		if got := tt.claim.claimName(); got != tt.name {
			t.Errorf("claim name = %q, want %q", got, tt.name)
		}
	}
}

func TestExternalClaimEncoding(t *testing.T) {
	sig := make(HexBytes, SignatureSize)
	for i := range sig {
		sig[i] = 0xcc
	}
	tx := testTx()
	tx.Claim = &ExternalClaim{
		Committee: []PublicKey{testKey(0x05)},
		Quorum:    1,
		Payload:   HexBytes{0x01, 0x02, 0x03},
		Signatures: []CommitteeSignature{
			{Signer: testKey(0x05), Signature: sig},
		},
	}

	enc, err := EncodeTransaction(tx)
	if err != nil {
		t.Fatal(err)
	}

	// 88-byte header, 4-byte tag, then: committee count(8) + member(32) +
	// quorum(4) + payload len(8) + payload(3) + sig count(8) +
	// signer(32) + sig len(8) + sig(64) + archival(1).
	if len(enc) != 92+8+32+4+8+3+8+32+8+SignatureSize+1 {
		t.Fatalf("encoded length = %d", len(enc))
	}
	if got := binary.LittleEndian.Uint32(enc[88:92]); got != 10 {
		t.Errorf("claim tag = %d, want 10 (ExternalClaim)", got)
	}
	if got := binary.LittleEndian.Uint64(enc[136:144]); got != 3 {
		t.Errorf("payload length = %d, want 3", got)
	}
	// Each committee signature is length-prefixed so the sequence stays
	// self-delimiting for any signature width.
	if got := binary.LittleEndian.Uint64(enc[187:195]); got != SignatureSize {
		t.Errorf("signature length = %d, want %d", got, SignatureSize)
	}
	if enc[195] != 0xcc || enc[194+SignatureSize] != 0xcc {
		t.Error("signature bytes misplaced")
	}
}

func TestBatchEncoding(t *testing.T) {
	tx := testTx()
	tx.Claim = &Batch{
		Operations: []Operation{
			&OpTokenTransfer{
				Recipient: testKey(0x03),
				Token:     NativeTokenID(),
				Amount:    uint256.NewInt(5),
			},
			&OpMint{
				Recipient: testKey(0x04),
				Token:     NativeTokenID(),
				Amount:    uint256.NewInt(6),
			},
		},
	}

	enc, err := EncodeTransaction(tx)
	if err != nil {
		t.Fatal(err)
	}

	// Claim tag 11, then the operation count.
	if got := binary.LittleEndian.Uint32(enc[88:92]); got != 11 {
		t.Errorf("claim tag = %d, want 11 (Batch)", got)
	}
	if got := binary.LittleEndian.Uint64(enc[92:100]); got != 2 {
		t.Errorf("operation count = %d, want 2", got)
	}
	// First operation: tag 0 (TokenTransfer), then its recipient.
	if got := binary.LittleEndian.Uint32(enc[100:104]); got != 0 {
		t.Errorf("op tag = %d, want 0", got)
	}
	rec := testKey(0x03)
	if !bytes.Equal(enc[104:136], rec[:]) {
		t.Error("batch op recipient wrong")
	}
}

func TestTimestampString(t *testing.T) {
	tests := []struct {
		ts   Timestamp
		want string
	}{
		{Timestamp{}, "0"},
		{Timestamp{Lo: 42}, "42"},
		{Timestamp{Lo: 0, Hi: 1}, "18446744073709551616"}, // 2^64
	}
	for _, tt := range tests {
		if got := tt.ts.String(); got != tt.want {
			t.Errorf("Timestamp{%d,%d}.String() = %q, want %q", tt.ts.Lo, tt.ts.Hi, got, tt.want)
		}
	}
}

func TestTimestampFromTime(t *testing.T) {
	now := time.Now()
	ts := TimestampFromTime(now)
	if ts.Lo != uint64(now.UnixNano()) {
		t.Errorf("Lo = %d, want %d", ts.Lo, now.UnixNano())
	}
	if ts.Hi != 0 {
		t.Errorf("Hi = %d, want 0", ts.Hi)
	}
}

func TestTransactionWireJSON(t *testing.T) {
	tx := testTx()
	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)

	// Externally-tagged claim envelope
	if !strings.Contains(s, `"claim":{"TokenTransfer":{`) {
		t.Errorf("claim envelope missing: %s", s)
	}
	// Keys as 0x-hex
	if !strings.Contains(s, `"sender":"0x0101`) {
		t.Errorf("sender not hex encoded: %s", s)
	}
	// Timestamp as decimal string
	if !strings.Contains(s, `"timestamp":"1700000000000000000"`) {
		t.Errorf("timestamp not a decimal string: %s", s)
	}
	// Amount as hex string (uint256 text marshaling)
	if !strings.Contains(s, `"amount":"0x1"`) {
		t.Errorf("amount not hex: %s", s)
	}
}
