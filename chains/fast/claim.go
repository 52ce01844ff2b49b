package fast

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/holiman/uint256"
)

// Claim is the tagged-union payload describing what a transaction does.
// The interface is sealed by the unexported methods: a new variant cannot
// exist without declaring its wire tag and its canonical encoding.
type Claim interface {
	// claimTag is the variant tag written before the payload.
	claimTag() uint32
	// claimName is the externally-tagged JSON key of the variant.
	claimName() string
	// encodePayload appends the variant's canonical field encoding.
	encodePayload(e *encoder)
}

// Claim variant tags. The order is part of the wire format and must
// never be rearranged.
const (
	claimTagTokenTransfer uint32 = iota
	claimTagTokenCreation
	claimTagTokenManagement
	claimTagMint
	claimTagValidatorJoin
	claimTagValidatorLeave
	claimTagEpochChange
	claimTagProtocolUpgrade
	claimTagConfigChange
	claimTagCheckpoint
	claimTagExternal
	claimTagBatch
)

// HexBytes is a byte string carried as 0x-prefixed hex in JSON.
type HexBytes []byte

// MarshalJSON encodes the bytes as 0x-prefixed hex.
func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + hex.EncodeToString(h))
}

// UnmarshalJSON decodes an optionally 0x-prefixed hex string.
func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
	if err != nil {
		return err
	}
	*h = raw
	return nil
}

// TokenTransfer moves an amount of one token to the transaction recipient.
type TokenTransfer struct {
	Token    TokenID      `json:"token_id"`
	Amount   *uint256.Int `json:"amount"`
	UserData HexBytes     `json:"user_data,omitempty"`
}

func (c *TokenTransfer) claimTag() uint32 { return claimTagTokenTransfer }
func (c *TokenTransfer) claimName() string { return "TokenTransfer" }
func (c *TokenTransfer) encodePayload(e *encoder) {
	e.fixed(c.Token[:])
	e.u256(c.Amount)
	e.optBytes(c.UserData)
}

// MintEntry is one initial allocation inside a TokenCreation.
type MintEntry struct {
	Recipient PublicKey    `json:"recipient"`
	Amount    *uint256.Int `json:"amount"`
}

// TokenCreation registers a new token and mints its initial allocations.
type TokenCreation struct {
	Name          string       `json:"name"`
	Decimals      uint8        `json:"decimals"`
	InitialAmount *uint256.Int `json:"initial_amount"`
	Mints         []MintEntry  `json:"mints"`
	UserData      HexBytes     `json:"user_data,omitempty"`
}

func (c *TokenCreation) claimTag() uint32 { return claimTagTokenCreation }
func (c *TokenCreation) claimName() string { return "TokenCreation" }
func (c *TokenCreation) encodePayload(e *encoder) {
	e.str(c.Name)
	e.u8(c.Decimals)
	e.u256(c.InitialAmount)
	e.seqLen(len(c.Mints))
	for _, m := range c.Mints {
		e.fixed(m.Recipient[:])
		e.u256(m.Amount)
	}
	e.optBytes(c.UserData)
}

// AddressChange is one (tag, address) pair inside a TokenManagement claim.
type AddressChange struct {
	Tag     uint8     `json:"tag"`
	Address PublicKey `json:"address"`
}

// TokenManagement updates the admin or the address roles of a token.
type TokenManagement struct {
	Token          TokenID         `json:"token_id"`
	UpdateID       uint64          `json:"update_id"`
	NewAdmin       *PublicKey      `json:"new_admin,omitempty"`
	AddressChanges []AddressChange `json:"address_changes"`
	UserData       HexBytes        `json:"user_data,omitempty"`
}

func (c *TokenManagement) claimTag() uint32 { return claimTagTokenManagement }
func (c *TokenManagement) claimName() string { return "TokenManagement" }
func (c *TokenManagement) encodePayload(e *encoder) {
	e.fixed(c.Token[:])
	e.u64(c.UpdateID)
	if c.NewAdmin != nil {
		e.option(true)
		e.fixed(c.NewAdmin[:])
	} else {
		e.option(false)
	}
	e.seqLen(len(c.AddressChanges))
	for _, ac := range c.AddressChanges {
		e.u8(ac.Tag)
		e.fixed(ac.Address[:])
	}
	e.optBytes(c.UserData)
}

// Mint issues new supply of a token to the transaction recipient.
type Mint struct {
	Token  TokenID      `json:"token_id"`
	Amount *uint256.Int `json:"amount"`
}

func (c *Mint) claimTag() uint32 { return claimTagMint }
func (c *Mint) claimName() string { return "Mint" }
func (c *Mint) encodePayload(e *encoder) {
	e.fixed(c.Token[:])
	e.u256(c.Amount)
}

// lifecycleClaim covers the six payload-free network-lifecycle variants.
// Wallets never build these, but the codec must account for their tags so
// the schema stays in step with the network.
type lifecycleClaim struct {
	tag  uint32
	name string
}

func (c *lifecycleClaim) claimTag() uint32 { return c.tag }
func (c *lifecycleClaim) claimName() string { return c.name }
func (c *lifecycleClaim) encodePayload(e *encoder) {}

// Placeholder claims for network-lifecycle events.
var (
	ValidatorJoin   Claim = &lifecycleClaim{claimTagValidatorJoin, "ValidatorJoin"}
	ValidatorLeave  Claim = &lifecycleClaim{claimTagValidatorLeave, "ValidatorLeave"}
	EpochChange     Claim = &lifecycleClaim{claimTagEpochChange, "EpochChange"}
	ProtocolUpgrade Claim = &lifecycleClaim{claimTagProtocolUpgrade, "ProtocolUpgrade"}
	ConfigChange    Claim = &lifecycleClaim{claimTagConfigChange, "ConfigChange"}
	Checkpoint      Claim = &lifecycleClaim{claimTagCheckpoint, "Checkpoint"}
)

// CommitteeSignature is one (signer, signature) pair on an external claim.
type CommitteeSignature struct {
	Signer    PublicKey `json:"signer"`
	Signature HexBytes  `json:"signature"`
}

// ExternalClaim carries a statement attested by an external verifier
// committee rather than by the sender alone.
type ExternalClaim struct {
	Committee  []PublicKey          `json:"committee"`
	Quorum     uint32               `json:"quorum"`
	Payload    HexBytes             `json:"claim"`
	Signatures []CommitteeSignature `json:"signatures"`
}

func (c *ExternalClaim) claimTag() uint32 { return claimTagExternal }
func (c *ExternalClaim) claimName() string { return "ExternalClaim" }
func (c *ExternalClaim) encodePayload(e *encoder) {
	e.seqLen(len(c.Committee))
	for _, m := range c.Committee {
		e.fixed(m[:])
	}
	e.u32(c.Quorum)
	e.bytes(c.Payload)
	// Signatures are length-prefixed: the field is variable-width, and a
	// bare write would leave the sequence ambiguous to decode.
	e.seqLen(len(c.Signatures))
	for _, s := range c.Signatures {
		e.fixed(s.Signer[:])
		e.bytes(s.Signature)
	}
}

// Batch groups several self-contained operations into one transaction.
type Batch struct {
	Operations []Operation `json:"operations"`
}

func (c *Batch) claimTag() uint32 { return claimTagBatch }
func (c *Batch) claimName() string { return "Batch" }
func (c *Batch) encodePayload(e *encoder) {
	e.seqLen(len(c.Operations))
	for _, op := range c.Operations {
		e.u32(op.opTag())
		op.encodeOp(e)
	}
}

// Operation is the tagged union of batched actions. Unlike the top-level
// claims, every operation names its own recipient: a batch has no
// transaction-level recipient to fall back on.
type Operation interface {
	opTag() uint32
	opName() string
	encodeOp(e *encoder)
}

const (
	opTagTokenTransfer uint32 = iota
	opTagTokenCreation
	opTagTokenManagement
	opTagMint
)

// OpTokenTransfer is a transfer with an explicit recipient.
type OpTokenTransfer struct {
	Recipient PublicKey    `json:"recipient"`
	Token     TokenID      `json:"token_id"`
	Amount    *uint256.Int `json:"amount"`
	UserData  HexBytes     `json:"user_data,omitempty"`
}

func (o *OpTokenTransfer) opTag() uint32 { return opTagTokenTransfer }
func (o *OpTokenTransfer) opName() string { return "TokenTransfer" }
func (o *OpTokenTransfer) encodeOp(e *encoder) {
	e.fixed(o.Recipient[:])
	e.fixed(o.Token[:])
	e.u256(o.Amount)
	e.optBytes(o.UserData)
}

// OpTokenCreation is a token creation inside a batch. Creation already
// names its mint recipients, so the payload matches the top-level claim.
type OpTokenCreation struct {
	TokenCreation
}

func (o *OpTokenCreation) opTag() uint32 { return opTagTokenCreation }
func (o *OpTokenCreation) opName() string { return "TokenCreation" }
func (o *OpTokenCreation) encodeOp(e *encoder) { o.TokenCreation.encodePayload(e) }

// OpTokenManagement is a token management update inside a batch.
type OpTokenManagement struct {
	TokenManagement
}

func (o *OpTokenManagement) opTag() uint32 { return opTagTokenManagement }
func (o *OpTokenManagement) opName() string { return "TokenManagement" }
func (o *OpTokenManagement) encodeOp(e *encoder) { o.TokenManagement.encodePayload(e) }

// OpMint is a mint with an explicit recipient.
type OpMint struct {
	Recipient PublicKey    `json:"recipient"`
	Token     TokenID      `json:"token_id"`
	Amount    *uint256.Int `json:"amount"`
}

func (o *OpMint) opTag() uint32 { return opTagMint }
func (o *OpMint) opName() string { return "Mint" }
func (o *OpMint) encodeOp(e *encoder) {
	e.fixed(o.Recipient[:])
	e.fixed(o.Token[:])
	e.u256(o.Amount)
}

// MarshalJSON encodes a batch with externally-tagged operations, matching
// the claim envelope shape the server expects.
func (c *Batch) MarshalJSON() ([]byte, error) {
	ops := make([]map[string]Operation, 0, len(c.Operations))
	for _, op := range c.Operations {
		ops = append(ops, map[string]Operation{op.opName(): op})
	}
	return json.Marshal(map[string]interface{}{"operations": ops})
}

// MarshalJSON encodes the token id as 0x-prefixed hex.
func (t TokenID) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Hex())
}

// UnmarshalJSON decodes a 0x-prefixed hex token id of exactly 32 bytes.
func (t *TokenID) UnmarshalJSON(data []byte) error {
	var h HexBytes
	if err := h.UnmarshalJSON(data); err != nil {
		return err
	}
	id, err := TokenIDFromBytes(h)
	if err != nil {
		return err
	}
	*t = id
	return nil
}
