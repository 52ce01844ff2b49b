// Package fast implements the protocol client for the Fast ledger.
//
// Files:
//   address.go - bech32m address encoding of ed25519 public keys
//   amount.go  - 256-bit amount parsing and formatting
//   token.go   - token ids and the reserved native token
//   claim.go   - the claim and operation tagged unions
//   codec.go   - canonical transaction byte encoding
//   sign.go    - domain-separated signing, verification, tx hashing
//   client.go  - the wallet-facing client (balance, send, faucet, tokens)
//
// The canonical encoding is the basis for both signing and hashing: two
// independently built clients must produce byte-identical output for the
// same logical transaction, or the network rejects the signature.
package fast

// ChainName is the registry key and error-context name of this chain.
const ChainName = "fast"
