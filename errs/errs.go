// Package errs defines the wallet's error taxonomy. Every error that crosses
// a package boundary is classified by Kind so callers can decide whether to
// retry, fix their input, or surface the failure as-is.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a wallet error.
type Kind int

const (
	// InvalidInput means the caller supplied a malformed value (address,
	// hex string, token id). Never retried.
	InvalidInput Kind = iota + 1

	// NetworkFailure is a transport error or timeout. Retry is the
	// caller's decision; the core never retries on its own.
	NetworkFailure

	// ProtocolRejection means the server returned an error envelope.
	// The raw message is preserved for further classification.
	ProtocolRejection

	// InsufficientBalance is a rejection classified as a funds shortfall.
	InsufficientBalance

	// FaucetThrottled is a faucet rejection with a wait hint in RetryAfter.
	FaucetThrottled

	// TxFailed is any other submission rejection.
	TxFailed

	// TokenNotFound means a token reference could not be resolved.
	TokenNotFound

	// ChainNotConfigured means the registry has no configuration for
	// the requested chain.
	ChainNotConfigured

	// Unsupported means the operation is disallowed by policy for the
	// current configuration (e.g. faucet on mainnet).
	Unsupported
)

// String returns the kind's stable name.
func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case NetworkFailure:
		return "network_failure"
	case ProtocolRejection:
		return "protocol_rejection"
	case InsufficientBalance:
		return "insufficient_balance"
	case FaucetThrottled:
		return "faucet_throttled"
	case TxFailed:
		return "tx_failed"
	case TokenNotFound:
		return "token_not_found"
	case ChainNotConfigured:
		return "chain_not_configured"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Error is a classified wallet error. Chain and Value carry enough context
// for a caller to build an actionable message without the core dictating
// UI text.
type Error struct {
	Kind       Kind
	Chain      string // chain name, e.g. "fast", "eth"
	Value      string // offending value or server message, if any
	RetryAfter int    // seconds to wait, FaucetThrottled only
	Err        error  // wrapped cause, if any
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Chain, e.Kind)
	if e.Value != "" {
		msg += ": " + e.Value
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error with a descriptive value.
func New(kind Kind, chain, value string) *Error {
	return &Error{Kind: kind, Chain: chain, Value: value}
}

// Wrap creates a classified error around a cause.
func Wrap(kind Kind, chain string, err error) *Error {
	return &Error{Kind: kind, Chain: chain, Err: err}
}

// KindOf returns the kind of err, or 0 if err carries no classification.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// RetryAfter returns the throttle hint carried by err, or 0.
func RetryAfter(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.RetryAfter
	}
	return 0
}
