// Package registry routes wallet operations to per-chain adapters. Each
// adapter is keyed by chain and network and built lazily on first use, so
// switching networks or overriding an RPC endpoint only requires evicting
// the affected entry.
package registry

import (
	"context"
	"strings"
	"sync"

	"github.com/chinmay1088/lumen/errs"
	"github.com/chinmay1088/lumen/log"
	"github.com/chinmay1088/lumen/wallet"
)

// BalanceResult is one token balance in base units.
type BalanceResult struct {
	Amount string
	Token  string
}

// SendRequest describes a transfer in chain-neutral terms. Amount is a
// decimal string in the chain's display unit (ETH, BTC, SOL) or base
// units for token ledgers; Token is empty for the chain's native asset.
type SendRequest struct {
	To     string
	Amount string
	Token  string
}

// SendResult reports an accepted transfer.
type SendResult struct {
	TxHash   string
	Fee      string
	Explorer string
}

// FaucetResult reports a successful faucet drip.
type FaucetResult struct {
	Amount string
	Token  string
	TxHash string
}

// TokenInfo is one entry of an account's token list.
type TokenInfo struct {
	Symbol   string
	Address  string
	Balance  string
	Decimals uint8
}

// Adapter is the per-chain operation surface. Chains that lack a
// capability return errs.Unsupported rather than omitting the method.
type Adapter interface {
	// SetupWallet returns the wallet's address on this chain, deriving
	// it if needed. Idempotent.
	SetupWallet() (string, error)

	// Balance fetches one token balance for an address.
	Balance(ctx context.Context, address, token string) (*BalanceResult, error)

	// Send transfers funds from the wallet to a recipient.
	Send(ctx context.Context, req SendRequest) (*SendResult, error)

	// Faucet requests test funds for an address.
	Faucet(ctx context.Context, address string) (*FaucetResult, error)

	// SignMessage signs an arbitrary message with the wallet key.
	SignMessage(msg []byte) ([]byte, error)

	// VerifyMessage reports whether sig covers msg for the address owner.
	VerifyMessage(address string, msg, sig []byte) bool

	// OwnedTokens lists the tokens an address holds.
	OwnedTokens(ctx context.Context, address string) ([]TokenInfo, error)
}

type adapterKey struct {
	chain   string
	network string
}

// canonicalChain folds aliases onto one cache key so "eth" and
// "ethereum" share an adapter and evicting either drops both.
func canonicalChain(chain string) string {
	switch c := strings.ToLower(chain); c {
	case "eth", "ethereum":
		return "ethereum"
	case "btc", "bitcoin":
		return "bitcoin"
	case "sol", "solana":
		return "solana"
	default:
		return c
	}
}

// Registry builds and caches adapters.
type Registry struct {
	mu       sync.Mutex
	adapters map[adapterKey]Adapter
	manager  *wallet.Manager
}

// New creates a registry over the given wallet.
func New(manager *wallet.Manager) *Registry {
	return &Registry{
		adapters: make(map[adapterKey]Adapter),
		manager:  manager,
	}
}

// Get returns the adapter for a chain on the wallet's current network,
// building it on first use. An unknown chain name fails with
// ChainNotConfigured.
func (r *Registry) Get(chain string) (Adapter, error) {
	chain = canonicalChain(chain)
	network := r.manager.GetCurrentNetwork()
	key := adapterKey{chain: chain, network: network}

	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.adapters[key]; ok {
		return a, nil
	}

	a, err := r.build(chain, network)
	if err != nil {
		return nil, err
	}

	log.Registry.Debug().Str("chain", chain).Str("network", network).Msg("adapter created")
	r.adapters[key] = a
	return a, nil
}

// Evict drops the cached adapter for a chain on every network. Required
// after an endpoint override change so the next Get rebuilds with the
// new URL.
func (r *Registry) Evict(chain string) {
	chain = canonicalChain(chain)

	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.adapters {
		if key.chain == chain {
			delete(r.adapters, key)
		}
	}
}

func (r *Registry) build(chain, network string) (Adapter, error) {
	switch chain {
	case "fast":
		return newFastAdapter(r.manager, network), nil
	case "ethereum":
		return newEthereumAdapter(r.manager, network), nil
	case "bitcoin":
		return newBitcoinAdapter(r.manager, network), nil
	case "solana":
		return newSolanaAdapter(r.manager, network), nil
	default:
		return nil, errs.New(errs.ChainNotConfigured, chain, "no adapter for chain")
	}
}
