package api

// API Client-
//
// Files:
//   config.go    - RPC endpoints, network constants, endpoint overrides
//   types.go     - Struct definitions (RPC envelopes, account info, etc.)
//   base.go      - Core client functionality (client struct, NewClient, helpers)
//   fast.go      - Fast ledger JSON-RPC (account info, submit, faucet, token metadata)
//   ethereum.go  - Ethereum-specific functions (balance, nonce, gas, send)
//   bitcoin.go   - Bitcoin-specific functions (balance, utxos, send, fees)
//   solana.go    - Solana-specific functions (balance, blockhash, send)
//
// Usage:
//   client := api.NewClient()  // from base.go
//   info, err := client.GetFastAccountInfo(ctx, pubkey, nil)  // from fast.go
//   balance, err := client.GetEthereumBalance(address)        // from ethereum.go
