// Package commands defines the xmtp CLI and wires dependencies for subcommands.
//
// Commands
//
//   - wallet new       Create a wallet key and seal it under the passphrase
//   - wallet import    Restore a wallet from its mnemonic
//   - wallet mnemonic  Print the wallet's backup mnemonic
//   - init             Generate a wallet-linked key bundle
//   - fingerprint      Print the identity fingerprint
//   - bundle           Print the public key bundle as base58
//   - register         Publish your key bundle to a relay
//   - send             Encrypt and send a message to a wallet address
//   - recv             Fetch and decrypt queued messages
//
// # Implementation
//
// The root command loads <home>/config.yaml, applies flag overrides and the
// log level, and builds the dependency graph (stores, services, relay client)
// before any subcommand runs.
package commands
