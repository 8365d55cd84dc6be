// Package store provides file-based persistence for the messaging client.
//
// It contains concrete implementations of the domain storage interfaces. All
// methods are concurrency-safe via internal locking, and every write goes
// through a temp file and rename so a crash never leaves a torn file. Files
// live under the configured home directory with 0600 permissions.
//
// The package includes stores for:
//   - The wallet account key, sealed under a passphrase (WalletFileStore)
//   - The wallet-sealed private key bundle (BundleFileStore)
//   - Verified peer bundles (ContactFileStore)
//   - Relay registrations (AccountFileStore)
package store
