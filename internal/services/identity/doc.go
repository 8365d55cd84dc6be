// Package identity owns the local wallet key and the wallet-linked key bundle.
//
// The wallet key is sealed under the user's passphrase. The private key
// bundle is sealed with a key derived from a wallet signature, so opening it
// needs both the passphrase and the wallet. GenerateIdentity links the
// bundle's identity key to the wallet before storing it.
package identity
