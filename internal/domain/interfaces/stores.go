package interfaces

import domaintypes "github.com/tg44/xmtp-js/internal/domain/types"

// WalletStore persists the account key, encrypted under a passphrase.
type WalletStore interface {
	SaveWallet(passphrase string, key []byte) error
	LoadWallet(passphrase string) ([]byte, error)
	HasWallet() (bool, error)
}

// PrivateBundleStore persists the wallet-sealed private key bundle.
type PrivateBundleStore interface {
	SavePrivateBundle(sealed []byte) error
	LoadPrivateBundle() ([]byte, bool, error)
}

// ContactStore caches verified peer bundles by address.
type ContactStore interface {
	SaveContact(contact domaintypes.Contact) error
	LoadContact(address domaintypes.Address) (domaintypes.Contact, bool, error)
	ListContacts() ([]domaintypes.Contact, error)
}
