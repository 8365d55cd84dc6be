package store

import "os"

// File names under the home directory.
const (
	walletFilename   = "wallet.json.enc"
	bundleFilename   = "identity.bundle"
	contactsFilename = "contacts.json"
	accountsFilename = "accounts.json"
)

// FileStore groups every store rooted at one directory.
type FileStore struct {
	*WalletFileStore
	*BundleFileStore
	*ContactFileStore
	*AccountFileStore
}

// Open creates dir if needed and returns the stores rooted at it.
func Open(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{
		WalletFileStore:  NewWalletFileStore(dir),
		BundleFileStore:  NewBundleFileStore(dir),
		ContactFileStore: NewContactFileStore(dir),
		AccountFileStore: NewAccountFileStore(dir),
	}, nil
}
