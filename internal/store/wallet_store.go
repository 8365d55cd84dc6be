package store

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/tg44/xmtp-js/internal/domain"
)

const walletKind = "wallet/secp256k1"

// WalletFileStore persists the wallet account key under a passphrase.
type WalletFileStore struct {
	dir string
	kdf kdfParams
	mu  sync.Mutex
}

// NewWalletFileStore returns a WalletFileStore rooted at dir.
func NewWalletFileStore(dir string) *WalletFileStore {
	return &WalletFileStore{dir: dir, kdf: defaultKDF}
}

// SaveWallet seals key under passphrase and writes it to disk.
func (s *WalletFileStore) SaveWallet(passphrase string, key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := sealWithPassphrase(walletKind, passphrase, key, s.kdf)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, walletFilename), b, 0o600)
}

// LoadWallet reads and opens the account key.
func (s *WalletFileStore) LoadWallet(passphrase string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(filepath.Join(s.dir, walletFilename))
	if err != nil {
		return nil, err
	}
	return openWithPassphrase(walletKind, passphrase, b)
}

// HasWallet reports whether a wallet file exists.
func (s *WalletFileStore) HasWallet() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(filepath.Join(s.dir, walletFilename))
	return b != nil, err
}

// Compile-time assertion that WalletFileStore implements domain.WalletStore.
var _ domain.WalletStore = (*WalletFileStore)(nil)
