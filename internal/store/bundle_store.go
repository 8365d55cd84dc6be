package store

import (
	"path/filepath"
	"sync"

	"github.com/tg44/xmtp-js/internal/domain"
)

// BundleFileStore keeps the private key bundle as sealed by its wallet. The
// bytes are opaque here; only the wallet can open them.
type BundleFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewBundleFileStore returns a BundleFileStore rooted at dir.
func NewBundleFileStore(dir string) *BundleFileStore {
	return &BundleFileStore{dir: dir}
}

// SavePrivateBundle writes the sealed bundle to disk.
func (s *BundleFileStore) SavePrivateBundle(sealed []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeFile(filepath.Join(s.dir, bundleFilename), sealed, 0o600)
}

// LoadPrivateBundle returns the sealed bundle and whether it was present.
func (s *BundleFileStore) LoadPrivateBundle() ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(filepath.Join(s.dir, bundleFilename))
	if err != nil || b == nil {
		return nil, false, err
	}
	return b, true, nil
}

// Compile-time assertion that BundleFileStore implements domain.PrivateBundleStore.
var _ domain.PrivateBundleStore = (*BundleFileStore)(nil)
