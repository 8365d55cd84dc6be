package store

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tg44/xmtp-js/internal/domain"
)

// AccountFileStore persists per-relay registrations to disk.
type AccountFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewAccountFileStore returns an AccountFileStore rooted at dir.
func NewAccountFileStore(dir string) *AccountFileStore {
	return &AccountFileStore{dir: dir}
}

// SaveAccountProfile stores or updates the given profile.
func (s *AccountFileStore) SaveAccountProfile(profile domain.AccountProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, accountsFilename)
	profiles := make(map[string]domain.AccountProfile)
	if err := readJSON(path, &profiles); err != nil {
		return err
	}
	profiles[accountKey(profile.ServerURL, profile.Address)] = profile
	return writeJSON(path, profiles, 0o600)
}

// LoadAccountProfile retrieves the registration of address at serverURL.
func (s *AccountFileStore) LoadAccountProfile(
	serverURL string,
	address domain.Address,
) (domain.AccountProfile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles := make(map[string]domain.AccountProfile)
	if err := readJSON(filepath.Join(s.dir, accountsFilename), &profiles); err != nil {
		return domain.AccountProfile{}, false, err
	}
	profile, ok := profiles[accountKey(serverURL, address)]
	return profile, ok, nil
}

func accountKey(serverURL string, address domain.Address) string {
	return fmt.Sprintf("%s|%s", strings.TrimRight(serverURL, "/"), strings.ToLower(string(address)))
}

// Compile-time assertion that AccountFileStore implements domain.AccountStore.
var _ domain.AccountStore = (*AccountFileStore)(nil)
