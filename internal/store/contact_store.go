package store

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tg44/xmtp-js/internal/domain"
)

// ContactFileStore caches verified peer bundles to disk, keyed by address.
type ContactFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewContactFileStore returns a ContactFileStore rooted at dir.
func NewContactFileStore(dir string) *ContactFileStore {
	return &ContactFileStore{dir: dir}
}

// SaveContact stores or replaces the contact for c.Address.
func (s *ContactFileStore) SaveContact(c domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, contactsFilename)
	contacts := map[string]domain.Contact{}
	if err := readJSON(path, &contacts); err != nil {
		return err
	}
	contacts[contactKey(c.Address)] = c
	return writeJSON(path, contacts, 0o600)
}

// LoadContact retrieves the contact for address.
func (s *ContactFileStore) LoadContact(address domain.Address) (domain.Contact, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts := map[string]domain.Contact{}
	if err := readJSON(filepath.Join(s.dir, contactsFilename), &contacts); err != nil {
		return domain.Contact{}, false, err
	}
	c, ok := contacts[contactKey(address)]
	return c, ok, nil
}

// ListContacts returns every contact ordered by address.
func (s *ContactFileStore) ListContacts() ([]domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts := map[string]domain.Contact{}
	if err := readJSON(filepath.Join(s.dir, contactsFilename), &contacts); err != nil {
		return nil, err
	}
	out := make([]domain.Contact, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}

func contactKey(a domain.Address) string { return strings.ToLower(string(a)) }

// Compile-time assertion that ContactFileStore implements domain.ContactStore.
var _ domain.ContactStore = (*ContactFileStore)(nil)
