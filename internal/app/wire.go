package app

import (
	"net/http"

	"github.com/tg44/xmtp-js/internal/domain"
	"github.com/tg44/xmtp-js/internal/relay"
	contactsvc "github.com/tg44/xmtp-js/internal/services/contact"
	identitysvc "github.com/tg44/xmtp-js/internal/services/identity"
	messagesvc "github.com/tg44/xmtp-js/internal/services/message"
	"github.com/tg44/xmtp-js/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Identity domain.IdentityService
	Contacts domain.ContactService
	Messages domain.MessageService
	Relay    domain.RelayClient
	Store    *store.FileStore
	HTTP     *http.Client
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	fs, err := store.Open(cfg.Home)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	rc := relay.NewHTTP(cfg.RelayURL, httpClient)

	ids := identitysvc.New(fs, fs)
	contacts := contactsvc.New(ids, fs, fs, rc, cfg.RelayURL)
	messages := messagesvc.New(ids, contacts, rc)

	return &Wire{
		Identity: ids,
		Contacts: contacts,
		Messages: messages,
		Relay:    rc,
		Store:    fs,
		HTTP:     httpClient,
	}, nil
}
