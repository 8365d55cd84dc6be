package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/tg44/xmtp-js/internal/crypto"
	"github.com/tg44/xmtp-js/internal/domain"
	"github.com/tg44/xmtp-js/internal/protocol/bundle"
)

var log = logging.Logger("xmtp/contact")

var (
	// ErrWrongOwner is returned when a bundle's wallet signature belongs to
	// another address than the one it was published under.
	ErrWrongOwner = errors.New("bundle is not linked to the requested address")

	// ErrUnlinked is returned when our own identity has no wallet signature.
	ErrUnlinked = errors.New("identity key is not linked to a wallet")
)

// Service publishes our bundle and fetches, verifies and caches peers'.
type Service struct {
	ids       domain.IdentityService
	contacts  domain.ContactStore
	accounts  domain.AccountStore
	relay     domain.RelayClient
	serverURL string
	now       func() time.Time
}

// New constructs a contact service. serverURL labels registrations in the
// account store.
func New(
	ids domain.IdentityService,
	contacts domain.ContactStore,
	accounts domain.AccountStore,
	relay domain.RelayClient,
	serverURL string,
) *Service {
	return &Service{
		ids:       ids,
		contacts:  contacts,
		accounts:  accounts,
		relay:     relay,
		serverURL: serverURL,
		now:       time.Now,
	}
}

// Register publishes our public bundle under our wallet address and records
// the registration.
func (s *Service) Register(ctx context.Context, passphrase string) (domain.AccountProfile, error) {
	priv, err := s.ids.LoadIdentity(ctx, passphrase)
	if err != nil {
		return domain.AccountProfile{}, err
	}
	pub := priv.PublicBundle()
	addr, err := pub.WalletAddress()
	if err != nil {
		return domain.AccountProfile{}, ErrUnlinked
	}
	if err := s.relay.PublishBundle(ctx, addr, pub.Bytes()); err != nil {
		return domain.AccountProfile{}, fmt.Errorf("publish bundle: %w", err)
	}

	profile := domain.AccountProfile{
		ServerURL:    s.serverURL,
		Address:      addr,
		Fingerprint:  domain.Fingerprint(pub.IdentityKey.Fingerprint()),
		RegisteredAt: s.now().Unix(),
	}
	if err := s.accounts.SaveAccountProfile(profile); err != nil {
		return domain.AccountProfile{}, err
	}
	log.Infow("bundle registered", "address", addr, "relay", s.serverURL)
	return profile, nil
}

// Lookup returns the verified bundle of address, from the cache when
// possible and otherwise from the relay.
func (s *Service) Lookup(ctx context.Context, address domain.Address) (*bundle.KeyBundle, error) {
	addr, err := crypto.ParseAddress(string(address))
	if err != nil {
		return nil, err
	}

	cached, found, err := s.contacts.LoadContact(addr)
	if err != nil {
		return nil, err
	}
	if found {
		kb, err := verifiedBundle(cached.Bundle, addr)
		if err == nil {
			return kb, nil
		}
		log.Warnw("cached contact failed verification; refetching", "address", addr, "err", err)
	}

	data, err := s.relay.FetchBundle(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("fetch bundle for %s: %w", addr, err)
	}
	kb, err := verifiedBundle(data, addr)
	if err != nil {
		return nil, fmt.Errorf("bundle for %s: %w", addr, err)
	}

	fp := domain.Fingerprint(kb.IdentityKey.Fingerprint())
	if found && cached.Fingerprint != "" && cached.Fingerprint != fp {
		log.Warnw("contact identity key changed", "address", addr, "old", cached.Fingerprint, "new", fp)
	}
	if err := s.contacts.SaveContact(domain.Contact{
		Address:     addr,
		Bundle:      data,
		Fingerprint: fp,
		UpdatedAt:   s.now().Unix(),
	}); err != nil {
		return nil, err
	}
	return kb, nil
}

// verifiedBundle parses data and checks it belongs to addr.
func verifiedBundle(data []byte, addr domain.Address) (*bundle.KeyBundle, error) {
	kb, err := bundle.FromBytes(data)
	if err != nil {
		return nil, err
	}
	if err := kb.Verify(); err != nil {
		return nil, err
	}
	owner, err := kb.WalletAddress()
	if err != nil {
		return nil, err
	}
	if owner != addr {
		return nil, ErrWrongOwner
	}
	return kb, nil
}

// Compile-time assertion that Service implements domain.ContactService.
var _ domain.ContactService = (*Service)(nil)
