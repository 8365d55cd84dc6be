package contact_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tg44/xmtp-js/internal/domain"
	"github.com/tg44/xmtp-js/internal/relay"
	"github.com/tg44/xmtp-js/internal/services/contact"
	"github.com/tg44/xmtp-js/internal/services/identity"
	"github.com/tg44/xmtp-js/internal/store"
)

const pass = "Correct-Horse-9"

type client struct {
	fs       *store.FileStore
	ids      *identity.Service
	contacts *contact.Service
	addr     domain.Address
}

func newClient(t *testing.T, rc domain.RelayClient, url string) client {
	t.Helper()
	fs, err := store.Open(t.TempDir())
	require.NoError(t, err)
	ids := identity.New(fs, fs)
	addr, err := ids.CreateWallet(pass)
	require.NoError(t, err)
	_, _, err = ids.GenerateIdentity(context.Background(), pass)
	require.NoError(t, err)
	return client{fs: fs, ids: ids, contacts: contact.New(ids, fs, fs, rc, url), addr: addr}
}

// stubRelay serves a fixed bundle for every address.
type stubRelay struct {
	domain.RelayClient
	bundle []byte
	calls  int
}

func (s *stubRelay) FetchBundle(context.Context, domain.Address) ([]byte, error) {
	s.calls++
	return s.bundle, nil
}

func TestRegisterAndLookup(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(relay.NewServer(relay.ServerConfig{}).Handler())
	t.Cleanup(srv.Close)
	rc := relay.NewHTTP(srv.URL, srv.Client())

	alice := newClient(t, rc, srv.URL)
	bob := newClient(t, rc, srv.URL)

	profile, err := alice.contacts.Register(ctx, pass)
	require.NoError(t, err)
	require.Equal(t, alice.addr, profile.Address)
	require.NotEmpty(t, profile.Fingerprint)

	saved, ok, err := alice.fs.LoadAccountProfile(srv.URL, alice.addr)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, profile, saved)

	kb, err := bob.contacts.Lookup(ctx, alice.addr)
	require.NoError(t, err)
	owner, err := kb.WalletAddress()
	require.NoError(t, err)
	require.Equal(t, alice.addr, owner)

	c, ok, err := bob.fs.LoadContact(alice.addr)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, profile.Fingerprint, c.Fingerprint)

	_, err = bob.contacts.Lookup(ctx, bob.addr)
	require.ErrorIs(t, err, relay.ErrNotFound)
}

func TestLookup_UsesCache(t *testing.T) {
	ctx := context.Background()
	stub := &stubRelay{}
	alice := newClient(t, stub, "stub")
	priv, err := alice.ids.LoadIdentity(ctx, pass)
	require.NoError(t, err)
	stub.bundle = priv.PublicBundle().Bytes()

	bob := newClient(t, stub, "stub")
	_, err = bob.contacts.Lookup(ctx, alice.addr)
	require.NoError(t, err)
	_, err = bob.contacts.Lookup(ctx, alice.addr)
	require.NoError(t, err)
	require.Equal(t, 1, stub.calls)
}

func TestLookup_WrongOwner(t *testing.T) {
	ctx := context.Background()
	stub := &stubRelay{}
	alice := newClient(t, stub, "stub")
	carol := newClient(t, stub, "stub")

	// The relay answers for Carol with Alice's genuine bundle.
	priv, err := alice.ids.LoadIdentity(ctx, pass)
	require.NoError(t, err)
	stub.bundle = priv.PublicBundle().Bytes()

	bob := newClient(t, stub, "stub")
	_, err = bob.contacts.Lookup(ctx, carol.addr)
	require.ErrorIs(t, err, contact.ErrWrongOwner)

	_, ok, err := bob.fs.LoadContact(carol.addr)
	require.NoError(t, err)
	require.False(t, ok, "unverified bundles are not cached")
}
