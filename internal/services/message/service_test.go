package message_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tg44/xmtp-js/internal/domain"
	"github.com/tg44/xmtp-js/internal/relay"
	"github.com/tg44/xmtp-js/internal/services/contact"
	"github.com/tg44/xmtp-js/internal/services/identity"
	"github.com/tg44/xmtp-js/internal/services/message"
	"github.com/tg44/xmtp-js/internal/store"
)

const pass = "Correct-Horse-9"

type client struct {
	addr     domain.Address
	ids      *identity.Service
	messages *message.Service
}

func newClient(t *testing.T, rc *relay.HTTP, url string) client {
	t.Helper()
	ctx := context.Background()
	fs, err := store.Open(t.TempDir())
	require.NoError(t, err)
	ids := identity.New(fs, fs)
	addr, err := ids.CreateWallet(pass)
	require.NoError(t, err)
	_, _, err = ids.GenerateIdentity(ctx, pass)
	require.NoError(t, err)
	contacts := contact.New(ids, fs, fs, rc, url)
	_, err = contacts.Register(ctx, pass)
	require.NoError(t, err)
	return client{addr: addr, ids: ids, messages: message.New(ids, contacts, rc)}
}

func newRelay(t *testing.T) (*relay.HTTP, string) {
	t.Helper()
	srv := httptest.NewServer(relay.NewServer(relay.ServerConfig{}).Handler())
	t.Cleanup(srv.Close)
	return relay.NewHTTP(srv.URL, srv.Client()), srv.URL
}

func TestSendReceive(t *testing.T) {
	ctx := context.Background()
	rc, url := newRelay(t)
	alice, bob := newClient(t, rc, url), newClient(t, rc, url)

	require.NoError(t, alice.messages.SendMessage(ctx, pass, bob.addr, []byte("Yo!")))
	require.NoError(t, alice.messages.SendMessage(ctx, pass, bob.addr, []byte("again")))

	msgs, err := bob.messages.ReceiveMessages(ctx, pass, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, alice.addr, msgs[0].From)
	require.Equal(t, []byte("Yo!"), msgs[0].Plaintext)
	require.Equal(t, []byte("again"), msgs[1].Plaintext)

	fp, err := alice.ids.FingerprintIdentity(ctx, pass)
	require.NoError(t, err)
	require.Equal(t, fp, msgs[0].Fingerprint)

	// Everything was acked.
	msgs, err = bob.messages.ReceiveMessages(ctx, pass, 0)
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestReceive_DropsMessagesForOtherKeys(t *testing.T) {
	ctx := context.Background()
	rc, url := newRelay(t)
	alice, bob := newClient(t, rc, url), newClient(t, rc, url)

	require.NoError(t, alice.messages.SendMessage(ctx, pass, bob.addr, []byte("old key")))

	// Bob rotates his bundle; the queued message targets the old pre-key.
	_, _, err := bob.ids.GenerateIdentity(ctx, pass)
	require.NoError(t, err)

	msgs, err := bob.messages.ReceiveMessages(ctx, pass, 0)
	require.NoError(t, err)
	require.Empty(t, msgs)

	envs, err := rc.FetchMessages(ctx, bob.addr, 0)
	require.NoError(t, err)
	require.Empty(t, envs, "undecodable envelopes are acked")
}

func TestSend_UnknownRecipient(t *testing.T) {
	ctx := context.Background()
	rc, url := newRelay(t)
	alice := newClient(t, rc, url)

	err := alice.messages.SendMessage(ctx, pass, "0x00000000000000000000000000000000000000aa", []byte("x"))
	require.ErrorIs(t, err, relay.ErrNotFound)

	err = alice.messages.SendMessage(ctx, pass, "not-an-address", []byte("x"))
	require.Error(t, err)
}
