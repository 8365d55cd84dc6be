package message_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tg44/xmtp-js/internal/crypto"
	"github.com/tg44/xmtp-js/internal/protocol/bundle"
	"github.com/tg44/xmtp-js/internal/protocol/message"
	"github.com/tg44/xmtp-js/internal/protocol/wire"
	"github.com/tg44/xmtp-js/internal/wallet"
)

type party struct {
	priv *bundle.PrivateKeyBundle
	pub  *bundle.KeyBundle
}

func newParty(t *testing.T) party {
	t.Helper()
	priv, pub, err := bundle.GenerateBundles()
	require.NoError(t, err)
	return party{priv: priv, pub: pub}
}

func TestEncodeDecode_EndToEnd(t *testing.T) {
	alice, bob := newParty(t), newParty(t)

	m, err := message.Encode(alice.priv, bob.pub, []byte("Yo!"))
	require.NoError(t, err)
	require.Equal(t, message.Encoded, m.State())
	require.Nil(t, m.Decrypted())

	got, err := message.Decode(bob.priv, m.Bytes())
	require.NoError(t, err)
	require.Equal(t, message.Decoded, got.State())
	require.Equal(t, []byte("Yo!"), got.Decrypted())
	require.True(t, alice.pub.Equal(got.Header.Sender))
	require.True(t, bob.pub.Equal(got.Header.Recipient))
	require.WithinDuration(t, time.Now(), got.Header.Timestamp, time.Minute)
}

func TestEncodeDecode_EmptyPlaintext(t *testing.T) {
	alice, bob := newParty(t), newParty(t)

	m, err := message.Encode(alice.priv, bob.pub, nil)
	require.NoError(t, err)

	got, err := message.Decode(bob.priv, m.Bytes())
	require.NoError(t, err)
	require.NotNil(t, got.Decrypted())
	require.Empty(t, got.Decrypted())
}

func TestSenderWalletAddress_FromHeaderOnly(t *testing.T) {
	alice, bob := newParty(t), newParty(t)
	w, err := wallet.New()
	require.NoError(t, err)
	require.NoError(t, alice.priv.IdentityKey.PublicKey().SignWithWallet(context.Background(), w))

	m, err := message.Encode(alice.priv, bob.pub, []byte("Yo!"))
	require.NoError(t, err)

	parsed, err := message.Parse(m.Bytes())
	require.NoError(t, err)
	addr, err := parsed.SenderWalletAddress()
	require.NoError(t, err)
	require.Equal(t, w.Address(), addr)

	decoded, err := message.Decode(bob.priv, m.Bytes())
	require.NoError(t, err)
	addr, err = decoded.SenderWalletAddress()
	require.NoError(t, err)
	require.Equal(t, w.Address(), addr)
}

func TestOpen_Idempotent(t *testing.T) {
	alice, bob := newParty(t), newParty(t)

	m, err := message.Encode(alice.priv, bob.pub, []byte("once"))
	require.NoError(t, err)
	parsed, err := message.Parse(m.Bytes())
	require.NoError(t, err)

	p1, err := parsed.Open(bob.priv)
	require.NoError(t, err)
	p2, err := parsed.Open(bob.priv)
	require.NoError(t, err)
	require.Equal(t, p1, p2)
	require.Equal(t, message.Decoded, parsed.State())
}

func TestDecode_WrongRecipient(t *testing.T) {
	alice, bob, eve := newParty(t), newParty(t), newParty(t)

	m, err := message.Encode(alice.priv, bob.pub, []byte("for bob"))
	require.NoError(t, err)

	parsed, err := message.Parse(m.Bytes())
	require.NoError(t, err)
	_, err = parsed.Open(eve.priv)
	require.ErrorIs(t, err, crypto.ErrDecryptionFailed)
	require.Equal(t, message.Encoded, parsed.State())
	require.Nil(t, parsed.Decrypted())
}

func TestEncode_RejectsUnverifiedRecipient(t *testing.T) {
	alice, bob, eve := newParty(t), newParty(t), newParty(t)

	forged := &bundle.KeyBundle{IdentityKey: bob.pub.IdentityKey, PreKey: eve.pub.PreKey}
	_, err := message.Encode(alice.priv, forged, []byte("x"))
	require.ErrorIs(t, err, crypto.ErrInvalidSignature)
}

func TestDecode_ForgedSenderBundle(t *testing.T) {
	alice, bob, mallory := newParty(t), newParty(t), newParty(t)

	// Mallory claims Alice's identity key but uses her own pre-key.
	forged := &bundle.KeyBundle{IdentityKey: alice.pub.IdentityKey, PreKey: mallory.pub.PreKey}

	var hb wire.Builder
	header := hb.Bytes(1, forged.Bytes()).
		Bytes(2, bob.pub.Bytes()).
		Uint(3, uint64(time.Now().UnixMilli())).
		Finish()
	payload, err := crypto.EncryptWithAD([]byte("trust me"), header, bob.pub.PreKey, mallory.priv.PreKey)
	require.NoError(t, err)

	var mb wire.Builder
	data := mb.Bytes(1, header).Bytes(2, payload.Encode()).Finish()

	_, err = message.Parse(data)
	require.NoError(t, err, "structure is valid")

	_, err = message.Decode(bob.priv, data)
	require.ErrorIs(t, err, crypto.ErrInvalidSignature)
}

func TestDecode_TamperedPayload(t *testing.T) {
	alice, bob := newParty(t), newParty(t)

	m, err := message.Encode(alice.priv, bob.pub, []byte("Yo!"))
	require.NoError(t, err)

	data := m.Bytes()
	bad := append([]byte(nil), data...)
	bad[len(bad)-1] ^= 0x01

	_, err = message.Decode(bob.priv, bad)
	require.ErrorIs(t, err, crypto.ErrDecryptionFailed)
}

func TestDecode_SwappedHeader(t *testing.T) {
	alice, bob, carol := newParty(t), newParty(t), newParty(t)

	m, err := message.Encode(alice.priv, bob.pub, []byte("Yo!"))
	require.NoError(t, err)

	// Replace the sender with Carol while keeping Alice's payload. The header
	// is authenticated, so the payload no longer opens.
	var hb wire.Builder
	header := hb.Bytes(1, carol.pub.Bytes()).
		Bytes(2, bob.pub.Bytes()).
		Uint(3, uint64(m.Header.Timestamp.UnixMilli())).
		Finish()
	var mb wire.Builder
	data := mb.Bytes(1, header).Bytes(2, m.Payload.Encode()).Finish()

	_, err = message.Decode(bob.priv, data)
	require.ErrorIs(t, err, crypto.ErrDecryptionFailed)
}

func TestParse_Malformed(t *testing.T) {
	alice, bob := newParty(t), newParty(t)
	m, err := message.Encode(alice.priv, bob.pub, []byte("Yo!"))
	require.NoError(t, err)
	data := m.Bytes()

	for _, n := range []int{0, 1, 50, len(data) / 2, len(data) - 1} {
		_, err := message.Parse(data[:n])
		require.ErrorIs(t, err, crypto.ErrDecode, "length %d", n)
	}
}

func TestUnbuiltMessage(t *testing.T) {
	var m message.Message
	require.Equal(t, message.Unbuilt, m.State())
	require.Nil(t, m.Bytes())
	_, err := m.Open(nil)
	require.ErrorIs(t, err, crypto.ErrDecode)
}
