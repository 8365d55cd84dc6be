package bundle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tg44/xmtp-js/internal/crypto"
	"github.com/tg44/xmtp-js/internal/protocol/bundle"
	"github.com/tg44/xmtp-js/internal/protocol/wire"
	"github.com/tg44/xmtp-js/internal/wallet"
)

func TestGenerateBundles(t *testing.T) {
	priv, pub, err := bundle.GenerateBundles()
	require.NoError(t, err)
	require.NoError(t, pub.Verify())
	require.True(t, priv.IdentityKey.PublicKey().Equal(pub.IdentityKey))
	require.True(t, priv.PreKey.PublicKey().Equal(pub.PreKey))
	require.NotNil(t, priv.PreKey.PublicKey().Signature)
	require.False(t, pub.IdentityKey.Equal(pub.PreKey))
}

func TestKeyBundle_BytesRoundTrip(t *testing.T) {
	_, pub, err := bundle.GenerateBundles()
	require.NoError(t, err)

	data := pub.Bytes()
	require.GreaterOrEqual(t, len(data), 213)

	got, err := bundle.FromBytes(data)
	require.NoError(t, err)
	require.True(t, pub.Equal(got))
	require.NoError(t, got.Verify())
	require.True(t, got.IdentityKey.VerifyKey(got.PreKey))
}

func TestKeyBundle_WalletAddressSurvivesEncoding(t *testing.T) {
	w, err := wallet.New()
	require.NoError(t, err)
	priv, pub, err := bundle.GenerateBundles()
	require.NoError(t, err)

	_, err = pub.WalletAddress()
	require.ErrorIs(t, err, crypto.ErrNoWalletSignature)

	require.NoError(t, priv.IdentityKey.PublicKey().SignWithWallet(context.Background(), w))

	// The projection shares the identity key, so it sees the signature too.
	addr, err := pub.WalletAddress()
	require.NoError(t, err)
	require.Equal(t, w.Address(), addr)

	got, err := bundle.FromBytes(priv.PublicBundle().Bytes())
	require.NoError(t, err)
	addr, err = got.WalletAddress()
	require.NoError(t, err)
	require.Equal(t, w.Address(), addr)
}

func TestFromBytes_DoesNotShareKeys(t *testing.T) {
	w, err := wallet.New()
	require.NoError(t, err)
	priv, _, err := bundle.GenerateBundles()
	require.NoError(t, err)

	sent, err := bundle.FromBytes(priv.PublicBundle().Bytes())
	require.NoError(t, err)

	require.NoError(t, priv.IdentityKey.PublicKey().SignWithWallet(context.Background(), w))

	_, err = sent.WalletAddress()
	require.ErrorIs(t, err, crypto.ErrNoWalletSignature)
	require.NotSame(t, priv.IdentityKey.PublicKey(), sent.IdentityKey)
}

func TestFromBytes_Malformed(t *testing.T) {
	_, pub, err := bundle.GenerateBundles()
	require.NoError(t, err)
	data := pub.Bytes()

	for _, n := range []int{0, 1, 10, 100, 212, len(data) - 1} {
		_, err := bundle.FromBytes(data[:n])
		require.ErrorIs(t, err, crypto.ErrDecode, "length %d", n)
	}

	var b wire.Builder
	onlyIdentity := b.Bytes(1, pub.IdentityKey.Encode()).Finish()
	_, err = bundle.FromBytes(onlyIdentity)
	require.ErrorIs(t, err, crypto.ErrDecode)

	b = wire.Builder{}
	_, unsigned, err := crypto.GenerateKeys()
	require.NoError(t, err)
	unsignedPre := b.Bytes(1, pub.IdentityKey.Encode()).Bytes(2, unsigned.Encode()).Finish()
	_, err = bundle.FromBytes(unsignedPre)
	require.ErrorIs(t, err, crypto.ErrDecode)
}

func TestFromBytes_DoesNotVerify(t *testing.T) {
	_, pub, err := bundle.GenerateBundles()
	require.NoError(t, err)
	_, other, err := bundle.GenerateBundles()
	require.NoError(t, err)

	// Other's identity key paired with pub's pre-key parses, but fails Verify.
	mixed := &bundle.KeyBundle{IdentityKey: other.IdentityKey, PreKey: pub.PreKey}
	got, err := bundle.FromBytes(mixed.Bytes())
	require.NoError(t, err)
	require.ErrorIs(t, got.Verify(), crypto.ErrInvalidSignature)
}
