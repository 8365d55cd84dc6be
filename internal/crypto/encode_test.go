package crypto_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tg44/xmtp-js/internal/crypto"
	"github.com/tg44/xmtp-js/internal/protocol/wire"
	"github.com/tg44/xmtp-js/internal/wallet"
)

func TestPublicKeyEncoding_WithSignatures(t *testing.T) {
	identity, identityPub, err := crypto.GenerateKeys()
	require.NoError(t, err)
	_, prePub, err := crypto.GenerateKeys()
	require.NoError(t, err)
	w, err := wallet.New()
	require.NoError(t, err)

	require.NoError(t, identityPub.SignWithWallet(context.Background(), w))
	signed, err := identity.SignKey(prePub)
	require.NoError(t, err)

	gotIdentity, err := crypto.DecodePublicKey(identityPub.Encode())
	require.NoError(t, err)
	require.True(t, identityPub.Equal(gotIdentity))
	addr, err := gotIdentity.WalletSignatureAddress()
	require.NoError(t, err)
	require.Equal(t, w.Address(), addr)

	gotPre, err := crypto.DecodePublicKey(signed.Encode())
	require.NoError(t, err)
	require.True(t, identityPub.VerifyKey(gotPre))
}

func TestDecodePublicKey_CompressedField(t *testing.T) {
	_, pub, err := crypto.GenerateKeys()
	require.NoError(t, err)

	var b wire.Builder
	data := b.Bytes(4, pub.Compressed()).Finish()

	got, err := crypto.DecodePublicKey(data)
	require.NoError(t, err)
	require.Equal(t, pub.Bytes(), got.Bytes())
}

func TestDecodePublicKey_Malformed(t *testing.T) {
	_, pub, err := crypto.GenerateKeys()
	require.NoError(t, err)
	enc := pub.Encode()

	cases := map[string][]byte{
		"empty":     {},
		"truncated": enc[:len(enc)-1],
		"short point": func() []byte {
			var b wire.Builder
			return b.Bytes(1, pub.Bytes()[:33]).Finish()
		}(),
		"two points": func() []byte {
			var b wire.Builder
			return b.Bytes(1, pub.Bytes()).Bytes(4, pub.Compressed()).Finish()
		}(),
		"point as varint": func() []byte {
			var b wire.Builder
			return b.Uint(1, 7).Finish()
		}(),
	}
	for name, data := range cases {
		_, err := crypto.DecodePublicKey(data)
		require.ErrorIs(t, err, crypto.ErrDecode, name)
	}
}

func TestSignatureEncoding(t *testing.T) {
	priv, _, err := crypto.GenerateKeys()
	require.NoError(t, err)
	sig, err := priv.Sign([]byte("x"))
	require.NoError(t, err)

	got, err := crypto.DecodeSignature(sig.Encode())
	require.NoError(t, err)
	require.Equal(t, sig, got)

	var b wire.Builder
	_, err = crypto.DecodeSignature(b.Bytes(1, sig.Compact[:63]).Finish())
	require.ErrorIs(t, err, crypto.ErrDecode)

	b = wire.Builder{}
	_, err = crypto.DecodeSignature(b.Bytes(1, sig.Compact[:]).Uint(2, 4).Finish())
	require.ErrorIs(t, err, crypto.ErrDecode)
}

func TestPrivateKeyEncoding(t *testing.T) {
	priv, pub, err := crypto.GenerateKeys()
	require.NoError(t, err)

	got, err := crypto.DecodePrivateKey(priv.Encode())
	require.NoError(t, err)
	require.Equal(t, priv.Bytes(), got.Bytes())
	require.True(t, pub.Equal(got.PublicKey()))

	_, other, err := crypto.GenerateKeys()
	require.NoError(t, err)
	var b wire.Builder
	mismatched := b.Bytes(1, priv.Bytes()).Bytes(2, other.Encode()).Finish()
	_, err = crypto.DecodePrivateKey(mismatched)
	require.ErrorIs(t, err, crypto.ErrDecode)
}

func TestEncryptedPayloadEncoding(t *testing.T) {
	alice, alicePub, err := crypto.GenerateKeys()
	require.NoError(t, err)
	bob, bobPub, err := crypto.GenerateKeys()
	require.NoError(t, err)

	p, err := crypto.Encrypt([]byte("Yo!"), bobPub, alice)
	require.NoError(t, err)

	got, err := crypto.DecodeEncryptedPayload(p.Encode())
	require.NoError(t, err)
	plain, err := crypto.Decrypt(got, alicePub, bob)
	require.NoError(t, err)
	require.Equal(t, []byte("Yo!"), plain)

	enc := p.Encode()
	_, err = crypto.DecodeEncryptedPayload(enc[:len(enc)-2])
	require.ErrorIs(t, err, crypto.ErrDecode)
}
