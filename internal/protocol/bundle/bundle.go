package bundle

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/tg44/xmtp-js/internal/crypto"
	"github.com/tg44/xmtp-js/internal/protocol/wire"
)

const (
	fieldIdentityKey protowire.Number = 1
	fieldPreKey      protowire.Number = 2
)

// KeyBundle is the public half of a participant's keys.
type KeyBundle struct {
	IdentityKey *crypto.PublicKey
	PreKey      *crypto.PublicKey
}

// PrivateKeyBundle holds the private identity key and pre-key. The pre-key's
// public half carries the identity key's signature.
type PrivateKeyBundle struct {
	IdentityKey *crypto.PrivateKey
	PreKey      *crypto.PrivateKey
}

// GenerateBundles creates a fresh identity key and pre-key and signs the
// pre-key with the identity key.
func GenerateBundles() (*PrivateKeyBundle, *KeyBundle, error) {
	identity, _, err := crypto.GenerateKeys()
	if err != nil {
		return nil, nil, err
	}
	pre, prePub, err := crypto.GenerateKeys()
	if err != nil {
		return nil, nil, err
	}
	signed, err := identity.SignKey(prePub)
	if err != nil {
		return nil, nil, err
	}
	if pre, err = pre.WithPublicKey(signed); err != nil {
		return nil, nil, err
	}
	priv := &PrivateKeyBundle{IdentityKey: identity, PreKey: pre}
	return priv, priv.PublicBundle(), nil
}

// PublicBundle returns the public projection of b. The returned bundle
// shares b's public keys, so a wallet signature attached to either is seen
// by both. Link the identity key before handing the projection to other
// goroutines.
func (b *PrivateKeyBundle) PublicBundle() *KeyBundle {
	return &KeyBundle{
		IdentityKey: b.IdentityKey.PublicKey(),
		PreKey:      b.PreKey.PublicKey(),
	}
}

// Bytes returns the wire encoding of kb.
func (kb *KeyBundle) Bytes() []byte {
	var b wire.Builder
	return b.Bytes(fieldIdentityKey, kb.IdentityKey.Encode()).
		Bytes(fieldPreKey, kb.PreKey.Encode()).
		Finish()
}

// FromBytes parses a bundle. Both keys are required and the pre-key must
// carry a key signature; the signature is not verified.
func FromBytes(data []byte) (*KeyBundle, error) {
	var kb KeyBundle
	err := wire.Walk(data, func(f wire.Field) error {
		var (
			dst **crypto.PublicKey
			err error
		)
		switch f.Num {
		case fieldIdentityKey:
			dst = &kb.IdentityKey
		case fieldPreKey:
			dst = &kb.PreKey
		default:
			return nil
		}
		if f.Type != protowire.BytesType || *dst != nil {
			return crypto.ErrDecode
		}
		*dst, err = crypto.DecodePublicKey(f.Bytes)
		return err
	})
	if err != nil || kb.IdentityKey == nil || kb.PreKey == nil || kb.PreKey.Signature == nil {
		return nil, crypto.ErrDecode
	}
	return &kb, nil
}

// Verify checks that the pre-key was signed by the identity key.
func (kb *KeyBundle) Verify() error {
	if !kb.IdentityKey.VerifyKey(kb.PreKey) {
		return crypto.ErrInvalidSignature
	}
	return nil
}

// WalletAddress returns the account that vouched for the identity key.
func (kb *KeyBundle) WalletAddress() (crypto.Address, error) {
	return kb.IdentityKey.WalletSignatureAddress()
}

// Equal reports whether kb and o hold the same points.
func (kb *KeyBundle) Equal(o *KeyBundle) bool {
	if kb == nil || o == nil {
		return false
	}
	return kb.IdentityKey.Equal(o.IdentityKey) && kb.PreKey.Equal(o.PreKey)
}
