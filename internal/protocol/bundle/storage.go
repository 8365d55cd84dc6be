package bundle

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/tg44/xmtp-js/internal/crypto"
	"github.com/tg44/xmtp-js/internal/protocol/wire"
	"github.com/tg44/xmtp-js/internal/util/memzero"
)

const (
	storageVersion = 1
	storageSalt    = 32
	storageInfo    = "xmtp/private-bundle/chacha20poly1305/v1"

	// storageText is what the wallet signs to unlock stored keys. It must not
	// depend on the bundle so the same wallet can open it anywhere.
	storageText = "XMTP : Enable Identity\n\nSigning unlocks your messaging keys on this device."
)

const (
	fieldStoreVersion    protowire.Number = 1
	fieldStoreSalt       protowire.Number = 2
	fieldStoreNonce      protowire.Number = 3
	fieldStoreCiphertext protowire.Number = 4

	fieldSecretIdentity protowire.Number = 1
	fieldSecretPreKey   protowire.Number = 2
)

// Encode seals b for durable storage under a key only signer can re-derive.
func (b *PrivateKeyBundle) Encode(ctx context.Context, signer crypto.Signer) ([]byte, error) {
	salt := make([]byte, storageSalt)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	aead, err := storageAEAD(ctx, signer, salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	var inner wire.Builder
	secret := inner.Bytes(fieldSecretIdentity, b.IdentityKey.Encode()).
		Bytes(fieldSecretPreKey, b.PreKey.Encode()).
		Finish()
	defer memzero.Zero(secret)

	var out wire.Builder
	return out.Uint(fieldStoreVersion, storageVersion).
		Bytes(fieldStoreSalt, salt).
		Bytes(fieldStoreNonce, nonce).
		Bytes(fieldStoreCiphertext, aead.Seal(nil, nonce, secret, salt)).
		Finish(), nil
}

// DecodePrivateKeyBundle opens bytes produced by PrivateKeyBundle.Encode.
// Nothing is returned unless the whole bundle decoded and verified.
func DecodePrivateKeyBundle(ctx context.Context, signer crypto.Signer, data []byte) (*PrivateKeyBundle, error) {
	var (
		version                uint64
		salt, nonce, sealedBox []byte
	)
	err := wire.Walk(data, func(f wire.Field) error {
		switch f.Num {
		case fieldStoreVersion:
			version = f.Varint
		case fieldStoreSalt:
			salt = f.Bytes
		case fieldStoreNonce:
			nonce = f.Bytes
		case fieldStoreCiphertext:
			sealedBox = f.Bytes
		}
		return nil
	})
	if err != nil || version != storageVersion || len(salt) != storageSalt ||
		len(nonce) != chacha20poly1305.NonceSize || sealedBox == nil {
		return nil, crypto.ErrDecode
	}

	aead, err := storageAEAD(ctx, signer, salt)
	if err != nil {
		return nil, err
	}
	secret, err := aead.Open(nil, nonce, sealedBox, salt)
	if err != nil {
		return nil, crypto.ErrDecryptionFailed
	}
	defer memzero.Zero(secret)

	return decodeSecret(secret)
}

func decodeSecret(secret []byte) (*PrivateKeyBundle, error) {
	var b PrivateKeyBundle
	err := wire.Walk(secret, func(f wire.Field) error {
		var err error
		switch f.Num {
		case fieldSecretIdentity:
			b.IdentityKey, err = crypto.DecodePrivateKey(f.Bytes)
		case fieldSecretPreKey:
			b.PreKey, err = crypto.DecodePrivateKey(f.Bytes)
		}
		return err
	})
	if err != nil || b.IdentityKey == nil || b.PreKey == nil {
		return nil, crypto.ErrDecode
	}
	if err := b.PublicBundle().Verify(); err != nil {
		return nil, err
	}
	return &b, nil
}

// storageAEAD asks signer for the unlock signature and derives the wrapping
// cipher from it.
func storageAEAD(ctx context.Context, signer crypto.Signer, salt []byte) (cipher.AEAD, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sig, err := signer.Sign(ctx, []byte(storageText))
	if err != nil {
		return nil, fmt.Errorf("wallet sign: %w", err)
	}
	addr, err := crypto.RecoverWalletAddress(sig, []byte(storageText))
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(string(addr), string(signer.Address())) {
		return nil, crypto.ErrInvalidSignature
	}

	ikm := sig.Bytes()
	defer memzero.Zero(ikm)
	key := make([]byte, chacha20poly1305.KeySize)
	defer memzero.Zero(key)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, salt, []byte(storageInfo)), key); err != nil {
		return nil, err
	}
	return chacha20poly1305.New(key)
}
