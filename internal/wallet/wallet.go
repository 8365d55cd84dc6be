// Package wallet provides a software implementation of crypto.Signer backed
// by a local secp256k1 account key.
//
// Signatures follow personal_sign (EIP-191) and are deterministic (RFC 6979),
// which private key storage relies on. The account key can be backed up as a
// 24-word BIP-39 mnemonic of its 32 bytes.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/accounts"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"

	"github.com/tg44/xmtp-js/internal/crypto"
	"github.com/tg44/xmtp-js/internal/util/memzero"
)

// ErrInvalidMnemonic is returned for a mnemonic that does not encode a key.
var ErrInvalidMnemonic = errors.New("invalid wallet mnemonic")

// PrivateKeyWallet signs with an in-memory account key.
type PrivateKeyWallet struct {
	key     *ecdsa.PrivateKey
	address crypto.Address
}

// New generates a fresh account key.
func New() (*PrivateKeyWallet, error) {
	k, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, errors.Join(crypto.ErrKeyGeneration, err)
	}
	return fromECDSA(k), nil
}

// FromBytes loads a 32-byte account key.
func FromBytes(b []byte) (*PrivateKeyWallet, error) {
	k, err := ethcrypto.ToECDSA(b)
	if err != nil {
		return nil, crypto.ErrDecode
	}
	return fromECDSA(k), nil
}

// FromMnemonic loads an account key from its BIP-39 backup.
func FromMnemonic(mnemonic string) (*PrivateKeyWallet, error) {
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil || len(entropy) != crypto.PrivateKeySize {
		return nil, ErrInvalidMnemonic
	}
	defer memzero.Zero(entropy)
	return FromBytes(entropy)
}

func fromECDSA(k *ecdsa.PrivateKey) *PrivateKeyWallet {
	pub, err := crypto.ParsePublicKey(ethcrypto.FromECDSAPub(&k.PublicKey))
	if err != nil {
		// ToECDSA and GenerateKey only return keys on the curve.
		panic(err)
	}
	return &PrivateKeyWallet{key: k, address: pub.Address()}
}

// Address returns the account address.
func (w *PrivateKeyWallet) Address() crypto.Address { return w.address }

// Sign returns the personal_sign signature of msg.
func (w *PrivateKeyWallet) Sign(ctx context.Context, msg []byte) (crypto.Signature, error) {
	if err := ctx.Err(); err != nil {
		return crypto.Signature{}, err
	}
	sig, err := ethcrypto.Sign(accounts.TextHash(msg), w.key)
	if err != nil {
		return crypto.Signature{}, err
	}
	return crypto.SignatureFromBytes(sig)
}

// Bytes returns the 32-byte account key.
func (w *PrivateKeyWallet) Bytes() []byte { return ethcrypto.FromECDSA(w.key) }

// Mnemonic returns the BIP-39 backup phrase of the account key.
func (w *PrivateKeyWallet) Mnemonic() (string, error) {
	key := w.Bytes()
	defer memzero.Zero(key)
	return bip39.NewMnemonic(key)
}

// Close wipes the account key. The wallet must not be used afterwards.
func (w *PrivateKeyWallet) Close() {
	memzero.Scalar(w.key.D)
}

var _ crypto.Signer = (*PrivateKeyWallet)(nil)
