package crypto

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/tg44/xmtp-js/internal/util/memzero"
)

const (
	// PrivateKeySize is the length of a serialized secp256k1 scalar.
	PrivateKeySize = 32
	// PublicKeySize is the length of an uncompressed point (0x04 || X || Y).
	PublicKeySize = 65
	// CompressedPublicKeySize is the length of a compressed point.
	CompressedPublicKeySize = 33
)

// PrivateKey is a secp256k1 scalar together with its public key.
type PrivateKey struct {
	key    *ecdsa.PrivateKey
	public *PublicKey
}

// PublicKey is a secp256k1 point with the signatures vouching for it.
type PublicKey struct {
	point *ecdsa.PublicKey

	// Signature is set on pre-keys: the identity key's signature over this key.
	Signature *KeySignature
	// WalletSignature is set on identity keys linked to an external account.
	WalletSignature *Signature
}

// GenerateKeys returns a fresh key pair drawn from crypto/rand.
func GenerateKeys() (*PrivateKey, *PublicKey, error) {
	k, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	priv := newPrivateKey(k)
	return priv, priv.public, nil
}

// PrivateKeyFromBytes parses a 32-byte big-endian scalar.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, ErrDecode
	}
	k, err := ethcrypto.ToECDSA(b)
	if err != nil {
		return nil, ErrDecode
	}
	return newPrivateKey(k), nil
}

func newPrivateKey(k *ecdsa.PrivateKey) *PrivateKey {
	return &PrivateKey{key: k, public: &PublicKey{point: &k.PublicKey}}
}

// Bytes returns the 32-byte scalar. Callers own the returned slice and
// should wipe it when done.
func (k *PrivateKey) Bytes() []byte { return ethcrypto.FromECDSA(k.key) }

// PublicKey returns the public half, including any attached signatures.
func (k *PrivateKey) PublicKey() *PublicKey { return k.public }

// WithPublicKey returns a copy of k whose public half is pub. It is used to
// carry signatures attached to pub alongside the scalar.
func (k *PrivateKey) WithPublicKey(pub *PublicKey) (*PrivateKey, error) {
	if pub == nil || !k.public.Equal(pub) {
		return nil, ErrKeyMismatch
	}
	return &PrivateKey{key: k.key, public: pub}, nil
}

// Sign signs the SHA-256 digest of msg. Signatures are deterministic
// (RFC 6979) and recoverable.
func (k *PrivateKey) Sign(msg []byte) (Signature, error) {
	digest := sha256.Sum256(msg)
	sig, err := ethcrypto.Sign(digest[:], k.key)
	if err != nil {
		return Signature{}, err
	}
	return SignatureFromBytes(sig)
}

// SignKey returns a copy of target carrying k's KeySignature over target's
// point. target itself is left untouched.
func (k *PrivateKey) SignKey(target *PublicKey) (*PublicKey, error) {
	if target == nil {
		return nil, errNilKey
	}
	sig, err := k.Sign(target.Bytes())
	if err != nil {
		return nil, err
	}
	return &PublicKey{
		point:           target.point,
		Signature:       &KeySignature{Signature: sig, Signer: k.public.bare()},
		WalletSignature: target.WalletSignature,
	}, nil
}

// sharedSecret returns the X coordinate of k·pub.
func (k *PrivateKey) sharedSecret(pub *PublicKey) ([]byte, error) {
	if pub == nil {
		return nil, errNilKey
	}
	scalar := k.Bytes()
	priv := secp256k1.PrivKeyFromBytes(scalar)
	memzero.Zero(scalar)
	defer priv.Zero()

	peer, err := secp256k1.ParsePubKey(pub.Bytes())
	if err != nil {
		return nil, ErrDecode
	}
	return secp256k1.GenerateSharedSecret(priv, peer), nil
}

// ParsePublicKey parses a compressed (33-byte) or uncompressed (65-byte)
// point and normalizes it.
func ParsePublicKey(b []byte) (*PublicKey, error) {
	if len(b) != PublicKeySize && len(b) != CompressedPublicKeySize {
		return nil, ErrDecode
	}
	p, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, ErrDecode
	}
	point, err := ethcrypto.UnmarshalPubkey(p.SerializeUncompressed())
	if err != nil {
		return nil, ErrDecode
	}
	return &PublicKey{point: point}, nil
}

// Bytes returns the uncompressed point encoding.
func (p *PublicKey) Bytes() []byte { return ethcrypto.FromECDSAPub(p.point) }

// Compressed returns the 33-byte compressed point encoding.
func (p *PublicKey) Compressed() []byte { return ethcrypto.CompressPubkey(p.point) }

// Equal reports whether p and o are the same point. Signatures are ignored.
func (p *PublicKey) Equal(o *PublicKey) bool {
	if p == nil || o == nil {
		return false
	}
	return p.point.X.Cmp(o.point.X) == 0 && p.point.Y.Cmp(o.point.Y) == 0
}

// Verify reports whether sig is p's signature over the SHA-256 digest of msg.
func (p *PublicKey) Verify(sig Signature, msg []byte) bool {
	digest := sha256.Sum256(msg)
	return ethcrypto.VerifySignature(p.Bytes(), digest[:], sig.Compact[:])
}

// VerifyKey reports whether signed carries a KeySignature issued by p.
func (p *PublicKey) VerifyKey(signed *PublicKey) bool {
	if p == nil || signed == nil || signed.Signature == nil {
		return false
	}
	if !p.Equal(signed.Signature.Signer) {
		return false
	}
	return p.Verify(signed.Signature.Signature, signed.Bytes())
}

// VerifyKeySignature checks signed against the signer embedded in its
// KeySignature and returns that signer.
func VerifyKeySignature(signed *PublicKey) (*PublicKey, bool) {
	if signed == nil || signed.Signature == nil || signed.Signature.Signer == nil {
		return nil, false
	}
	signer := signed.Signature.Signer
	return signer, signer.VerifyKey(signed)
}

// bare returns p without signatures.
func (p *PublicKey) bare() *PublicKey { return &PublicKey{point: p.point} }
