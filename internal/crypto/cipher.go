package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/tg44/xmtp-js/internal/util/memzero"
)

const (
	// SaltSize is the length of the per-payload HKDF salt.
	SaltSize = 32
	// NonceSize is the AES-GCM nonce length.
	NonceSize = 12
	// KeySize is the AES-256 key length.
	KeySize = 32

	payloadInfo = "xmtp/payload/aes-256-gcm-hkdf-sha256/v1"
)

// EncryptedPayload is an AES-256-GCM ciphertext together with the values
// needed to re-derive its key.
type EncryptedPayload struct {
	Salt       []byte
	Nonce      []byte
	Ciphertext []byte // ciphertext || tag
}

// Encrypt seals plaintext from sender to recipient.
func Encrypt(plaintext []byte, recipient *PublicKey, sender *PrivateKey) (*EncryptedPayload, error) {
	return EncryptWithAD(plaintext, nil, recipient, sender)
}

// EncryptWithAD seals plaintext and authenticates ad alongside it.
//
// The key is HKDF-SHA-256 over the ECDH shared secret with a fresh random
// salt. The HKDF info binds both parties' points.
func EncryptWithAD(plaintext, ad []byte, recipient *PublicKey, sender *PrivateKey) (*EncryptedPayload, error) {
	if recipient == nil || sender == nil {
		return nil, errNilKey
	}
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key, err := payloadKey(sender, recipient, sender.public, recipient, salt)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return &EncryptedPayload{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: aead.Seal(nil, nonce, plaintext, ad),
	}, nil
}

// Decrypt opens a payload sealed by sender for recipient.
func Decrypt(p *EncryptedPayload, sender *PublicKey, recipient *PrivateKey) ([]byte, error) {
	return DecryptWithAD(p, nil, sender, recipient)
}

// DecryptWithAD opens a payload sealed with EncryptWithAD. Every failure is
// reported as ErrDecryptionFailed.
func DecryptWithAD(p *EncryptedPayload, ad []byte, sender *PublicKey, recipient *PrivateKey) ([]byte, error) {
	if p == nil || sender == nil || recipient == nil {
		return nil, ErrDecryptionFailed
	}
	if len(p.Salt) != SaltSize || len(p.Nonce) != NonceSize {
		return nil, ErrDecryptionFailed
	}
	key, err := payloadKey(recipient, sender, sender, recipient.public, p.Salt)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	defer memzero.Zero(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	plaintext, err := aead.Open(nil, p.Nonce, p.Ciphertext, ad)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

// payloadKey derives the AES key from own·peer. sender and recipient fix the
// order of the points in the HKDF info on both sides.
func payloadKey(own *PrivateKey, peer, sender, recipient *PublicKey, salt []byte) ([]byte, error) {
	secret, err := own.sharedSecret(peer)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(secret)

	info := make([]byte, 0, len(payloadInfo)+2*PublicKeySize)
	info = append(info, payloadInfo...)
	info = append(info, sender.Bytes()...)
	info = append(info, recipient.Bytes()...)

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, info), key); err != nil {
		return nil, err
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
