package store

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/tg44/xmtp-js/internal/util/memzero"
)

// The current supported version of the passphrase blob format.
const passphraseFormatVersion = 1

// ErrWrongPassphrase is returned when the passphrase is incorrect or the
// blob has been modified or corrupted.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted keystore")

// kdfParams are the scrypt cost parameters recorded in each blob.
type kdfParams struct {
	N, R, P int
}

// defaultKDF matches the interactive-login cost recommended for scrypt.
var defaultKDF = kdfParams{N: 1 << 15, R: 8, P: 1}

// passphraseBlob is the on-disk JSON structure holding the ciphertext and
// KDF parameters. Kind names what is sealed and is authenticated with it.
type passphraseBlob struct {
	V      int    `json:"v"`
	Kind   string `json:"kind"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

func (b *passphraseBlob) ad() []byte {
	return append([]byte(b.Kind), b.Salt...)
}

// sealWithPassphrase derives a key from passphrase and seals raw into a JSON
// blob.
func sealWithPassphrase(kind, passphrase string, raw []byte, kdf kdfParams) ([]byte, error) {
	bl := passphraseBlob{
		V:    passphraseFormatVersion,
		Kind: kind,
		Salt: make([]byte, 16),
		N:    kdf.N,
		R:    kdf.R,
		P:    kdf.P,
	}
	if _, err := rand.Read(bl.Salt); err != nil {
		return nil, err
	}
	aead, err := passphraseAEAD(passphrase, &bl)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte // zero nonce; salt-bound key is never reused
	bl.Cipher = aead.Seal(nil, nonce[:], raw, bl.ad())
	return json.Marshal(bl)
}

// openWithPassphrase opens a blob written by sealWithPassphrase for kind.
func openWithPassphrase(kind, passphrase string, b []byte) ([]byte, error) {
	var bl passphraseBlob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, err
	}
	if bl.V > passphraseFormatVersion {
		return nil, fmt.Errorf("unsupported keystore version %d", bl.V)
	}
	if bl.Kind != kind {
		return nil, fmt.Errorf("keystore holds %q, want %q", bl.Kind, kind)
	}
	aead, err := passphraseAEAD(passphrase, &bl)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	pt, err := aead.Open(nil, nonce[:], bl.Cipher, bl.ad())
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}

func passphraseAEAD(passphrase string, bl *passphraseBlob) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(passphrase), bl.Salt, bl.N, bl.R, bl.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)
	return chacha20poly1305.New(key)
}
