package crypto

import (
	"errors"

	"github.com/tg44/xmtp-js/internal/protocol/wire"
)

var (
	// ErrKeyGeneration is returned when no secure randomness is available.
	ErrKeyGeneration = errors.New("key generation failed")

	// ErrInvalidSignature is returned when a signature fails verification or
	// its signer cannot be recovered.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrDecryptionFailed is returned when a payload cannot be authenticated
	// with the given keys.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrDecode is returned for malformed key, signature or payload bytes.
	ErrDecode = wire.ErrMalformed

	// ErrNoWalletSignature is returned when a key was never linked to a wallet.
	ErrNoWalletSignature = errors.New("key has no wallet signature")

	// ErrKeyMismatch is returned when a public key does not belong to a
	// private key.
	ErrKeyMismatch = errors.New("public key does not match private key")

	errNilKey = errors.New("nil key")
)
