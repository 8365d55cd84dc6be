package interfaces

import (
	"context"

	domaintypes "github.com/tg44/xmtp-js/internal/domain/types"
	"github.com/tg44/xmtp-js/internal/protocol/bundle"
)

// IdentityService owns the local wallet and the key bundle it vouches for.
type IdentityService interface {
	CreateWallet(passphrase string) (domaintypes.Address, error)
	ImportWallet(passphrase, mnemonic string) (domaintypes.Address, error)
	Mnemonic(passphrase string) (string, error)

	GenerateIdentity(ctx context.Context, passphrase string) (
		*bundle.KeyBundle,
		domaintypes.Fingerprint,
		error,
	)
	LoadIdentity(ctx context.Context, passphrase string) (*bundle.PrivateKeyBundle, error)
	FingerprintIdentity(ctx context.Context, passphrase string) (domaintypes.Fingerprint, error)
}

// ContactService publishes our bundle and resolves peers' bundles.
type ContactService interface {
	Register(ctx context.Context, passphrase string) (domaintypes.AccountProfile, error)
	Lookup(ctx context.Context, address domaintypes.Address) (*bundle.KeyBundle, error)
}

// MessageService encrypts, sends, fetches and decrypts messages.
type MessageService interface {
	SendMessage(
		ctx context.Context,
		passphrase string,
		to domaintypes.Address,
		plaintext []byte,
	) error
	ReceiveMessages(
		ctx context.Context,
		passphrase string,
		limit int,
	) ([]domaintypes.DecryptedMessage, error)
}
