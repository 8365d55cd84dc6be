package identity

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	logging "github.com/ipfs/go-log/v2"

	"github.com/tg44/xmtp-js/internal/domain"
	"github.com/tg44/xmtp-js/internal/protocol/bundle"
	"github.com/tg44/xmtp-js/internal/util/memzero"
	"github.com/tg44/xmtp-js/internal/wallet"
)

var log = logging.Logger("xmtp/identity")

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)

	// ErrWalletExists is returned when creating or importing over an existing wallet.
	ErrWalletExists = errors.New("a wallet already exists in this home directory")

	// ErrNoIdentity is returned before GenerateIdentity has been run.
	ErrNoIdentity = errors.New("no identity; run init first")
)

// Service manages the wallet keystore and the wallet-sealed key bundle.
//
// The identity consists of:
//   - A secp256k1 wallet key whose address names us on the relay.
//   - A key bundle (identity key + signed pre-key) whose identity key carries
//     the wallet's signature.
type Service struct {
	wallets domain.WalletStore
	bundles domain.PrivateBundleStore
}

// New returns an identity service backed by the given stores.
func New(wallets domain.WalletStore, bundles domain.PrivateBundleStore) *Service {
	return &Service{wallets: wallets, bundles: bundles}
}

// CreateWallet generates a wallet key and seals it under passphrase.
func (s *Service) CreateWallet(passphrase string) (domain.Address, error) {
	w, err := wallet.New()
	if err != nil {
		return "", err
	}
	return s.storeWallet(passphrase, w)
}

// ImportWallet restores a wallet key from its mnemonic.
func (s *Service) ImportWallet(passphrase, mnemonic string) (domain.Address, error) {
	w, err := wallet.FromMnemonic(mnemonic)
	if err != nil {
		return "", err
	}
	return s.storeWallet(passphrase, w)
}

func (s *Service) storeWallet(passphrase string, w *wallet.PrivateKeyWallet) (domain.Address, error) {
	defer w.Close()
	if !isSecurePassphrase(passphrase) {
		return "", ErrWeakPassphrase
	}
	exists, err := s.wallets.HasWallet()
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrWalletExists
	}
	key := w.Bytes()
	defer memzero.Zero(key)
	if err := s.wallets.SaveWallet(passphrase, key); err != nil {
		return "", fmt.Errorf("save wallet: %w", err)
	}
	log.Infow("wallet stored", "address", w.Address())
	return w.Address(), nil
}

// Mnemonic returns the wallet's backup phrase.
func (s *Service) Mnemonic(passphrase string) (string, error) {
	w, err := s.loadWallet(passphrase)
	if err != nil {
		return "", err
	}
	defer w.Close()
	return w.Mnemonic()
}

func (s *Service) loadWallet(passphrase string) (*wallet.PrivateKeyWallet, error) {
	key, err := s.wallets.LoadWallet(passphrase)
	if err != nil {
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	defer memzero.Zero(key)
	return wallet.FromBytes(key)
}

// GenerateIdentity creates a fresh key bundle, links it to the wallet, seals
// it with the wallet and stores it. An existing bundle is replaced.
func (s *Service) GenerateIdentity(
	ctx context.Context,
	passphrase string,
) (*bundle.KeyBundle, domain.Fingerprint, error) {
	w, err := s.loadWallet(passphrase)
	if err != nil {
		return nil, "", err
	}
	defer w.Close()
	priv, pub, err := bundle.GenerateBundles()
	if err != nil {
		return nil, "", err
	}
	if err := priv.IdentityKey.PublicKey().SignWithWallet(ctx, w); err != nil {
		return nil, "", fmt.Errorf("link identity to wallet: %w", err)
	}
	sealed, err := priv.Encode(ctx, w)
	if err != nil {
		return nil, "", fmt.Errorf("seal bundle: %w", err)
	}
	if err := s.bundles.SavePrivateBundle(sealed); err != nil {
		return nil, "", fmt.Errorf("save bundle: %w", err)
	}
	fp := domain.Fingerprint(pub.IdentityKey.Fingerprint())
	log.Infow("identity generated", "address", w.Address(), "fingerprint", fp)
	return pub, fp, nil
}

// LoadIdentity unlocks the wallet and opens the stored bundle with it.
func (s *Service) LoadIdentity(ctx context.Context, passphrase string) (*bundle.PrivateKeyBundle, error) {
	sealed, ok, err := s.bundles.LoadPrivateBundle()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoIdentity
	}
	w, err := s.loadWallet(passphrase)
	if err != nil {
		return nil, err
	}
	defer w.Close()
	priv, err := bundle.DecodePrivateKeyBundle(ctx, w, sealed)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	return priv, nil
}

// FingerprintIdentity returns a short fingerprint of the identity key.
func (s *Service) FingerprintIdentity(ctx context.Context, passphrase string) (domain.Fingerprint, error) {
	priv, err := s.LoadIdentity(ctx, passphrase)
	if err != nil {
		return "", err
	}
	return domain.Fingerprint(priv.IdentityKey.PublicKey().Fingerprint()), nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
