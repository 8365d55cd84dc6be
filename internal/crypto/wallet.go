package crypto

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Address is an account address: "0x" followed by 40 lowercase hex digits.
type Address string

// ParseAddress validates s and returns it in canonical lowercase form.
func ParseAddress(s string) (Address, error) {
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("invalid address %q", s)
	}
	return addressOf(common.HexToAddress(s)), nil
}

func (a Address) String() string { return string(a) }

func addressOf(a common.Address) Address {
	return Address("0x" + hex.EncodeToString(a[:]))
}

// Address returns the account address of p: the low 20 bytes of the
// Keccak-256 hash of the uncompressed point without its prefix byte.
func (p *PublicKey) Address() Address {
	return addressOf(ethcrypto.PubkeyToAddress(*p.point))
}

// Signer is an externally controlled signing capability such as a wallet.
//
// Sign returns a recoverable signature over the EIP-191 personal-message hash
// of msg, as eth_sign and personal_sign do. Sign may block on user
// interaction and must honour ctx.
//
// Signatures must be deterministic: signing the same msg twice must return
// the same bytes. Private key storage derives its wrapping key from such a
// signature, so a signer with randomized nonces can encode a bundle but never
// decode it again.
type Signer interface {
	Sign(ctx context.Context, msg []byte) (Signature, error)
	Address() Address
}

// RecoverWalletAddress returns the address that produced sig over the
// EIP-191 hash of msg.
func RecoverWalletAddress(sig Signature, msg []byte) (Address, error) {
	pub, err := sig.recover(accounts.TextHash(msg))
	if err != nil {
		return "", err
	}
	return pub.Address(), nil
}

// SignWithWallet asks signer to vouch for p and attaches the result as p's
// WalletSignature. Nothing is attached unless the signer succeeded and the
// signature recovers to signer.Address().
//
// SignWithWallet mutates p. It must not run concurrently with any other use
// of p, including encoding a KeyBundle that shares p.
func (p *PublicKey) SignWithWallet(ctx context.Context, signer Signer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text := identitySigText(p.Bytes())
	sig, err := signer.Sign(ctx, text)
	if err != nil {
		return fmt.Errorf("wallet sign: %w", err)
	}
	addr, err := RecoverWalletAddress(sig, text)
	if err != nil {
		return err
	}
	if !strings.EqualFold(string(addr), string(signer.Address())) {
		return ErrInvalidSignature
	}
	p.WalletSignature = &sig
	return nil
}

// WalletSignatureAddress returns the account that signed p with
// SignWithWallet.
func (p *PublicKey) WalletSignatureAddress() (Address, error) {
	if p.WalletSignature == nil {
		return "", ErrNoWalletSignature
	}
	return RecoverWalletAddress(*p.WalletSignature, identitySigText(p.Bytes()))
}

func identitySigText(key []byte) []byte {
	return []byte("XMTP : Create Identity\n" + hex.EncodeToString(key) +
		"\n\nSigning links this messaging key to your account.")
}
