package crypto

import (
	"crypto/sha256"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// SignatureSize is the length of R || S || V.
const SignatureSize = 65

// Signature is a recoverable ECDSA signature.
type Signature struct {
	Compact  [64]byte // R || S
	Recovery uint8    // 0 or 1
}

// KeySignature is an identity key's signature over another public key. The
// signer's point is embedded so a verifier needs no prior context.
type KeySignature struct {
	Signature Signature
	Signer    *PublicKey
}

// SignatureFromBytes parses R || S || V. V may be 0/1 or 27/28.
func SignatureFromBytes(b []byte) (Signature, error) {
	var s Signature
	if len(b) != SignatureSize {
		return s, ErrInvalidSignature
	}
	v := b[64]
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return s, ErrInvalidSignature
	}
	copy(s.Compact[:], b[:64])
	s.Recovery = v
	return s, nil
}

// Bytes returns R || S || V with V in {0, 1}.
func (s Signature) Bytes() []byte {
	out := make([]byte, SignatureSize)
	copy(out, s.Compact[:])
	out[64] = s.Recovery
	return out
}

// PublicKey recovers the key that signed the SHA-256 digest of msg.
func (s Signature) PublicKey(msg []byte) (*PublicKey, error) {
	digest := sha256.Sum256(msg)
	return s.recover(digest[:])
}

func (s Signature) recover(digest []byte) (*PublicKey, error) {
	if s.Recovery > 1 {
		return nil, ErrInvalidSignature
	}
	pub, err := ethcrypto.SigToPub(digest, s.Bytes())
	if err != nil {
		return nil, ErrInvalidSignature
	}
	return &PublicKey{point: pub}, nil
}
