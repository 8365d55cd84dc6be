package crypto

import (
	"bytes"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/tg44/xmtp-js/internal/protocol/wire"
)

// Field numbers of the key, signature and payload encodings.
const (
	fieldSignatureCompact  protowire.Number = 1
	fieldSignatureRecovery protowire.Number = 2

	fieldKeySignatureSignature protowire.Number = 1
	fieldKeySignatureSigner    protowire.Number = 2

	fieldPublicKeyUncompressed    protowire.Number = 1
	fieldPublicKeySignature       protowire.Number = 2
	fieldPublicKeyWalletSignature protowire.Number = 3
	fieldPublicKeyCompressed      protowire.Number = 4

	fieldPrivateKeySecret protowire.Number = 1
	fieldPrivateKeyPublic protowire.Number = 2

	fieldPayloadSalt       protowire.Number = 1
	fieldPayloadNonce      protowire.Number = 2
	fieldPayloadCiphertext protowire.Number = 3
)

// Encode returns the wire encoding of sig.
func (s Signature) Encode() []byte {
	var b wire.Builder
	return b.Bytes(fieldSignatureCompact, s.Compact[:]).
		Uint(fieldSignatureRecovery, uint64(s.Recovery)).
		Finish()
}

// DecodeSignature parses the output of Signature.Encode.
func DecodeSignature(data []byte) (Signature, error) {
	var (
		s       Signature
		compact []byte
	)
	err := wire.Walk(data, func(f wire.Field) error {
		switch f.Num {
		case fieldSignatureCompact:
			v, err := bytesField(f)
			if err != nil {
				return err
			}
			compact = v
		case fieldSignatureRecovery:
			if f.Type != protowire.VarintType || f.Varint > 1 {
				return ErrDecode
			}
			s.Recovery = uint8(f.Varint)
		}
		return nil
	})
	if err != nil || len(compact) != len(s.Compact) {
		return Signature{}, ErrDecode
	}
	copy(s.Compact[:], compact)
	return s, nil
}

// Encode returns the wire encoding of ks.
func (ks *KeySignature) Encode() []byte {
	var b wire.Builder
	return b.Bytes(fieldKeySignatureSignature, ks.Signature.Encode()).
		Bytes(fieldKeySignatureSigner, ks.Signer.Bytes()).
		Finish()
}

// DecodeKeySignature parses the output of KeySignature.Encode. Both the
// signature and the signer are required.
func DecodeKeySignature(data []byte) (*KeySignature, error) {
	var (
		ks     KeySignature
		hasSig bool
	)
	err := wire.Walk(data, func(f wire.Field) error {
		switch f.Num {
		case fieldKeySignatureSignature:
			v, err := bytesField(f)
			if err != nil {
				return err
			}
			if ks.Signature, err = DecodeSignature(v); err != nil {
				return err
			}
			hasSig = true
		case fieldKeySignatureSigner:
			v, err := bytesField(f)
			if err != nil {
				return err
			}
			if ks.Signer, err = ParsePublicKey(v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil || !hasSig || ks.Signer == nil {
		return nil, ErrDecode
	}
	return &ks, nil
}

// Encode returns the wire encoding of p, including attached signatures.
func (p *PublicKey) Encode() []byte {
	var b wire.Builder
	b.Bytes(fieldPublicKeyUncompressed, p.Bytes())
	if p.Signature != nil {
		b.Bytes(fieldPublicKeySignature, p.Signature.Encode())
	}
	if p.WalletSignature != nil {
		b.Bytes(fieldPublicKeyWalletSignature, p.WalletSignature.Encode())
	}
	return b.Finish()
}

// DecodePublicKey parses the output of PublicKey.Encode. The point may be
// given in either the uncompressed or the compressed field; both normalize to
// the same key.
func DecodePublicKey(data []byte) (*PublicKey, error) {
	var (
		point     []byte
		keySig    *KeySignature
		walletSig *Signature
	)
	err := wire.Walk(data, func(f wire.Field) error {
		switch f.Num {
		case fieldPublicKeyUncompressed, fieldPublicKeyCompressed:
			v, err := bytesField(f)
			if err != nil {
				return err
			}
			want := PublicKeySize
			if f.Num == fieldPublicKeyCompressed {
				want = CompressedPublicKeySize
			}
			if len(v) != want || point != nil {
				return ErrDecode
			}
			point = v
		case fieldPublicKeySignature:
			v, err := bytesField(f)
			if err != nil {
				return err
			}
			if keySig, err = DecodeKeySignature(v); err != nil {
				return err
			}
		case fieldPublicKeyWalletSignature:
			v, err := bytesField(f)
			if err != nil {
				return err
			}
			s, err := DecodeSignature(v)
			if err != nil {
				return err
			}
			walletSig = &s
		}
		return nil
	})
	if err != nil || point == nil {
		return nil, ErrDecode
	}
	pub, err := ParsePublicKey(point)
	if err != nil {
		return nil, err
	}
	pub.Signature = keySig
	pub.WalletSignature = walletSig
	return pub, nil
}

// Encode returns the wire encoding of k: the scalar and the public key with
// its signatures. It is only meant to be stored encrypted.
func (k *PrivateKey) Encode() []byte {
	var b wire.Builder
	return b.Bytes(fieldPrivateKeySecret, k.Bytes()).
		Bytes(fieldPrivateKeyPublic, k.public.Encode()).
		Finish()
}

// DecodePrivateKey parses the output of PrivateKey.Encode. An encoded public
// key must match the scalar.
func DecodePrivateKey(data []byte) (*PrivateKey, error) {
	var secret, public []byte
	err := wire.Walk(data, func(f wire.Field) error {
		var err error
		switch f.Num {
		case fieldPrivateKeySecret:
			secret, err = bytesField(f)
		case fieldPrivateKeyPublic:
			public, err = bytesField(f)
		}
		return err
	})
	if err != nil || secret == nil {
		return nil, ErrDecode
	}
	k, err := PrivateKeyFromBytes(secret)
	if err != nil {
		return nil, err
	}
	if public == nil {
		return k, nil
	}
	pub, err := DecodePublicKey(public)
	if err != nil {
		return nil, err
	}
	if k, err = k.WithPublicKey(pub); err != nil {
		return nil, ErrDecode
	}
	return k, nil
}

// Encode returns the wire encoding of p.
func (p *EncryptedPayload) Encode() []byte {
	var b wire.Builder
	return b.Bytes(fieldPayloadSalt, p.Salt).
		Bytes(fieldPayloadNonce, p.Nonce).
		Bytes(fieldPayloadCiphertext, nonNil(p.Ciphertext)).
		Finish()
}

// DecodeEncryptedPayload parses the output of EncryptedPayload.Encode.
func DecodeEncryptedPayload(data []byte) (*EncryptedPayload, error) {
	var p EncryptedPayload
	err := wire.Walk(data, func(f wire.Field) error {
		var err error
		switch f.Num {
		case fieldPayloadSalt:
			p.Salt, err = bytesField(f)
		case fieldPayloadNonce:
			p.Nonce, err = bytesField(f)
		case fieldPayloadCiphertext:
			p.Ciphertext, err = bytesField(f)
		}
		return err
	})
	if err != nil || len(p.Salt) != SaltSize || len(p.Nonce) != NonceSize || p.Ciphertext == nil {
		return nil, ErrDecode
	}
	return &p, nil
}

// bytesField returns a copy of a length-delimited field's value.
func bytesField(f wire.Field) ([]byte, error) {
	if f.Type != protowire.BytesType {
		return nil, ErrDecode
	}
	return bytes.Clone(nonNil(f.Bytes)), nil
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
