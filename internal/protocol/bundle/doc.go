// Package bundle implements key bundles: the identity key plus signed pre-key
// a participant publishes so others can message them.
//
// # Overview
//
// A KeyBundle holds two public keys:
//   - Identity key, optionally carrying a wallet signature that links it to an
//     external account
//   - Pre-key, carrying the identity key's KeySignature
//
// Bundles are opaque until verified. FromBytes only checks structure; callers
// must call Verify before trusting the keys inside.
//
// # Private storage
//
// PrivateKeyBundle.Encode seals both private keys under a key derived from a
// wallet signature over a fixed text, so the same wallet can unlock them on
// any device. The wallet must sign deterministically.
//
// # Errors
//
// ErrDecode (from package crypto) is returned for malformed bytes,
// ErrInvalidSignature when verification fails and ErrDecryptionFailed when
// stored bundle bytes do not open with the given wallet.
package bundle
