// Package crypto exposes the secp256k1 primitives used by the messaging core.
//
// Contents
//
//   - Key generation and parsing (GenerateKeys, PrivateKeyFromBytes,
//     ParsePublicKey). Public keys are normalized to the 65-byte uncompressed
//     point encoding at ingestion; compressed points are accepted.
//   - Recoverable ECDSA over SHA-256 digests (PrivateKey.Sign,
//     Signature.PublicKey, PublicKey.Verify) and Ethereum-style addresses
//     (PublicKey.Address).
//   - Key signatures: an identity key vouching for a pre-key (SignKey,
//     VerifyKey). The signer's point travels with the signature.
//   - Wallet linkage: an external Signer vouching for an identity key
//     (SignWithWallet, WalletSignatureAddress).
//   - Payload encryption: ECDH, HKDF-SHA-256 and AES-256-GCM (Encrypt,
//     Decrypt).
//   - Wire encodings for keys, signatures and payloads (Encode / Decode*).
//
// # Errors
//
// Failures are reported with the sentinels in errors.go and carry no detail
// about which field or comparison failed. Callers match them with errors.Is.
//
// # Notes
//
// All operations are stateless and safe to run concurrently on independent
// keys. Attaching a signature to a PublicKey is the only mutation and happens
// only after the signer returned successfully.
package crypto
