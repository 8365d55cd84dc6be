// Package message implements the encrypted wire message exchanged between two
// key bundles.
//
// # Overview
//
// A Message is a header plus an encrypted payload:
//   - Header: the sender's full KeyBundle, the recipient's KeyBundle and a
//     millisecond timestamp
//   - Payload: crypto.EncryptedPayload sealed from the sender's pre-key to the
//     recipient's pre-key, with the encoded header as associated data
//
// Embedding the sender bundle lets a first-time recipient decode without any
// prior contact, and lets anyone holding the bytes check which wallet vouched
// for the sender.
//
// # Lifecycle
//
// Unbuilt → Encoded (wire bytes, no plaintext) → Decoded (plaintext cached).
// Encode and Parse yield Encoded messages; Open moves to Decoded and is
// idempotent.
//
// # Errors
//
// Parse returns crypto.ErrDecode for malformed bytes. Open returns
// crypto.ErrInvalidSignature when the sender bundle does not verify and
// crypto.ErrDecryptionFailed when the payload does not open for the
// recipient.
package message
