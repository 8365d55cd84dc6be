package types

import "github.com/tg44/xmtp-js/internal/crypto"

// Address is the wallet address that names a participant on the relay.
type Address = crypto.Address

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }
