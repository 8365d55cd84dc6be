package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short hex fingerprint of a public key.
//
// It hashes the uncompressed point with SHA-256 and truncates to 10 bytes
// (20 hex chars).
func (p *PublicKey) Fingerprint() string {
	sum := sha256.Sum256(p.Bytes())
	return hex.EncodeToString(sum[:10])
}
