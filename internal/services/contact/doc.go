// Package contact publishes our key bundle and resolves peers' bundles.
//
// A peer bundle is only trusted after three checks: it parses, its pre-key
// signature verifies against its identity key, and the identity key's wallet
// signature recovers to the address we asked for. Verified bundles are cached
// in the ContactStore and re-verified on every use.
package contact
