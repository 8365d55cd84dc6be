// Package domain holds the plain records and service contracts the CLI,
// stores and relay client agree on. Protocol types live in
// internal/protocol; this package only aliases what it needs.
package domain
