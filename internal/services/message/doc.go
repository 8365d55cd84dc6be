// Package message sends and receives encrypted messages through the relay.
//
// Sending resolves the recipient's verified bundle through the contact
// service and encodes a message from our bundle to theirs. Receiving decodes
// each queued envelope with our bundle; the sender's address is taken from
// the wallet linkage in the message header, never from the relay.
package message
