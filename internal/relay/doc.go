// Package relay implements the store-and-forward relay: an HTTP client used by
// the messaging services and the in-memory server behind cmd/relay.
//
// The relay holds published key bundles and queues encoded messages for
// recipients until they fetch and acknowledge them. It never sees plaintext
// or private keys.
//
// HTTP API
//
//	POST /bundles/{address}
//	    Publish a KeyBundle (raw bytes). The server checks the pre-key
//	    signature and that the identity key's wallet signature recovers to
//	    {address}.
//
//	GET /bundles/{address}
//	    Return the latest published KeyBundle bytes for {address}.
//
//	POST /messages/{address}
//	    Enqueue an Envelope (JSON) for {address}. The server assigns the ID and
//	    fills a zero Timestamp.
//
//	GET /messages/{address}?limit=N
//	    Return up to N queued Envelopes, oldest first. One response carries at
//	    most 4 MiB of payload (always at least one Envelope); fetch again
//	    after acking to drain the rest.
//
//	POST /messages/{address}/ack {"ids": [...]}
//	    Drop the listed Envelopes from the queue.
//
//	GET /metrics
//	    Prometheus metrics.
//
// Requests are rate limited per remote host. Non-2xx responses carry a short
// error message; the client reports them with the method, path and status.
package relay
