// Package main runs the in-memory HTTP relay used by xmtp during development
// and tests. It stores published key bundles and queues encrypted envelopes
// for recipients until they fetch and acknowledge them.
//
// HTTP API
//
//	POST /bundles/{address}
//	    Store the KeyBundle bytes for {address}. The bundle must verify and
//	    its identity key must carry a wallet signature recovering to
//	    {address}; otherwise 400 or 403.
//
//	GET /bundles/{address}
//	    Return the latest published bundle for {address}, or 404.
//
//	POST /messages/{address}
//	    Enqueue an Envelope destined to {address}. The payload must parse as a
//	    Message. The relay assigns the ID, takes From from the header's
//	    sender bundle and fills a zero Timestamp with the current time.
//
//	GET /messages/{address}?limit=N
//	    Return up to N queued Envelopes, oldest first. If limit is absent or
//	    zero, envelopes are returned until 4 MiB of payload.
//
//	POST /messages/{address}/ack { "ids": [...] }
//	    Drop the listed envelopes from the queue.
//
//	GET /metrics
//	    Prometheus metrics.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Requests are rate limited per remote host (429 when exceeded).
//   - A lightweight access log records method, path, remote, status, bytes and
//     duration for each request at debug level.
//   - The default listen address is :8080; see relay.listen in config.yaml.
//
// The relay never sees plaintext or private keys; it only stores ciphertext
// and public bundles.
package main
