package types

// Envelope is what the relay queues for a recipient. Payload is an encoded
// message; the relay never sees more than its header.
type Envelope struct {
	ID        string  `json:"id,omitempty"`
	From      Address `json:"from"`
	To        Address `json:"to"`
	Payload   []byte  `json:"payload"`
	Timestamp int64   `json:"timestamp"`
}

// DecryptedMessage is what MessageService.ReceiveMessages returns. From is
// the wallet address proven by the sender's bundle, not the relay's claim.
type DecryptedMessage struct {
	ID          string      `json:"id"`
	From        Address     `json:"from"`
	Fingerprint Fingerprint `json:"fingerprint"`
	Plaintext   []byte      `json:"plaintext"`
	Timestamp   int64       `json:"timestamp"`
}

// Contact is a peer bundle that was fetched and verified once.
type Contact struct {
	Address     Address     `json:"address"`
	Bundle      []byte      `json:"bundle"`
	Fingerprint Fingerprint `json:"fingerprint"`
	UpdatedAt   int64       `json:"updated_at"`
}
