package types

// AccountProfile records that an address published its bundle to a relay.
type AccountProfile struct {
	ServerURL    string      `json:"server_url"`
	Address      Address     `json:"address"`
	Fingerprint  Fingerprint `json:"fingerprint"`
	RegisteredAt int64       `json:"registered_at"`
}
