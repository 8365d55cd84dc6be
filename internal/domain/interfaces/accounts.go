package interfaces

import domaintypes "github.com/tg44/xmtp-js/internal/domain/types"

// AccountStore persists per-relay registrations.
type AccountStore interface {
	SaveAccountProfile(profile domaintypes.AccountProfile) error
	LoadAccountProfile(
		serverURL string,
		address domaintypes.Address,
	) (domaintypes.AccountProfile, bool, error)
}
