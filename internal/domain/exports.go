package domain

import (
	interfaces "github.com/tg44/xmtp-js/internal/domain/interfaces"
	types "github.com/tg44/xmtp-js/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Address          = types.Address
	Fingerprint      = types.Fingerprint
	AccountProfile   = types.AccountProfile
	Envelope         = types.Envelope
	DecryptedMessage = types.DecryptedMessage
	Contact          = types.Contact
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	IdentityService    = interfaces.IdentityService
	ContactService     = interfaces.ContactService
	MessageService     = interfaces.MessageService
	RelayClient        = interfaces.RelayClient
	WalletStore        = interfaces.WalletStore
	PrivateBundleStore = interfaces.PrivateBundleStore
	ContactStore       = interfaces.ContactStore
	AccountStore       = interfaces.AccountStore
)
