package interfaces

import (
	"context"

	domaintypes "github.com/tg44/xmtp-js/internal/domain/types"
)

// RelayClient is how we talk to the relay server, all with context.
type RelayClient interface {
	PublishBundle(ctx context.Context, address domaintypes.Address, bundle []byte) error
	FetchBundle(ctx context.Context, address domaintypes.Address) ([]byte, error)

	SendMessage(ctx context.Context, envelope domaintypes.Envelope) error
	FetchMessages(
		ctx context.Context,
		address domaintypes.Address,
		limit int,
	) ([]domaintypes.Envelope, error)
	AckMessages(ctx context.Context, address domaintypes.Address, ids []string) error
}
