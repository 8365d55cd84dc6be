package message

import (
	"context"
	"errors"
	"fmt"

	logging "github.com/ipfs/go-log/v2"

	"github.com/tg44/xmtp-js/internal/crypto"
	"github.com/tg44/xmtp-js/internal/domain"
	"github.com/tg44/xmtp-js/internal/protocol/message"
)

var log = logging.Logger("xmtp/message")

// ErrUnlinked is returned when our own identity has no wallet signature, so
// peers could not tell who sent a message.
var ErrUnlinked = errors.New("identity key is not linked to a wallet")

// Service sends and receives messages over the relay.
//
// High-level flow:
//   - Send: look up and verify the peer's bundle, encode the message from our
//     pre-key to theirs and post it via the relay.
//   - Receive: fetch envelopes, decode each with our bundle, then ack every
//     envelope that was handled. Envelopes that can never decode (malformed,
//     forged sender, wrong key) are logged and acked too, since retrying them
//     cannot succeed.
type Service struct {
	ids      domain.IdentityService
	contacts domain.ContactService
	relay    domain.RelayClient
}

// New constructs a message service.
func New(
	ids domain.IdentityService,
	contacts domain.ContactService,
	relay domain.RelayClient,
) *Service {
	return &Service{ids: ids, contacts: contacts, relay: relay}
}

// SendMessage encrypts plaintext for the owner of address to and posts it.
func (s *Service) SendMessage(
	ctx context.Context,
	passphrase string,
	to domain.Address,
	plaintext []byte,
) error {
	recipient, err := crypto.ParseAddress(string(to))
	if err != nil {
		return err
	}
	priv, err := s.ids.LoadIdentity(ctx, passphrase)
	if err != nil {
		return err
	}
	from, err := priv.PublicBundle().WalletAddress()
	if err != nil {
		return ErrUnlinked
	}
	peer, err := s.contacts.Lookup(ctx, recipient)
	if err != nil {
		return err
	}

	m, err := message.Encode(priv, peer, plaintext)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	env := domain.Envelope{
		From:      from,
		To:        recipient,
		Payload:   m.Bytes(),
		Timestamp: m.Header.Timestamp.UnixMilli(),
	}
	if err := s.relay.SendMessage(ctx, env); err != nil {
		return fmt.Errorf("send to %s: %w", recipient, err)
	}
	log.Debugw("message sent", "to", recipient, "bytes", len(env.Payload))
	return nil
}

// ReceiveMessages fetches up to limit queued envelopes and decrypts them.
func (s *Service) ReceiveMessages(
	ctx context.Context,
	passphrase string,
	limit int,
) ([]domain.DecryptedMessage, error) {
	priv, err := s.ids.LoadIdentity(ctx, passphrase)
	if err != nil {
		return nil, err
	}
	me, err := priv.PublicBundle().WalletAddress()
	if err != nil {
		return nil, ErrUnlinked
	}

	envs, err := s.relay.FetchMessages(ctx, me, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DecryptedMessage, 0, len(envs))
	handled := make([]string, 0, len(envs))

	for _, env := range envs {
		handled = append(handled, env.ID)

		m, err := message.Decode(priv, env.Payload)
		if err != nil {
			log.Warnw("dropping undecodable message", "id", env.ID, "claimed_from", env.From, "err", err)
			continue
		}
		sender, err := m.SenderWalletAddress()
		if err != nil {
			log.Warnw("dropping message from unlinked sender", "id", env.ID, "err", err)
			continue
		}
		out = append(out, domain.DecryptedMessage{
			ID:          env.ID,
			From:        sender,
			Fingerprint: domain.Fingerprint(m.Header.Sender.IdentityKey.Fingerprint()),
			Plaintext:   m.Decrypted(),
			Timestamp:   m.Header.Timestamp.UnixMilli(),
		})
	}

	if err := s.relay.AckMessages(ctx, me, handled); err != nil {
		return out, fmt.Errorf("ack %d messages: %w", len(handled), err)
	}
	return out, nil
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
