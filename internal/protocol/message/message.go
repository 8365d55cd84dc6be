package message

import (
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/tg44/xmtp-js/internal/crypto"
	"github.com/tg44/xmtp-js/internal/protocol/bundle"
	"github.com/tg44/xmtp-js/internal/protocol/wire"
)

// State is the lifecycle position of a Message.
type State int

const (
	Unbuilt State = iota
	Encoded
	Decoded
)

func (s State) String() string {
	switch s {
	case Encoded:
		return "encoded"
	case Decoded:
		return "decoded"
	default:
		return "unbuilt"
	}
}

const (
	fieldMessageHeader  protowire.Number = 1
	fieldMessagePayload protowire.Number = 2

	fieldHeaderSender    protowire.Number = 1
	fieldHeaderRecipient protowire.Number = 2
	fieldHeaderTimestamp protowire.Number = 3
)

// Header identifies both parties of a message.
type Header struct {
	Sender    *bundle.KeyBundle
	Recipient *bundle.KeyBundle
	Timestamp time.Time
}

// Message is an encrypted message and, once opened, its plaintext.
type Message struct {
	Header  *Header
	Payload *crypto.EncryptedPayload

	headerBytes []byte
	decrypted   []byte
	state       State
}

// Encode seals plaintext from sender to recipient. The recipient bundle is
// verified first; key agreement uses both parties' pre-keys.
func Encode(sender *bundle.PrivateKeyBundle, recipient *bundle.KeyBundle, plaintext []byte) (*Message, error) {
	if err := recipient.Verify(); err != nil {
		return nil, err
	}
	h := &Header{
		Sender:    sender.PublicBundle(),
		Recipient: recipient,
		Timestamp: time.Now().Truncate(time.Millisecond),
	}
	hb := h.encode()
	payload, err := crypto.EncryptWithAD(plaintext, hb, recipient.PreKey, sender.PreKey)
	if err != nil {
		return nil, err
	}
	return &Message{Header: h, Payload: payload, headerBytes: hb, state: Encoded}, nil
}

// Parse reads a message without decrypting it. The header, including the
// sender's wallet linkage, can be inspected on the result.
func Parse(data []byte) (*Message, error) {
	var hb, pb []byte
	err := wire.Walk(data, func(f wire.Field) error {
		if f.Num != fieldMessageHeader && f.Num != fieldMessagePayload {
			return nil
		}
		if f.Type != protowire.BytesType {
			return crypto.ErrDecode
		}
		if f.Num == fieldMessageHeader {
			hb = f.Bytes
		} else {
			pb = f.Bytes
		}
		return nil
	})
	if err != nil || hb == nil || pb == nil {
		return nil, crypto.ErrDecode
	}
	h, err := decodeHeader(hb)
	if err != nil {
		return nil, err
	}
	payload, err := crypto.DecodeEncryptedPayload(pb)
	if err != nil {
		return nil, err
	}
	return &Message{
		Header:      h,
		Payload:     payload,
		headerBytes: append([]byte(nil), hb...),
		state:       Encoded,
	}, nil
}

// Decode parses data and opens it for recipient.
func Decode(recipient *bundle.PrivateKeyBundle, data []byte) (*Message, error) {
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if _, err := m.Open(recipient); err != nil {
		return nil, err
	}
	return m, nil
}

// Open verifies the sender bundle, decrypts the payload with recipient's
// pre-key and caches the plaintext. Opening a decoded message returns the
// cached plaintext.
func (m *Message) Open(recipient *bundle.PrivateKeyBundle) ([]byte, error) {
	switch m.state {
	case Decoded:
		return m.decrypted, nil
	case Unbuilt:
		return nil, crypto.ErrDecode
	}
	if err := m.Header.Sender.Verify(); err != nil {
		return nil, err
	}
	if recipient == nil || !recipient.PreKey.PublicKey().Equal(m.Header.Recipient.PreKey) {
		return nil, crypto.ErrDecryptionFailed
	}
	plaintext, err := crypto.DecryptWithAD(m.Payload, m.headerBytes, m.Header.Sender.PreKey, recipient.PreKey)
	if err != nil {
		return nil, err
	}
	m.decrypted = plaintext
	m.state = Decoded
	return plaintext, nil
}

// Bytes returns the wire encoding of m, or nil for an unbuilt message.
func (m *Message) Bytes() []byte {
	if m.state == Unbuilt {
		return nil
	}
	var b wire.Builder
	return b.Bytes(fieldMessageHeader, m.headerBytes).
		Bytes(fieldMessagePayload, m.Payload.Encode()).
		Finish()
}

// Decrypted returns the cached plaintext; nil until the message is opened.
func (m *Message) Decrypted() []byte { return m.decrypted }

// State returns the lifecycle position of m.
func (m *Message) State() State { return m.state }

// SenderWalletAddress returns the account that vouched for the sender's
// identity key. It needs no keys and works on parsed messages.
func (m *Message) SenderWalletAddress() (crypto.Address, error) {
	if m.Header == nil {
		return "", crypto.ErrNoWalletSignature
	}
	return m.Header.Sender.WalletAddress()
}

func (h *Header) encode() []byte {
	var b wire.Builder
	return b.Bytes(fieldHeaderSender, h.Sender.Bytes()).
		Bytes(fieldHeaderRecipient, h.Recipient.Bytes()).
		Uint(fieldHeaderTimestamp, uint64(h.Timestamp.UnixMilli())).
		Finish()
}

func decodeHeader(data []byte) (*Header, error) {
	var (
		h  Header
		ts uint64
	)
	err := wire.Walk(data, func(f wire.Field) error {
		var err error
		switch f.Num {
		case fieldHeaderSender:
			if f.Type != protowire.BytesType || h.Sender != nil {
				return crypto.ErrDecode
			}
			h.Sender, err = bundle.FromBytes(f.Bytes)
		case fieldHeaderRecipient:
			if f.Type != protowire.BytesType || h.Recipient != nil {
				return crypto.ErrDecode
			}
			h.Recipient, err = bundle.FromBytes(f.Bytes)
		case fieldHeaderTimestamp:
			if f.Type != protowire.VarintType {
				return crypto.ErrDecode
			}
			ts = f.Varint
		}
		return err
	})
	if err != nil || h.Sender == nil || h.Recipient == nil {
		return nil, crypto.ErrDecode
	}
	h.Timestamp = time.UnixMilli(int64(ts))
	return &h, nil
}
