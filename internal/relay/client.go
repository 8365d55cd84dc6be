package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tg44/xmtp-js/internal/domain"
)

var (
	// ErrNotFound is returned when the relay has no bundle for an address.
	ErrNotFound = errors.New("relay: not found")

	// ErrResponseTooLarge is returned when a response body exceeds
	// maxResponseSize.
	ErrResponseTooLarge = errors.New("relay: response too large")
)

// maxResponseSize bounds response bodies read from the relay.
const maxResponseSize = 8 << 20

// HTTP is a domain.RelayClient over the relay's HTTP API.
type HTTP struct {
	Base string
	HTTP *http.Client
}

// NewHTTP returns a client for the relay at base. A nil hc uses
// http.DefaultClient.
func NewHTTP(base string, hc *http.Client) *HTTP {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTP{Base: strings.TrimRight(base, "/"), HTTP: hc}
}

// PublishBundle uploads our encoded KeyBundle under address.
func (c *HTTP) PublishBundle(ctx context.Context, address domain.Address, bundle []byte) error {
	return c.do(ctx, http.MethodPost, bundlePath(address), "application/octet-stream", bytes.NewReader(bundle), nil)
}

// FetchBundle downloads the encoded KeyBundle published under address. The
// bytes are unverified.
func (c *HTTP) FetchBundle(ctx context.Context, address domain.Address) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.do(ctx, http.MethodGet, bundlePath(address), "", nil, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SendMessage enqueues env for env.To.
func (c *HTTP) SendMessage(ctx context.Context, env domain.Envelope) error {
	return c.postJSON(ctx, messagesPath(env.To), env)
}

// FetchMessages returns up to limit queued envelopes for address; limit <= 0
// fetches all.
func (c *HTTP) FetchMessages(ctx context.Context, address domain.Address, limit int) ([]domain.Envelope, error) {
	path := messagesPath(address)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var buf bytes.Buffer
	if err := c.do(ctx, http.MethodGet, path, "", nil, &buf); err != nil {
		return nil, err
	}
	var envs []domain.Envelope
	if err := json.Unmarshal(buf.Bytes(), &envs); err != nil {
		return nil, fmt.Errorf("relay get %s: %w", path, err)
	}
	return envs, nil
}

// AckMessages drops the envelopes with the given IDs from address's queue.
func (c *HTTP) AckMessages(ctx context.Context, address domain.Address, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return c.postJSON(ctx, messagesPath(address)+"/ack", ackRequest{IDs: ids})
}

func (c *HTTP) postJSON(ctx context.Context, path string, in any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, "application/json", buf, nil)
}

func (c *HTTP) do(ctx context.Context, method, path, contentType string, body io.Reader, out *bytes.Buffer) error {
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("relay %s %s: %w", strings.ToLower(method), path, ErrNotFound)
	}
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("relay %s %s: %s: %s", strings.ToLower(method), path, resp.Status, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	n, err := io.Copy(out, io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return err
	}
	if n > maxResponseSize {
		out.Reset()
		return fmt.Errorf("relay %s %s: %w", strings.ToLower(method), path, ErrResponseTooLarge)
	}
	return nil
}

// ackRequest is the body of POST /messages/{address}/ack.
type ackRequest struct {
	IDs []string `json:"ids"`
}

func bundlePath(a domain.Address) string   { return "/bundles/" + url.PathEscape(string(a)) }
func messagesPath(a domain.Address) string { return "/messages/" + url.PathEscape(string(a)) }

var _ domain.RelayClient = (*HTTP)(nil)
