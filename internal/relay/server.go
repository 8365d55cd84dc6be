package relay

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	logging "github.com/ipfs/go-log/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tg44/xmtp-js/internal/crypto"
	"github.com/tg44/xmtp-js/internal/domain"
	"github.com/tg44/xmtp-js/internal/protocol/bundle"
	"github.com/tg44/xmtp-js/internal/protocol/message"
)

var log = logging.Logger("xmtp/relay")

const (
	maxBundleBody  = 64 << 10
	maxMessageBody = 1 << 20

	// maxFetchPayload bounds the summed payload bytes of one fetch. The
	// base64 JSON response stays below the client's maxResponseSize.
	maxFetchPayload = 4 << 20
)

// ServerConfig tunes a Server. Zero values pick the defaults.
type ServerConfig struct {
	RateLimit float64 // requests per second per host; <= 0 disables limiting
	RateBurst int
	MaxQueue  int // envelopes per recipient; default 10000
}

// Server is an in-memory relay. All state is lost when the process exits.
type Server struct {
	mu      sync.RWMutex
	bundles map[domain.Address][]byte
	queues  map[domain.Address][]domain.Envelope

	maxQueue int
	limiter  *hostLimiter
	metrics  *metrics
	now      func() time.Time
}

// NewServer returns an empty relay.
func NewServer(cfg ServerConfig) *Server {
	if cfg.MaxQueue <= 0 {
		cfg.MaxQueue = 10000
	}
	return &Server{
		bundles:  make(map[domain.Address][]byte),
		queues:   make(map[domain.Address][]domain.Envelope),
		maxQueue: cfg.MaxQueue,
		limiter:  newHostLimiter(cfg.RateLimit, cfg.RateBurst),
		metrics:  newMetrics(),
		now:      time.Now,
	}
}

// Handler returns the relay's HTTP API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.route(mux, "POST /bundles/{address}", s.publishBundle)
	s.route(mux, "GET /bundles/{address}", s.getBundle)
	s.route(mux, "POST /messages/{address}", s.enqueue)
	s.route(mux, "GET /messages/{address}", s.fetch)
	s.route(mux, "POST /messages/{address}/ack", s.ack)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return mux
}

// route wraps h with rate limiting, the access log and request metrics.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		if !s.limiter.allow(remoteHost(r), start) {
			s.metrics.rejected.WithLabelValues("rate_limited").Inc()
			http.Error(rec, "rate limited", http.StatusTooManyRequests)
		} else {
			h(rec, r)
		}

		s.metrics.requests.WithLabelValues(pattern, strconv.Itoa(rec.status)).Inc()
		log.Debugw("request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) publishBundle(w http.ResponseWriter, r *http.Request) {
	addr, ok := s.pathAddress(w, r)
	if !ok {
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBundleBody))
	if err != nil {
		s.reject(w, "body_too_large", "bundle too large", http.StatusRequestEntityTooLarge)
		return
	}
	kb, err := bundle.FromBytes(data)
	if err != nil {
		s.reject(w, "bad_bundle", "malformed bundle", http.StatusBadRequest)
		return
	}
	if err := kb.Verify(); err != nil {
		s.reject(w, "bad_bundle", "bundle signature invalid", http.StatusBadRequest)
		return
	}
	owner, err := kb.WalletAddress()
	if err != nil {
		s.reject(w, "bad_bundle", "bundle has no wallet signature", http.StatusBadRequest)
		return
	}
	if owner != addr {
		s.reject(w, "wrong_owner", "bundle belongs to another address", http.StatusForbidden)
		return
	}

	s.mu.Lock()
	s.bundles[addr] = data
	s.mu.Unlock()

	s.metrics.bundles.Inc()
	log.Infow("bundle published", "address", addr, "fingerprint", kb.IdentityKey.Fingerprint())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getBundle(w http.ResponseWriter, r *http.Request) {
	addr, ok := s.pathAddress(w, r)
	if !ok {
		return
	}
	s.mu.RLock()
	data, found := s.bundles[addr]
	s.mu.RUnlock()
	if !found {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

func (s *Server) enqueue(w http.ResponseWriter, r *http.Request) {
	addr, ok := s.pathAddress(w, r)
	if !ok {
		return
	}
	var env domain.Envelope
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBody)).Decode(&env); err != nil {
		s.reject(w, "bad_envelope", "malformed envelope", http.StatusBadRequest)
		return
	}
	if to, err := crypto.ParseAddress(string(env.To)); err != nil || to != addr {
		s.reject(w, "bad_envelope", "recipient does not match path", http.StatusBadRequest)
		return
	}
	env.To = addr

	// Only the structure is checked; the relay cannot decrypt.
	m, err := message.Parse(env.Payload)
	if err != nil {
		s.reject(w, "bad_envelope", "malformed message", http.StatusBadRequest)
		return
	}
	if sender, err := m.SenderWalletAddress(); err == nil {
		env.From = sender
	}
	env.ID = uuid.NewString()
	if env.Timestamp == 0 {
		env.Timestamp = s.now().UnixMilli()
	}

	s.mu.Lock()
	if len(s.queues[addr]) >= s.maxQueue {
		s.mu.Unlock()
		s.reject(w, "queue_full", "recipient queue full", http.StatusInsufficientStorage)
		return
	}
	s.queues[addr] = append(s.queues[addr], env)
	s.mu.Unlock()

	s.metrics.enqueued.Inc()
	s.metrics.queued.Inc()
	writeJSON(w, http.StatusCreated, map[string]string{"id": env.ID})
}

func (s *Server) fetch(w http.ResponseWriter, r *http.Request) {
	addr, ok := s.pathAddress(w, r)
	if !ok {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	s.mu.RLock()
	out := batch(s.queues[addr], limit, maxFetchPayload)
	s.mu.RUnlock()

	s.metrics.delivered.Add(float64(len(out)))
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) ack(w http.ResponseWriter, r *http.Request) {
	addr, ok := s.pathAddress(w, r)
	if !ok {
		return
	}
	var req ackRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBody)).Decode(&req); err != nil {
		http.Error(w, "malformed ack", http.StatusBadRequest)
		return
	}
	drop := make(map[string]struct{}, len(req.IDs))
	for _, id := range req.IDs {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	q := s.queues[addr]
	kept := q[:0]
	for _, env := range q {
		if _, ok := drop[env.ID]; !ok {
			kept = append(kept, env)
		}
	}
	removed := len(q) - len(kept)
	if len(kept) == 0 {
		delete(s.queues, addr)
	} else {
		s.queues[addr] = kept
	}
	s.mu.Unlock()

	s.metrics.acked.Add(float64(removed))
	s.metrics.queued.Sub(float64(removed))
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// batch copies the oldest envelopes of q, stopping at limit (0 = no limit)
// or before the payloads would exceed budget. The first envelope is always
// included so a full queue still drains.
func batch(q []domain.Envelope, limit, budget int) []domain.Envelope {
	if limit == 0 || limit > len(q) {
		limit = len(q)
	}
	out := make([]domain.Envelope, 0, limit)
	size := 0
	for _, env := range q[:limit] {
		size += len(env.Payload)
		if len(out) > 0 && size > budget {
			break
		}
		out = append(out, env)
	}
	return out
}

// pathAddress parses {address}, answering 400 itself when it is invalid.
func (s *Server) pathAddress(w http.ResponseWriter, r *http.Request) (domain.Address, bool) {
	addr, err := crypto.ParseAddress(r.PathValue("address"))
	if err != nil {
		s.reject(w, "bad_address", "invalid address", http.StatusBadRequest)
		return "", false
	}
	return addr, true
}

func (s *Server) reject(w http.ResponseWriter, reason, msg string, code int) {
	s.metrics.rejected.WithLabelValues(reason).Inc()
	http.Error(w, msg, code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnw("write response", "err", err)
	}
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// statusRecorder captures the status code and size for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}
