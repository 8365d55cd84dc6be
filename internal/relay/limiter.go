package relay

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// hostLimiter applies a token bucket per remote host and evicts idle hosts.
type hostLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu     sync.Mutex
	byHost map[string]*hostEntry
	hits   uint64
}

type hostEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newHostLimiter returns nil, which allows everything, when rps or burst is
// not positive.
func newHostLimiter(rps float64, burst int) *hostLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	return &hostLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		byHost:  make(map[string]*hostEntry),
	}
}

// allow reports whether host may make one more request at now.
func (l *hostLimiter) allow(host string, now time.Time) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byHost[host]
	if !ok {
		e = &hostEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byHost[host] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%512 == 0 {
		cutoff := now.Add(-l.idleTTL)
		for h, v := range l.byHost {
			if v.lastSeen.Before(cutoff) {
				delete(l.byHost, h)
			}
		}
	}
	return allowed
}
