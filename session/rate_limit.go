package session

import (
	"time"

	"github.com/oomph-ac/locomotion/packet"
)

// RateLimit bounds the inbound message rate of a connection. Counters reset every Interval.
type RateLimit struct {
	Interval time.Duration
	// MaxNormal bounds the reliable messages received per interval. The unreliable tier is sent
	// every tick and only counts toward MaxSpammed.
	MaxNormal int
	// MaxSpammed bounds every message received per interval.
	MaxSpammed int
}

// RateLimiter counts the messages received from a connection.
type RateLimiter struct {
	limit RateLimit

	numNormal  int
	numSpammed int
	lastReset  time.Time
	exceeded   bool
}

func NewRateLimiter(limit RateLimit, now time.Time) *RateLimiter {
	return &RateLimiter{limit: limit, lastReset: now}
}

// Allow counts pk and reports whether the connection is still within its limits. Once a limit
// is exceeded Allow keeps returning false until the next reset.
func (l *RateLimiter) Allow(pk packet.Packet, now time.Time) bool {
	if l.limit.Interval > 0 && now.Sub(l.lastReset) >= l.limit.Interval {
		l.lastReset = now
		l.numNormal, l.numSpammed = 0, 0
		l.exceeded = false
	}
	if l.exceeded {
		return false
	}

	l.numSpammed++
	if l.limit.MaxSpammed > 0 && l.numSpammed > l.limit.MaxSpammed {
		l.exceeded = true
		return false
	}
	if packet.Unreliable(pk) {
		return true
	}
	l.numNormal++
	if l.limit.MaxNormal > 0 && l.numNormal > l.limit.MaxNormal {
		l.exceeded = true
		return false
	}
	return true
}
