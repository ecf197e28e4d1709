package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Mr-xn/cfr-mcp-server/internal/messages"
)

// Limiter caps decompile calls by lifetime total and per-minute rate.
// Nil limiter allows everything.
type Limiter struct {
	mu       sync.Mutex
	count    int
	maxTotal int
	limiter  *rate.Limiter
	renderer messages.Renderer
}

// New creates a limiter. Zero maxTotal or ratePerMinute disables the
// corresponding cap; if both are zero, nil is returned.
func New(maxTotal, ratePerMinute int, renderer messages.Renderer) *Limiter {
	if maxTotal <= 0 && ratePerMinute <= 0 {
		return nil
	}
	l := &Limiter{maxTotal: maxTotal, renderer: renderer}
	if ratePerMinute > 0 {
		l.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMinute)), ratePerMinute)
	}
	return l
}

// Allow reports whether one more call may proceed. On rejection the second
// return value carries the machine-readable reason.
func (l *Limiter) Allow() (bool, string) {
	if l == nil {
		return true, ""
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxTotal > 0 && l.count >= l.maxTotal {
		return false, messages.RenderOr(l.renderer, messages.KeyLimitMaxTotal, nil,
			"Maximum number of decompile calls exceeded")
	}
	if l.limiter != nil && !l.limiter.Allow() {
		return false, messages.RenderOr(l.renderer, messages.KeyLimitRate, nil,
			"Rate limit exceeded")
	}
	l.count++
	return true, ""
}
