package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles bot commands per chat.
type Limiter interface {
	// Allow reports whether chatID may run a command now. When it may not,
	// the returned duration is how long until the next token is available.
	Allow(chatID int64) (bool, time.Duration)
}

// InMemoryLimiter keeps one token bucket per chat.
type InMemoryLimiter struct {
	chats map[int64]*rate.Limiter
	mu    sync.Mutex
	r     rate.Limit
	b     int
	now   func() time.Time
}

// NewInMemoryLimiter allows requests per interval with the given burst.
// Example: NewInMemoryLimiter(1, 2*time.Second, 5) -> one command every 2 seconds, bursts of 5.
func NewInMemoryLimiter(requests int, per time.Duration, burst int) *InMemoryLimiter {
	if requests <= 0 {
		requests = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &InMemoryLimiter{
		chats: make(map[int64]*rate.Limiter),
		r:     rate.Every(per / time.Duration(requests)),
		b:     burst,
		now:   time.Now,
	}
}

var _ Limiter = (*InMemoryLimiter)(nil)

func (l *InMemoryLimiter) Allow(chatID int64) (bool, time.Duration) {
	l.mu.Lock()
	limiter, ok := l.chats[chatID]
	if !ok {
		limiter = rate.NewLimiter(l.r, l.b)
		l.chats[chatID] = limiter
	}
	l.mu.Unlock()

	now := l.now()
	reservation := limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, 0
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}
