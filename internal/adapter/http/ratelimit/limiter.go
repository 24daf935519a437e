package ratelimit

import (
	"sync"
	"time"
)

type AttemptRecord struct {
	Failures     int
	LastFailure  time.Time
	BlockedUntil time.Time
}

// FailureLimiter blocks a client after too many failed authentication
// attempts inside a window. Successful requests are never counted.
type FailureLimiter struct {
	mu             sync.RWMutex
	attempts       map[string]*AttemptRecord
	maxFailures    int
	windowDuration time.Duration
	blockDuration  time.Duration
	now            func() time.Time
	stop           chan struct{}
	stopOnce       sync.Once
}

func NewFailureLimiter(maxFailures int, windowDuration, blockDuration time.Duration) *FailureLimiter {
	limiter := &FailureLimiter{
		attempts:       make(map[string]*AttemptRecord),
		maxFailures:    maxFailures,
		windowDuration: windowDuration,
		blockDuration:  blockDuration,
		now:            time.Now,
		stop:           make(chan struct{}),
	}

	go limiter.cleanupLoop()

	return limiter
}

// Blocked reports whether clientID is currently locked out and for how long.
func (r *FailureLimiter) Blocked(clientID string) (bool, time.Duration) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.attempts[clientID]
	if !ok {
		return false, 0
	}
	now := r.now()
	if now.Before(record.BlockedUntil) {
		return true, record.BlockedUntil.Sub(now)
	}
	return false, 0
}

// Fail records a failed attempt. It returns the block duration when this
// failure tipped the client over the limit, else zero.
func (r *FailureLimiter) Fail(clientID string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	record, ok := r.attempts[clientID]
	if !ok {
		record = &AttemptRecord{}
		r.attempts[clientID] = record
	}

	if now.Sub(record.LastFailure) > r.windowDuration {
		record.Failures = 0
	}
	record.Failures++
	record.LastFailure = now

	if record.Failures >= r.maxFailures {
		record.Failures = 0
		record.BlockedUntil = now.Add(r.blockDuration)
		return r.blockDuration
	}
	return 0
}

func (r *FailureLimiter) Reset(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.attempts, clientID)
}

// Close stops the background cleanup.
func (r *FailureLimiter) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *FailureLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.cleanup()
		}
	}
}

func (r *FailureLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for clientID, record := range r.attempts {
		if now.Sub(record.LastFailure) > r.windowDuration*2 && now.After(record.BlockedUntil) {
			delete(r.attempts, clientID)
		}
	}
}
