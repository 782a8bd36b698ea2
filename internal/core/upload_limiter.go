package core

// upload_limiter.go bounds how many logo uploads are decoded and stored at
// once.
//
// A buffered channel acts as the semaphore. When every slot is taken a new
// upload waits up to maxWait and then fails with ErrTooManyUploads. On
// shutdown the command calls WaitForDrain so in-flight uploads finish before
// the database pool closes.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyUploads is returned when no upload slot frees up within the wait
// time. Clients should retry after a short delay.
var ErrTooManyUploads = errors.New("too many concurrent logo uploads")

const (
	// DefaultMaxConcurrentUploads is used when the configured limit is not positive.
	DefaultMaxConcurrentUploads = 4

	// DefaultMaxWaitTime is used when the configured wait is not positive.
	DefaultMaxWaitTime = 10 * time.Second

	drainPollInterval = 50 * time.Millisecond
)

// UploadLimiter is a semaphore guarding logo uploads.
type UploadLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.RWMutex
	active int
}

// NewUploadLimiter allows at most maxConcurrent simultaneous uploads, each
// waiting at most maxWait for a slot.
func NewUploadLimiter(maxConcurrent int, maxWait time.Duration) *UploadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentUploads
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &UploadLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting up to the limiter's wait time.
// Returns ErrTooManyUploads on timeout or ctx.Err() when ctx ends first.
// Callers must Release a slot they acquired.
func (l *UploadLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.track(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyUploads
	}
}

// TryAcquire takes a slot without waiting and reports whether it succeeded.
func (l *UploadLimiter) TryAcquire() bool {
	select {
	case l.slots <- struct{}{}:
		l.track(1)
		return true
	default:
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *UploadLimiter) Release() {
	l.track(-1)
	<-l.slots
}

func (l *UploadLimiter) track(delta int) {
	l.mu.Lock()
	l.active += delta
	l.mu.Unlock()
}

// ActiveCount returns the number of uploads holding a slot.
func (l *UploadLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// MaxConcurrent returns the slot count.
func (l *UploadLimiter) MaxConcurrent() int {
	return cap(l.slots)
}

// Available returns the number of free slots.
func (l *UploadLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// WaitForDrain blocks until no upload holds a slot or ctx ends.
func (l *UploadLimiter) WaitForDrain(ctx context.Context) error {
	if l.ActiveCount() == 0 {
		return nil
	}
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ActiveCount() == 0 {
				return nil
			}
		}
	}
}

// UploadLimiterStatus is a snapshot of the limiter.
type UploadLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status returns the current limiter state for the admin health view.
func (l *UploadLimiter) Status() UploadLimiterStatus {
	return UploadLimiterStatus{
		Active:        l.ActiveCount(),
		Available:     l.Available(),
		MaxConcurrent: cap(l.slots),
	}
}
