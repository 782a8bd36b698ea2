package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestUploadLimiter_Defaults(t *testing.T) {
	l := NewUploadLimiter(0, 0)
	if got := l.MaxConcurrent(); got != DefaultMaxConcurrentUploads {
		t.Errorf("MaxConcurrent = %d, want %d", got, DefaultMaxConcurrentUploads)
	}
	if l.maxWait != DefaultMaxWaitTime {
		t.Errorf("maxWait = %v, want %v", l.maxWait, DefaultMaxWaitTime)
	}
}

func TestUploadLimiter_AcquireRelease(t *testing.T) {
	l := NewUploadLimiter(2, time.Second)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("Acquire %d: %v", i, err)
		}
	}
	if got := l.Status(); got != (UploadLimiterStatus{Active: 2, Available: 0, MaxConcurrent: 2}) {
		t.Errorf("Status = %+v after two acquires", got)
	}

	l.Release()
	if got := l.ActiveCount(); got != 1 {
		t.Errorf("ActiveCount = %d, want 1", got)
	}
	if got := l.Available(); got != 1 {
		t.Errorf("Available = %d, want 1", got)
	}

	l.Release()
	if got := l.ActiveCount(); got != 0 {
		t.Errorf("ActiveCount = %d, want 0", got)
	}
}

func TestUploadLimiter_TimesOutWhenFull(t *testing.T) {
	l := NewUploadLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer l.Release()

	start := time.Now()
	err := l.Acquire(ctx)
	if !errors.Is(err, ErrTooManyUploads) {
		t.Fatalf("Acquire = %v, want ErrTooManyUploads", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("gave up after %v, want about 50ms", elapsed)
	}
}

func TestUploadLimiter_TryAcquire(t *testing.T) {
	l := NewUploadLimiter(1, time.Second)

	if !l.TryAcquire() {
		t.Fatal("first TryAcquire failed")
	}
	if l.TryAcquire() {
		t.Error("second TryAcquire succeeded on a full limiter")
		l.Release()
	}
	l.Release()
	if !l.TryAcquire() {
		t.Error("TryAcquire after Release failed")
	}
	l.Release()
}

func TestUploadLimiter_ContextCancelled(t *testing.T) {
	l := NewUploadLimiter(1, 5*time.Second)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer l.Release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Acquire(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Acquire = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after cancel")
	}
}

func TestUploadLimiter_NeverExceedsLimit(t *testing.T) {
	const limit = 3
	l := NewUploadLimiter(limit, time.Second)

	var (
		wg      sync.WaitGroup
		current atomic.Int32
		peak    atomic.Int32
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			defer l.Release()

			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			current.Add(-1)
		}()
	}
	wg.Wait()

	if p := peak.Load(); p > limit {
		t.Errorf("peak concurrency = %d, want <= %d", p, limit)
	}
	if got := l.ActiveCount(); got != 0 {
		t.Errorf("ActiveCount = %d after all uploads, want 0", got)
	}
}

func TestUploadLimiter_WaitForDrain(t *testing.T) {
	l := NewUploadLimiter(2, time.Second)
	if err := l.WaitForDrain(context.Background()); err != nil {
		t.Fatalf("WaitForDrain on idle limiter: %v", err)
	}

	_ = l.Acquire(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.WaitForDrain(context.Background()) }()

	select {
	case <-done:
		t.Fatal("WaitForDrain returned while an upload was active")
	case <-time.After(80 * time.Millisecond):
	}

	l.Release()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForDrain = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitForDrain did not return after release")
	}
}

func TestUploadLimiter_WaitForDrainTimeout(t *testing.T) {
	l := NewUploadLimiter(1, time.Second)
	_ = l.Acquire(context.Background())
	defer l.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	if err := l.WaitForDrain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForDrain = %v, want DeadlineExceeded", err)
	}
}
