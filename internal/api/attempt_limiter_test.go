package api

import (
	"testing"
	"time"
)

func TestAttemptLimiterWindowAndReset(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiter()
	key := "127.0.0.1"
	window := time.Hour
	now := time.Now().UTC()

	limiter.addFailure(key, now.Add(-2*time.Hour), window)
	if limiter.tooManyRecent(key, now, 1, window) {
		t.Fatal("expected old attempt to be pruned from active window")
	}

	limiter.addFailure(key, now.Add(-30*time.Minute), window)
	if !limiter.tooManyRecent(key, now, 1, window) {
		t.Fatal("expected one recent attempt to hit limit 1")
	}

	limiter.reset(key)
	if limiter.tooManyRecent(key, now, 1, window) {
		t.Fatal("expected no attempts after reset")
	}
}

func TestAttemptLimiterRetryAfter(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiter()
	key := "10.0.0.7"
	window := 15 * time.Minute
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	if wait := limiter.retryAfter(key, now, window); wait != 0 {
		t.Fatalf("expected no wait without failures, got %s", wait)
	}

	limiter.addFailure(key, now.Add(-10*time.Minute), window)
	limiter.addFailure(key, now.Add(-time.Minute), window)
	if wait := limiter.retryAfter(key, now, window); wait != 5*time.Minute {
		t.Fatalf("expected wait until oldest failure expires, got %s", wait)
	}

	if wait := limiter.retryAfter(key, now.Add(14*time.Minute-500*time.Millisecond), window); wait != time.Second {
		t.Fatalf("expected wait floor of one second, got %s", wait)
	}
}
