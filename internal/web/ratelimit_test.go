package web

import (
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.allow("a") || !rl.allow("a") {
		t.Fatal("first two requests must pass")
	}
	if rl.allow("a") {
		t.Error("third request in window must be rejected")
	}
	if !rl.allow("b") {
		t.Error("other client must not share the bucket")
	}

	now = now.Add(time.Minute + time.Second)
	if !rl.allow("a") {
		t.Error("bucket must refill after the window")
	}
}

func TestRateLimiter_Evict(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	defer rl.stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.allow("a")

	now = now.Add(3 * time.Minute)
	rl.evict()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.visitors) != 0 {
		t.Errorf("visitors = %d, want 0", len(rl.visitors))
	}
}

func TestClientIP(t *testing.T) {
	tests := map[string]string{
		"1.2.3.4:5678": "1.2.3.4",
		"[::1]:80":     "::1",
		"1.2.3.4":      "1.2.3.4",
	}
	for in, want := range tests {
		if got := clientIP(in); got != want {
			t.Errorf("clientIP(%q) = %q, want %q", in, got, want)
		}
	}
}
