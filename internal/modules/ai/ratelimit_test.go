package ai

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestParseRateLimitWait(t *testing.T) {
	cases := []struct {
		message string
		want    int
		ok      bool
	}{
		{"Rate limit reached, please wait 7 seconds before retrying", 7, true},
		{"please wait 1 second", 1, true},
		{"Rate limit exceeded. Try again in 12s.", 12, true},
		{"Try again in 1.2s", 2, true}, // fractional rounds up
		{"Retry-After: 30", 30, true},
		{"15 seconds remaining in your quota window", 15, true},
		{"internal server error", 0, false},
		{"model overloaded", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseRateLimitWait(tc.message)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseRateLimitWait(%q) = (%d, %v), want (%d, %v)", tc.message, got, ok, tc.want, tc.ok)
		}
	}
}

func TestClassifyBackendError(t *testing.T) {
	err := classifyBackendError("free", errors.New("429: rate limit reached, wait 7 seconds"))

	rle, ok := AsRateLimit(err)
	if !ok {
		t.Fatalf("classifyBackendError did not produce a RateLimitError: %v", err)
	}
	if rle.Wait != 7 {
		t.Errorf("Wait = %d, want 7", rle.Wait)
	}
	if rle.BackendID != "free" {
		t.Errorf("BackendID = %q, want %q", rle.BackendID, "free")
	}
}

func TestClassifyBackendErrorDefaultsWait(t *testing.T) {
	err := classifyBackendError("free", errors.New("too many requests"))

	rle, ok := AsRateLimit(err)
	if !ok {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rle.Wait != DefaultRateLimitWait {
		t.Errorf("Wait = %d, want default %d", rle.Wait, DefaultRateLimitWait)
	}
}

func TestClassifyBackendErrorPassesThroughOtherErrors(t *testing.T) {
	original := errors.New("connection refused")
	if err := classifyBackendError("openai", original); !errors.Is(err, original) {
		t.Errorf("classifyBackendError rewrote a non-throttle error: %v", err)
	}
}

func TestCooldownBlocksUntilElapsed(t *testing.T) {
	ctx := context.Background()
	cd := NewCooldown(nil)

	if got := cd.Remaining(ctx, "free", "user-1"); got != 0 {
		t.Fatalf("fresh cooldown Remaining = %d, want 0", got)
	}

	cd.Start(ctx, "free", "user-1", 7)
	got := cd.Remaining(ctx, "free", "user-1")
	if got < 1 || got > 7 {
		t.Errorf("Remaining = %d, want 1..7 right after Start(7)", got)
	}

	// windows are scoped per backend and per user
	if other := cd.Remaining(ctx, "openai", "user-1"); other != 0 {
		t.Errorf("other backend Remaining = %d, want 0", other)
	}
	if other := cd.Remaining(ctx, "free", "user-2"); other != 0 {
		t.Errorf("other user Remaining = %d, want 0", other)
	}
}

func TestCooldownExpires(t *testing.T) {
	ctx := context.Background()
	cd := NewCooldown(nil)

	cd.Start(ctx, "free", "user-1", 1)
	cd.mu.Lock()
	cd.mem[cooldownKey("free", "user-1")] = time.Now().Add(-time.Second)
	cd.mu.Unlock()

	if got := cd.Remaining(ctx, "free", "user-1"); got != 0 {
		t.Errorf("expired cooldown Remaining = %d, want 0", got)
	}
}
