package gateway

import (
	"testing"
	"time"
)

func TestRateLimiter_ExhaustsBurst(t *testing.T) {
	r := newRateLimiter(3, 1)

	for i := 0; i < 3; i++ {
		if !r.allow() {
			t.Fatalf("allow() call %d = false, want true within burst", i+1)
		}
	}
	if r.allow() {
		t.Error("allow() = true after burst exhausted, want false")
	}
}

func TestRateLimiter_Refills(t *testing.T) {
	r := newRateLimiter(1, 5)
	if !r.allow() {
		t.Fatal("allow() = false on a full bucket")
	}
	if r.allow() {
		t.Fatal("allow() = true on an empty bucket")
	}

	// Backdate the refill clock instead of sleeping.
	r.mu.Lock()
	r.lastRefill = time.Now().Add(-time.Second)
	r.mu.Unlock()

	if !r.allow() {
		t.Error("allow() = false after refill interval elapsed")
	}
}

func TestRateLimiter_RefillCapsAtMax(t *testing.T) {
	r := newRateLimiter(2, 100)
	r.mu.Lock()
	r.lastRefill = time.Now().Add(-time.Minute)
	r.mu.Unlock()

	for i := 0; i < 2; i++ {
		if !r.allow() {
			t.Fatalf("allow() call %d = false, want true", i+1)
		}
	}
	if r.allow() {
		t.Error("allow() = true beyond max tokens, refill must cap at the bucket size")
	}
}
