package security

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("fam-1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("fam-1") {
		t.Error("request over budget should be rejected")
	}
}

func TestRateLimiterIsolatesCallers(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	if !rl.Allow("fam-1") {
		t.Fatal("first caller should be allowed")
	}
	if !rl.Allow("fam-2") {
		t.Error("a second caller must have its own budget")
	}
	if rl.Allow("fam-1") {
		t.Error("first caller should be out of budget")
	}
}

func TestRateLimiterRefillsAfterWindow(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	if !rl.Allow("fam-1") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("fam-1") {
		t.Fatal("second request should be rejected")
	}

	time.Sleep(15 * time.Millisecond)
	if !rl.Allow("fam-1") {
		t.Error("budget should refill after the window")
	}
}
