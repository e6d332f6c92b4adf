package serverutils

import (
	"testing"
	"time"
)

func TestThrottleAtMostOncePerInterval(t *testing.T) {
	th := NewThrottle(500 * time.Millisecond)

	clock := time.Now()
	th.now = func() time.Time { return clock }

	if !th.Allow("session-a") {
		t.Fatal("first admission must pass")
	}

	// Repeated calls inside the interval are all rejected.
	for i := 0; i < 5; i++ {
		clock = clock.Add(50 * time.Millisecond)
		if th.Allow("session-a") {
			t.Fatalf("admission %d inside the interval must be rejected", i)
		}
	}

	// Independent keys are not coupled.
	if !th.Allow("session-b") {
		t.Error("distinct key must have its own budget")
	}

	clock = clock.Add(500 * time.Millisecond)
	if !th.Allow("session-a") {
		t.Error("admission after the interval must pass")
	}
}

func TestThrottleForget(t *testing.T) {
	th := NewThrottle(time.Hour)
	if !th.Allow("session-a") {
		t.Fatal("first admission must pass")
	}
	th.Forget("session-a")
	if !th.Allow("session-a") {
		t.Error("forgotten key must be admitted again")
	}
}
