package retry

import (
	"testing"
	"time"
)

// --- Server Fault Tests ---

func TestDecide_ServerFaultDelays(t *testing.T) {
	p := Policy{Limit: 3}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 400 * time.Millisecond},
		{2, 1600 * time.Millisecond},
	}

	for _, tt := range tests {
		ok, delay := p.Decide(ServerFault, tt.attempt)
		if !ok {
			t.Fatalf("attempt %d: expected retry", tt.attempt)
		}
		if delay != tt.expected {
			t.Errorf("attempt %d: expected delay %v, got %v", tt.attempt, tt.expected, delay)
		}
	}
}

func TestDecide_ServerFaultCeiling(t *testing.T) {
	p := Policy{Limit: 3}

	// Attempts 0..2 retry; attempt 3 (the 4th try) surfaces, so the call
	// makes Limit+1 tries total.
	if ok, _ := p.Decide(ServerFault, 2); !ok {
		t.Error("attempt 2 should retry with limit 3")
	}
	if ok, _ := p.Decide(ServerFault, 3); ok {
		t.Error("attempt 3 should not retry with limit 3")
	}
}

func TestDecide_ServerFaultNoRetries(t *testing.T) {
	p := Policy{Limit: 0}
	if ok, _ := p.Decide(ServerFault, 0); ok {
		t.Error("limit 0 should never retry")
	}
}

// --- Throttling Tests ---

func TestDecide_ThrottleFirstFailureImmediate(t *testing.T) {
	p := Policy{Limit: 3}
	ok, delay := p.Decide(Throttle, 0)
	if !ok {
		t.Fatal("first throttle should retry")
	}
	if delay != 0 {
		t.Errorf("first throttle should retry immediately, got delay %v", delay)
	}
}

func TestDecide_ThrottleJitterRange(t *testing.T) {
	// attempt 1: base 25ms scaled by [1,2) -> [25ms, 50ms)
	for _, r := range []float64{0, 0.5, 0.999} {
		p := Policy{Limit: 3, Rand: func() float64 { return r }}
		ok, delay := p.Decide(Throttle, 1)
		if !ok {
			t.Fatal("second throttle should retry")
		}
		if delay < 25*time.Millisecond || delay >= 50*time.Millisecond {
			t.Errorf("rand %v: delay %v outside [25ms, 50ms)", r, delay)
		}
	}
}

func TestDecide_ThrottleBackoffDoubles(t *testing.T) {
	p := Policy{Limit: 20, Rand: func() float64 { return 0 }}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 25 * time.Millisecond},
		{2, 50 * time.Millisecond},
		{3, 100 * time.Millisecond},
		{4, 200 * time.Millisecond},
	}

	for _, tt := range tests {
		ok, delay := p.Decide(Throttle, tt.attempt)
		if !ok {
			t.Fatalf("attempt %d: expected retry", tt.attempt)
		}
		if delay != tt.expected {
			t.Errorf("attempt %d: expected base delay %v, got %v", tt.attempt, tt.expected, delay)
		}
	}
}

func TestDecide_ThrottleCeiling(t *testing.T) {
	p := Policy{Limit: 3}
	if ok, _ := p.Decide(Throttle, 3); ok {
		t.Error("attempt 3 should not retry with limit 3")
	}
}

func TestDecide_ThrottleHardCap(t *testing.T) {
	// Even an absurd limit cannot exceed the throttling cap, and the cap
	// uses the same attempt-index comparison as the configured ceiling.
	p := Policy{Limit: 100, Rand: func() float64 { return 0 }}
	if ok, _ := p.Decide(Throttle, 9); !ok {
		t.Error("attempt 9 should still retry")
	}
	if ok, _ := p.Decide(Throttle, 10); ok {
		t.Error("attempt 10 should hit the hard cap")
	}
}

// --- Terminal Tests ---

func TestDecide_TerminalNeverRetries(t *testing.T) {
	p := Policy{Limit: 100}
	for attempt := 0; attempt < 3; attempt++ {
		if ok, _ := p.Decide(Terminal, attempt); ok {
			t.Errorf("terminal class retried at attempt %d", attempt)
		}
	}
}
