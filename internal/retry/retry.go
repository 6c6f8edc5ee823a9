// Package retry implements the request retry policy: differentiated
// backoff for server faults versus throughput throttling.
package retry

import (
	"math/rand"
	"time"
)

// Class partitions classified failures by retry treatment.
type Class int

const (
	// Terminal failures are never retried.
	Terminal Class = iota

	// ServerFault is a 500/503 store-side fault.
	ServerFault

	// Throttle is a provisioned-throughput rejection.
	Throttle
)

// throttleCap bounds throttling retries regardless of the configured limit.
const throttleCap = 10

// Policy computes retry decisions for one logical call.
type Policy struct {
	// Limit is the retry ceiling. A call makes at most Limit+1 attempts.
	Limit int

	// Rand supplies throttling jitter in [0,1). Nil means math/rand.
	Rand func() float64
}

// Decide reports whether the attempt with 0-based index attempt, having
// failed with class c, should be retried, and after what delay.
//
// Server faults back off at 4^attempt x 100ms. Throttling retries the very
// first failure immediately; later failures back off at 2^(attempt-1) x
// 25ms scaled by a random factor in [1,2) so competing clients
// de-synchronize, and give up once attempt reaches the hard cap of 10 no
// matter the limit. Both ceilings compare the same way: an attempt index
// at or past a bound surfaces the failure.
func (p Policy) Decide(c Class, attempt int) (bool, time.Duration) {
	switch c {
	case ServerFault:
		if attempt >= p.Limit {
			return false, 0
		}
		return true, time.Duration(pow(4, attempt)) * 100 * time.Millisecond
	case Throttle:
		if attempt == 0 {
			return true, 0
		}
		if attempt >= p.Limit || attempt >= throttleCap {
			return false, 0
		}
		base := time.Duration(pow(2, attempt-1)) * 25 * time.Millisecond
		return true, base + time.Duration(p.rand()*float64(base))
	default:
		return false, 0
	}
}

func (p Policy) rand() float64 {
	if p.Rand != nil {
		return p.Rand()
	}
	return rand.Float64()
}

func pow(base, exp int) int64 {
	result := int64(1)
	for i := 0; i < exp; i++ {
		result *= int64(base)
	}
	return result
}
