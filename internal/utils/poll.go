package utils

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// PollResult is the outcome of a bounded wait.
type PollResult int

const (
	// PollSuccess means the predicate reported completion within the budget.
	PollSuccess PollResult = iota
	// PollTimedOut means the budget elapsed first.
	PollTimedOut
)

func (r PollResult) String() string {
	if r == PollSuccess {
		return "success"
	}
	return "timed_out"
}

// PollWithTimeout evaluates predicate, then sleeps interval, until the predicate
// returns true or budget has elapsed since the call. The predicate is always
// evaluated at least once, and once more after the last sleep.
func PollWithTimeout(clock clockwork.Clock, interval, budget time.Duration, predicate func() bool) PollResult {
	start := clock.Now()
	for {
		if predicate() {
			return PollSuccess
		}
		if clock.Since(start) >= budget {
			return PollTimedOut
		}
		clock.Sleep(interval)
	}
}
