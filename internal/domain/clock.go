package domain

import "github.com/jonboulle/clockwork"

// clock stamps Result.ComputedAt.
var clock = clockwork.NewRealClock()

// SetClock replaces the clock used for Result.ComputedAt. nil restores the
// real clock. Not safe to call while computations are running.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
}
