// Package clock provides the wall clock used outside tests.
package clock

import "time"

// System reports UTC wall-clock time, optionally shifted by a fixed offset so
// a dev backend can be run "in the future" to exercise expiries.
type System struct {
	offset time.Duration
}

func NewSystemClock() System { return System{} }

// NewOffsetClock returns a clock running d ahead of (or behind) real time.
func NewOffsetClock(d time.Duration) System { return System{offset: d} }

func (c System) Now() time.Time { return time.Now().Add(c.offset).UTC() }
