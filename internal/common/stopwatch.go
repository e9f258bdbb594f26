package common

import (
	"time"
)

// This stopwatch keeps track of time. You can set a timeout for it,
// make it start counting time, and ask it if the timeout has been reached
type Stopwatch struct {
	Timeout   time.Duration
	startTime time.Time
}

func NewStopwatch(timeout time.Duration) Stopwatch {
	return Stopwatch{timeout, time.Time{}}
}

func (s *Stopwatch) Start() {
	s.startTime = time.Now()
}

// Stopped tells whether the timeout has been reached since the last
// call to Start. A stopwatch that was never started counts as stopped
func (s *Stopwatch) Stopped() bool {
	return time.Since(s.startTime) >= s.Timeout
}
