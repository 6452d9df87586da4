package utils

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// scheduleBackOff walks a fixed wait schedule and stops when it runs out.
// Using an explicit schedule keeps retry timing deterministic, which the
// read and write paths both rely on.
type scheduleBackOff struct {
	schedule []time.Duration
	next     int
}

func (s *scheduleBackOff) NextBackOff() time.Duration {
	if s.next >= len(s.schedule) {
		return backoff.Stop
	}
	d := s.schedule[s.next]
	s.next++
	return d
}

func (s *scheduleBackOff) Reset() {
	s.next = 0
}

// WithRetries runs op once, then once more per schedule entry, sleeping that
// entry's duration before the attempt. Wrap an error in backoff.Permanent to
// surface it immediately without consuming the remaining attempts. Context
// cancellation aborts the wait in between attempts.
func WithRetries(ctx context.Context, schedule []time.Duration, op func() error) error {
	b := backoff.WithContext(&scheduleBackOff{schedule: schedule}, ctx)
	return backoff.Retry(op, b)
}
