package utils

import (
	"context"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestWithRetriesSucceedsEventually(t *testing.T) {
	calls := 0
	err := WithRetries(context.Background(), []time.Duration{time.Millisecond, time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetriesExhaustsSchedule(t *testing.T) {
	calls := 0
	err := WithRetries(context.Background(), []time.Duration{time.Millisecond}, func() error {
		calls++
		return errors.New("transient")
	})
	assert.NotNil(t, err)
	// one initial attempt plus one retry
	assert.Equal(t, 2, calls)
}

func TestWithRetriesPermanentStopsEarly(t *testing.T) {
	calls := 0
	terminal := errors.New("rejected")
	err := WithRetries(context.Background(), []time.Duration{time.Millisecond, time.Millisecond}, func() error {
		calls++
		return backoff.Permanent(terminal)
	})
	assert.Equal(t, terminal, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetriesContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WithRetries(ctx, []time.Duration{time.Second}, func() error {
		return errors.New("transient")
	})
	assert.NotNil(t, err)
}
