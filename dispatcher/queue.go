package dispatcher

import (
	"context"
	"errors"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/cenkalti/backoff/v4"
	"github.com/gridfeed/gridfeed/utils"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

const (
	// DefaultQueueCapacity bounds how many writes can wait behind the
	// in-flight one before Enqueue starts failing fast.
	DefaultQueueCapacity = 256

	// DefaultAttemptTimeout caps a single request against the endpoint.
	// The backing script is slow but not this slow.
	DefaultAttemptTimeout = 30 * time.Second
)

// DefaultRetrySchedule is the wait before each retry of a transient
// endpoint failure. Rejections and terminal errors never consume it.
var DefaultRetrySchedule = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	4 * time.Second,
}

type queuedCommand struct {
	cmd  *Command
	done func(error)
}

/*
	Queue serializes writes against the endpoint. The backend applies
	commands in arrival order and melts under concurrent requests, so
	exactly one worker drains the queue and at most one command is in
	flight at any moment. Enqueue never blocks: when the buffer is full
	the caller hears about it immediately instead of wedging the UI.

	The done callback runs on the worker goroutine after the command
	settles, with nil on acceptance or the terminal typed error.
*/
type Queue struct {
	endpoint Endpoint
	pending  chan queuedCommand
	statsd   *statsd.Client

	AttemptTimeout time.Duration
	RetrySchedule  []time.Duration
}

func NewQueue(endpoint Endpoint, client *statsd.Client) *Queue {
	return &Queue{
		endpoint:       endpoint,
		pending:        make(chan queuedCommand, DefaultQueueCapacity),
		statsd:         client,
		AttemptTimeout: DefaultAttemptTimeout,
		RetrySchedule:  DefaultRetrySchedule,
	}
}

// Enqueue adds cmd behind every previously enqueued command. done may
// be nil. Returns an error without enqueueing when the buffer is full.
func (q *Queue) Enqueue(cmd *Command, done func(error)) error {
	select {
	case q.pending <- queuedCommand{cmd: cmd, done: done}:
		q.incr("gridfeed.write.enqueued", cmd)
		return nil
	default:
		q.incr("gridfeed.write.overflow", cmd)
		return errors.New("write queue is full")
	}
}

// Depth reports how many commands are waiting, not counting the one in
// flight.
func (q *Queue) Depth() int {
	return len(q.pending)
}

// Run drains the queue until ctx is cancelled. It is the only sender of
// requests to the endpoint; call it from exactly one goroutine.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case item := <-q.pending:
			err := q.settle(ctx, item.cmd)
			switch {
			case err == nil:
				q.incr("gridfeed.write.success", item.cmd)
			case isRejection(err):
				q.incr("gridfeed.write.rejected", item.cmd)
			default:
				q.incr("gridfeed.write.failed", item.cmd)
			}
			if item.done != nil {
				item.done(err)
			}
		}
	}
}

// settle runs one command to a final outcome: nil, *BusinessRejection,
// or *WriteError. Transient failures burn through the retry schedule
// before being folded into a WriteError.
func (q *Queue) settle(ctx context.Context, cmd *Command) error {
	attempt := 0
	err := utils.WithRetries(ctx, q.RetrySchedule, func() error {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, q.AttemptTimeout)
		defer cancel()
		err := q.endpoint.Execute(attemptCtx, cmd)
		if err == nil {
			return nil
		}
		var rejection *BusinessRejection
		if errors.As(err, &rejection) {
			return backoff.Permanent(rejection)
		}
		var terminal *WriteError
		if errors.As(err, &terminal) {
			return backoff.Permanent(terminal)
		}
		Logger.Log.Warnf("attempt %d of action %s failed: %v", attempt, cmd.Action, err)
		return err
	})
	if err == nil {
		return nil
	}
	var rejection *BusinessRejection
	if errors.As(err, &rejection) {
		Logger.Log.Infof("endpoint rejected action %s: %s", cmd.Action, rejection.Reason)
		return rejection
	}
	var terminal *WriteError
	if errors.As(err, &terminal) {
		return terminal
	}
	Logger.Log.Errorf("action %s failed after %d attempts: %v", cmd.Action, attempt, err)
	return &WriteError{Action: cmd.Action, Err: err}
}

func isRejection(err error) bool {
	var rejection *BusinessRejection
	return errors.As(err, &rejection)
}

func (q *Queue) incr(name string, cmd *Command) {
	if q.statsd == nil {
		return
	}
	q.statsd.Incr(name, []string{"action:" + cmd.Action}, 1)
}
