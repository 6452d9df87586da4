package dispatcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type fakeEndpoint struct {
	m     sync.Mutex
	calls []string

	// execute decides each call's outcome, keyed by 1-based call count.
	execute func(call int, cmd *Command) error
}

func (f *fakeEndpoint) Execute(ctx context.Context, cmd *Command) error {
	f.m.Lock()
	f.calls = append(f.calls, cmd.Action+":"+cmd.Ref)
	call := len(f.calls)
	fn := f.execute
	f.m.Unlock()
	if fn == nil {
		return nil
	}
	return fn(call, cmd)
}

func (f *fakeEndpoint) callLog() []string {
	f.m.Lock()
	defer f.m.Unlock()
	return append([]string{}, f.calls...)
}

func newTestQueue(endpoint Endpoint) *Queue {
	q := NewQueue(endpoint, nil)
	q.RetrySchedule = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}
	return q
}

func runQueue(t *testing.T, q *Queue) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	go q.Run(ctx)
	t.Cleanup(cancel)
	return cancel
}

func TestQueueSettlesCommandsInEnqueueOrder(t *testing.T) {
	endpoint := &fakeEndpoint{}
	q := newTestQueue(endpoint)

	// Enqueue the whole batch before the worker starts so order is
	// decided purely by the queue.
	settled := make(chan error, 3)
	done := func(err error) { settled <- err }
	assert.Nil(t, q.Enqueue(LikePost("u1", "p1", true), done))
	assert.Nil(t, q.Enqueue(LikePost("u1", "p2", true), done))
	assert.Nil(t, q.Enqueue(FollowUser("u1", "u2", true), done))
	runQueue(t, q)

	for i := 0; i < 3; i++ {
		assert.Nil(t, <-settled)
	}
	assert.Equal(t, []string{
		"like_post:p1",
		"like_post:p2",
		"follow_user:u2",
	}, endpoint.callLog())
}

func TestQueueKeepsAtMostOneCommandInFlight(t *testing.T) {
	var m sync.Mutex
	active, peak := 0, 0
	endpoint := &fakeEndpoint{execute: func(call int, cmd *Command) error {
		m.Lock()
		active++
		if active > peak {
			peak = active
		}
		m.Unlock()
		time.Sleep(5 * time.Millisecond)
		m.Lock()
		active--
		m.Unlock()
		return nil
	}}
	q := newTestQueue(endpoint)

	settled := make(chan error, 5)
	for i := 0; i < 5; i++ {
		assert.Nil(t, q.Enqueue(MarkNotificationsRead("u1"), func(err error) { settled <- err }))
	}
	runQueue(t, q)

	for i := 0; i < 5; i++ {
		assert.Nil(t, <-settled)
	}
	m.Lock()
	defer m.Unlock()
	assert.Equal(t, 1, peak)
}

func TestQueueRetriesTransientFailures(t *testing.T) {
	endpoint := &fakeEndpoint{execute: func(call int, cmd *Command) error {
		if call < 3 {
			return errors.New("connection reset")
		}
		return nil
	}}
	q := newTestQueue(endpoint)

	settled := make(chan error, 1)
	assert.Nil(t, q.Enqueue(LikePost("u1", "p1", true), func(err error) { settled <- err }))
	runQueue(t, q)

	assert.Nil(t, <-settled)
	assert.Equal(t, 3, len(endpoint.callLog()))
}

func TestQueueNeverRetriesRejections(t *testing.T) {
	rejection := &BusinessRejection{Action: "delete_post", Reason: "not the author", Code: "forbidden"}
	endpoint := &fakeEndpoint{execute: func(call int, cmd *Command) error {
		return rejection
	}}
	q := newTestQueue(endpoint)

	settled := make(chan error, 1)
	assert.Nil(t, q.Enqueue(DeletePost("u1", "p9"), func(err error) { settled <- err }))
	runQueue(t, q)

	assert.Equal(t, rejection, <-settled)
	assert.Equal(t, 1, len(endpoint.callLog()))
}

func TestQueueNeverRetriesTerminalWriteErrors(t *testing.T) {
	terminal := &WriteError{Action: "send_message", StatusCode: 403}
	endpoint := &fakeEndpoint{execute: func(call int, cmd *Command) error {
		return terminal
	}}
	q := newTestQueue(endpoint)

	settled := make(chan error, 1)
	assert.Nil(t, q.Enqueue(MarkConversationRead("u1", "u2"), func(err error) { settled <- err }))
	runQueue(t, q)

	assert.Equal(t, terminal, <-settled)
	assert.Equal(t, 1, len(endpoint.callLog()))
}

func TestQueueFoldsExhaustedRetriesIntoWriteError(t *testing.T) {
	endpoint := &fakeEndpoint{execute: func(call int, cmd *Command) error {
		return errors.New("connection reset")
	}}
	q := newTestQueue(endpoint)
	q.RetrySchedule = []time.Duration{time.Millisecond}

	settled := make(chan error, 1)
	assert.Nil(t, q.Enqueue(FollowUser("u1", "u2", false), func(err error) { settled <- err }))
	runQueue(t, q)

	err := <-settled
	terminal, ok := err.(*WriteError)
	assert.True(t, ok)
	assert.Equal(t, "unfollow_user", terminal.Action)
	// one initial attempt plus one retry
	assert.Equal(t, 2, len(endpoint.callLog()))
}

func TestQueueEnqueueFailsFastWhenFull(t *testing.T) {
	q := newTestQueue(&fakeEndpoint{})
	for i := 0; i < DefaultQueueCapacity; i++ {
		assert.Nil(t, q.Enqueue(MarkNotificationsRead("u1"), nil))
	}
	assert.NotNil(t, q.Enqueue(MarkNotificationsRead("u1"), nil))
	assert.Equal(t, DefaultQueueCapacity, q.Depth())
}
