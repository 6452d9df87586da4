package engine

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Signal is a wake-up nudge pushed to connected clients: something
// changed, re-read the views you care about. Signals carry no view
// data, only what kind of change happened.
type Signal struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

/*
	SignalChannels tracks every live client connection. Connections are
	kept in a map from channel id to channel so removal is O(1); each
	connection registers a garbage collector goroutine that removes it
	once its context terminates.

	Broadcast never blocks: each channel carries a small buffer and
	further sends are dropped while it is full. A stalled subscriber
	misses coalesced nudges, it can never wedge the engine, and one
	pending nudge is all a reader needs to know it should re-read.
*/
type SignalChannels struct {
	connectionMap map[string]chan *Signal

	// Adding or removing a connection grabs the write lock, pushing
	// signals grabs the read lock.
	mu sync.RWMutex
}

func NewSignalChannels() *SignalChannels {
	return &SignalChannels{
		connectionMap: make(map[string]chan *Signal),
		mu:            sync.RWMutex{},
	}
}

// cleanUp a single connection when its context terminates.
func (sc *SignalChannels) cleanUp(ctx context.Context, chId string) {
	<-ctx.Done()

	sc.mu.Lock()
	defer sc.mu.Unlock()

	delete(sc.connectionMap, chId)
}

// Thread-safe
func (sc *SignalChannels) AddNewConnection(ctx context.Context) (chan *Signal, string) {
	chId := "signal_channel_" + uuid.New().String()
	ch := make(chan *Signal, 8)

	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.connectionMap[chId] = ch

	go sc.cleanUp(ctx, chId)

	return ch, chId
}

// Thread-safe
func (sc *SignalChannels) GetActiveConnectionsCount() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	return len(sc.connectionMap)
}

// Thread-safe
func (sc *SignalChannels) Broadcast(signal *Signal) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	for _, ch := range sc.connectionMap {
		select {
		case ch <- signal:
		default:
		}
	}
}
