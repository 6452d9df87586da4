// Package state_store persists the overlay's local state so pending
// mutations and tombstones survive a daemon restart. Three backends
// share one interface: a JSON file for single-machine setups, Redis
// when several clients share a box, Postgres when the state should live
// next to other durable data.
package state_store

import (
	"context"
	"fmt"

	"github.com/gridfeed/gridfeed/model"
)

type Store interface {
	// Save replaces the persisted state with the given one.
	Save(ctx context.Context, state *model.LocalState) error
	// Load returns the persisted state, or a fresh empty state when
	// nothing was saved yet. Load never returns a nil state alongside a
	// nil error.
	Load(ctx context.Context) (*model.LocalState, error)
}

// NoopStore drops saves and always loads fresh state. Used when
// persistence is disabled.
type NoopStore struct{}

func (NoopStore) Save(ctx context.Context, state *model.LocalState) error {
	return nil
}

func (NoopStore) Load(ctx context.Context) (*model.LocalState, error) {
	return model.NewLocalState(), nil
}

// New builds the backend named in the config. ViewerId keys the state
// in shared backends so two viewers on one Redis do not clobber each
// other.
func New(backend string, viewerId string, filePath string) (Store, error) {
	switch backend {
	case "", "none":
		return NoopStore{}, nil
	case "file":
		return NewFileStore(filePath), nil
	case "redis":
		return NewRedisStore(viewerId)
	case "postgres":
		return NewDBStore(viewerId)
	}
	return nil, fmt.Errorf("unknown state store backend: %s", backend)
}
