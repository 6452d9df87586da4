package engine

import (
	"sync"

	"github.com/gridfeed/gridfeed/projector"
)

// ViewCache holds the latest projection input, replaced wholesale after
// every merge. Readers get a value copy so they can stamp their own Now
// without racing the next refresh.
type ViewCache struct {
	mu    sync.RWMutex
	input *projector.Input
}

func NewViewCache() *ViewCache {
	return &ViewCache{}
}

func (c *ViewCache) Set(in *projector.Input) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = in
}

// Input returns the latest projection input. ok is false until the
// first merge completes.
func (c *ViewCache) Input() (projector.Input, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.input == nil {
		return projector.Input{}, false
	}
	return *c.input, true
}
