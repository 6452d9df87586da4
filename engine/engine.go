package engine

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

// Engine owns the lifecycle of a set of modules and the event bus they
// communicate over. Each module runs on its own goroutine for as long
// as the root context lives.
type Engine struct {
	// Modules run in this engine. A module's lifetime is bound to the
	// engine's lifetime.
	Modules []Module

	// Root context the engine runs on.
	ctx context.Context

	// Cancels the root context, the first step of graceful shutdown.
	cancel context.CancelFunc

	// The bus modules publish and subscribe on. An in-process channel
	// implementation is plenty for a single-viewer daemon.
	EventBus *gochannel.GoChannel
}

func NewEngine(ms []Module, ctx context.Context, cancel context.CancelFunc, e *gochannel.GoChannel) *Engine {
	return &Engine{
		Modules:  ms,
		ctx:      ctx,
		cancel:   cancel,
		EventBus: e,
	}
}

// Run starts every module and blocks until all of them return. A module
// that errors out is restarted after a short delay rather than taking
// the whole engine down.
func (e *Engine) Run() {
	var wg sync.WaitGroup

	for idx := range e.Modules {
		wg.Add(1)
		go func(index int) {
			Logger.Log.Infof("start engine module %s", e.Modules[index].Name())
			defer wg.Done()
			RunModuleWithGracefulRestart(e.ctx, &e.Modules[index])
			Logger.Log.Infof("module %s finished execution", e.Modules[index].Name())
		}(idx)
	}

	wg.Wait()
}

// Shutdown cancels the root context and waits for every module to
// release its resources.
func (e *Engine) Shutdown() {
	Logger.Log.Infoln("starting graceful shutdown")
	e.cancel()

	var wg sync.WaitGroup
	for idx := range e.Modules {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			e.Modules[index].Shutdown()
			Logger.Log.Infof("module %s shut down", e.Modules[index].Name())
		}(idx)
	}

	wg.Wait()
}
