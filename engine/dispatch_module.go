package engine

import (
	"context"

	"github.com/gridfeed/gridfeed/dispatcher"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

type DispatchModuleConfig struct {
	Name string
}

// DispatchModule runs the write queue's single worker for the engine's
// lifetime. The queue never gets a second worker: strict write order
// depends on there being exactly one.
type DispatchModule struct {
	Config DispatchModuleConfig

	queue *dispatcher.Queue
}

func NewDispatchModule(config DispatchModuleConfig, queue *dispatcher.Queue) *DispatchModule {
	return &DispatchModule{
		Config: config,
		queue:  queue,
	}
}

func (d *DispatchModule) RunModule(ctx context.Context) error {
	d.queue.Run(ctx)
	return nil
}

func (d *DispatchModule) Name() string {
	return d.Config.Name
}

func (d *DispatchModule) Shutdown() {
	Logger.Log.Infoln("module ", d.Config.Name, " gracefully shutdown")
}
