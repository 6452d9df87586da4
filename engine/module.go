package engine

import (
	"context"
	"log"
	"time"
)

const (
	GracefulRetryDelay = 3
)

// RunModuleWithGracefulRestart keeps a module alive: whenever RunModule
// returns an error the module is restarted after a short delay. A nil
// return is a deliberate exit and ends the loop.
func RunModuleWithGracefulRestart(ctx context.Context, module *Module) {
	for {
		err := (*module).RunModule(ctx)
		if err == nil {
			break
		}
		log.Printf(
			"module %s exited with error %v, retry in %d seconds",
			(*module).Name(),
			err,
			GracefulRetryDelay)

		time.Sleep(GracefulRetryDelay * time.Second)
	}
}

type Module interface {
	// RunModule holds the module's long-running logic. Its lifecycle is
	// bound to ctx; returning an error requests a restart.
	RunModule(ctx context.Context) error

	// Name uniquely identifies the module instance. Two instances of the
	// same module type need distinct names.
	Name() string

	// Shutdown releases whatever the module holds. Called once during
	// engine shutdown, after the root context is cancelled.
	Shutdown()
}
