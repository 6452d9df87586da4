package engine

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

type RefreshModuleConfig struct {
	Name string
}

// RefreshModule drives full read cycles. One runs at startup so the
// views have something to serve; after that a cycle happens only when
// somebody asks, a view entry or a manual refresh published on the
// bus. There is no background timer.
type RefreshModule struct {
	Config RefreshModuleConfig

	sync *SyncEngine

	EventBus *gochannel.GoChannel
}

func NewRefreshModule(config RefreshModuleConfig, sync *SyncEngine, e *gochannel.GoChannel) *RefreshModule {
	return &RefreshModule{
		Config:   config,
		sync:     sync,
		EventBus: e,
	}
}

func (m *RefreshModule) RunModule(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Subscribe before the startup cycle so requests published while it
	// runs are queued, not lost.
	messages, err := m.EventBus.Subscribe(ctx, TOPIC_REFRESH_REQUEST)
	if err != nil {
		return err
	}

	if err := m.sync.RefreshAll(ctx); err != nil {
		Logger.Log.Warnf("startup refresh failed: %v", err)
	}

	for msg := range messages {
		msg.Ack()
		Logger.Log.Infof("refresh requested: %s", string(msg.Payload))
		if err := m.sync.RefreshAll(ctx); err != nil {
			Logger.Log.Errorf("refresh cycle failed: %v", err)
		}
	}

	return nil
}

func (m *RefreshModule) Name() string {
	return m.Config.Name
}

func (m *RefreshModule) Shutdown() {
	Logger.Log.Infoln("module ", m.Config.Name, " gracefully shutdown")
}
