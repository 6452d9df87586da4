package engine

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

const DefaultPollInterval = 3 * time.Second

type ConversationPollConfig struct {
	Name string

	// Tick period while a conversation is open. Defaults to 3s.
	Interval time.Duration
}

/*
	ConversationPollModule keeps the open thread fresh. Work happens
	only while an active conversation id is set: opening a thread polls
	immediately and then every interval, closing it or switching away
	stops the work. Polls also idle while the session is suspended or
	the platform is down.
*/
type ConversationPollModule struct {
	Config ConversationPollConfig

	sync *SyncEngine

	EventBus *gochannel.GoChannel
}

func NewConversationPollModule(config ConversationPollConfig, sync *SyncEngine, e *gochannel.GoChannel) *ConversationPollModule {
	if config.Interval <= 0 {
		config.Interval = DefaultPollInterval
	}
	return &ConversationPollModule{
		Config:   config,
		sync:     sync,
		EventBus: e,
	}
}

func (m *ConversationPollModule) RunModule(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := m.EventBus.Subscribe(ctx, TOPIC_ACTIVE_CONVERSATION)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(m.Config.Interval)
	defer ticker.Stop()

	active := ""
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			msg.Ack()
			active = string(msg.Payload)
			if active == "" {
				continue
			}
			ticker.Reset(m.Config.Interval)
			m.poll(ctx)
		case <-ticker.C:
			if active == "" {
				continue
			}
			m.poll(ctx)
		}
	}
}

func (m *ConversationPollModule) poll(ctx context.Context) {
	if m.sync.State() != ACTIVE {
		return
	}
	if err := m.sync.RefreshConversations(ctx); err != nil {
		Logger.Log.Warnf("conversation poll failed: %v", err)
	}
}

func (m *ConversationPollModule) Name() string {
	return m.Config.Name
}

func (m *ConversationPollModule) Shutdown() {
	Logger.Log.Infoln("module ", m.Config.Name, " gracefully shutdown")
}
