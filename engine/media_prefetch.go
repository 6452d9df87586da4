package engine

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/gridfeed/gridfeed/media_store"
	"github.com/gridfeed/gridfeed/model"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

const DefaultPrefetchPerCycle = 64

type MediaPrefetchConfig struct {
	Name string

	// MaxPerCycle bounds how many references one refresh cycle touches.
	// Already-cached references still count, they cost a stat each.
	MaxPerCycle int
}

// MediaPrefetchModule warms the media cache after every refresh cycle:
// avatars, post media and comment attachments referenced by the current
// snapshot get pulled into the store so views render without waiting on
// the network.
type MediaPrefetchModule struct {
	Config MediaPrefetchConfig

	sync  *SyncEngine
	store media_store.MediaStore

	EventBus *gochannel.GoChannel
}

func NewMediaPrefetchModule(config MediaPrefetchConfig, sync *SyncEngine, store media_store.MediaStore, e *gochannel.GoChannel) *MediaPrefetchModule {
	if config.MaxPerCycle <= 0 {
		config.MaxPerCycle = DefaultPrefetchPerCycle
	}
	return &MediaPrefetchModule{
		Config:   config,
		sync:     sync,
		store:    store,
		EventBus: e,
	}
}

func (m *MediaPrefetchModule) RunModule(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := m.EventBus.Subscribe(ctx, TOPIC_REFRESH_DONE)
	if err != nil {
		return err
	}

	for msg := range messages {
		msg.Ack()
		m.prefetch(ctx)
	}

	return nil
}

func (m *MediaPrefetchModule) prefetch(ctx context.Context) {
	in, ok := m.sync.views.Input()
	if !ok {
		return
	}

	seen := map[string]bool{}
	var urls []string
	add := func(url string) {
		if url == "" || seen[url] {
			return
		}
		seen[url] = true
		urls = append(urls, url)
	}

	for _, account := range in.Snap.Accounts {
		add(account.AvatarUrl)
	}
	for _, post := range in.Snap.Posts {
		for _, url := range model.ExtractMediaUrls(post.Content) {
			add(url)
		}
	}
	for _, comment := range in.Snap.Comments {
		add(comment.MediaUrl)
	}

	for i, url := range urls {
		if i >= m.Config.MaxPerCycle {
			break
		}
		if ctx.Err() != nil {
			return
		}
		if _, err := m.store.FetchAndStore(ctx, url); err != nil {
			Logger.Log.Debugf("media prefetch skipped %s: %v", url, err)
		}
	}
}

func (m *MediaPrefetchModule) Name() string {
	return m.Config.Name
}

func (m *MediaPrefetchModule) Shutdown() {
	m.store.CleanUp()
	Logger.Log.Infoln("module ", m.Config.Name, " gracefully shutdown")
}
