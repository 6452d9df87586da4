package engine

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/gridfeed/gridfeed/dispatcher"
	"github.com/gridfeed/gridfeed/model"
	"github.com/gridfeed/gridfeed/overlay"
	"github.com/gridfeed/gridfeed/projector"
	"github.com/gridfeed/gridfeed/snapshot"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

type SyncEngineConfig struct {
	// Account id this daemon projects for.
	ViewerId string

	// Tab export URLs of the read source.
	Sources snapshot.SourceSet

	// csv, html or auto-sniffed per tab.
	Format snapshot.Format

	// Per-request timeout against the read source.
	FetchTimeout time.Duration
}

/*
	SyncEngine is the explicitly constructed context object everything
	else hangs off: the overlay, the write queue, the snapshot readers,
	the view cache, the signal fanout and the session state. It is built
	once in main and passed around, there are no package globals.

	Reads never wait on writes. A read serves whatever projection the
	last merge produced, and every local mutation immediately re-merges
	against the last server snapshot, so an optimistic effect is visible
	to the very next read.
*/
type SyncEngine struct {
	viewerId string

	reader      *snapshot.Reader
	convoReader *snapshot.Reader
	fullTabs    map[string]bool
	convoTabs   map[string]bool

	overlay *overlay.Overlay
	queue   *dispatcher.Queue
	views   *ViewCache
	signals *SignalChannels
	bus     *gochannel.GoChannel

	m        sync.Mutex
	lastSnap *model.Snapshot
	state    SessionState
	active   string

	now func() time.Time
}

func NewSyncEngine(config SyncEngineConfig, ov *overlay.Overlay, queue *dispatcher.Queue, bus *gochannel.GoChannel) *SyncEngine {
	convo := conversationSources(config.Sources)
	return &SyncEngine{
		viewerId:    config.ViewerId,
		reader:      snapshot.NewReader(config.Sources, config.Format, config.FetchTimeout),
		convoReader: snapshot.NewReader(convo, config.Format, config.FetchTimeout),
		fullTabs:    config.Sources.Configured(),
		convoTabs:   convo.Configured(),
		overlay:     ov,
		queue:       queue,
		views:       NewViewCache(),
		signals:     NewSignalChannels(),
		bus:         bus,
		state:       ACTIVE,
		now:         time.Now,
	}
}

// conversationSources narrows the source set to what a conversation
// poll needs: message rows plus the accounts that resolve them.
func conversationSources(s snapshot.SourceSet) snapshot.SourceSet {
	return snapshot.SourceSet{Accounts: s.Accounts, Messages: s.Messages}
}

func (s *SyncEngine) ViewerId() string { return s.viewerId }

func (s *SyncEngine) Signals() *SignalChannels { return s.signals }

func (s *SyncEngine) State() SessionState {
	s.m.Lock()
	defer s.m.Unlock()
	return s.state
}

func (s *SyncEngine) ActiveConversation() string {
	s.m.Lock()
	defer s.m.Unlock()
	return s.active
}

// SessionInactiveError refuses a write while the viewer is suspended or
// the platform is down.
type SessionInactiveError struct {
	State SessionState
}

func (e *SessionInactiveError) Error() string {
	return "writes are disabled while the session is " + e.State.String()
}

func (s *SyncEngine) writable() error {
	if state := s.State(); state != ACTIVE {
		return &SessionInactiveError{State: state}
	}
	return nil
}

// RefreshAll runs one read cycle over every configured tab.
func (s *SyncEngine) RefreshAll(ctx context.Context) error {
	return s.refresh(ctx, "full", s.reader, s.fullTabs)
}

// RefreshConversations reads only the messages and accounts tabs, the
// narrow cycle conversation polling runs on.
func (s *SyncEngine) RefreshConversations(ctx context.Context) error {
	return s.refresh(ctx, "conversations", s.convoReader, s.convoTabs)
}

func (s *SyncEngine) refresh(ctx context.Context, scope string, reader *snapshot.Reader, attempted map[string]bool) error {
	snap, err := reader.Fetch(ctx)
	if err != nil {
		// Keep serving the previous projection untouched.
		Logger.Log.Errorf("%s refresh failed: %v", scope, err)
		s.publishRefresh(scope, "failed", len(snap.SourceErrors))
		return err
	}

	s.m.Lock()
	spliceSnapshot(s.lastSnap, snap, attempted)
	s.lastSnap = snap
	s.m.Unlock()

	s.project(snap)

	outcome := "ok"
	if len(snap.SourceErrors) > 0 {
		outcome = "degraded"
	}
	s.publishRefresh(scope, outcome, len(snap.SourceErrors))
	return nil
}

/*
	spliceSnapshot carries collections forward from the previous server
	snapshot wherever this cycle has nothing fresher: tabs that were not
	part of the fetch and tabs whose fetch failed. A failing tab keeps
	last cycle's rows instead of blanking a whole view.
*/
func spliceSnapshot(prev *model.Snapshot, next *model.Snapshot, attempted map[string]bool) {
	if prev == nil {
		return
	}
	stale := func(name string) bool {
		if !attempted[name] {
			return true
		}
		_, failed := next.SourceErrors[name]
		return failed
	}
	if stale("accounts") {
		next.Accounts = prev.Accounts
	}
	if stale("posts") {
		next.Posts = prev.Posts
	}
	if stale("comments") {
		next.Comments = prev.Comments
	}
	if stale("likes") {
		next.Likes = prev.Likes
	}
	if stale("follows") {
		next.Follows = prev.Follows
	}
	if stale("blocks") {
		next.Blocks = prev.Blocks
	}
	if stale("bans") {
		next.Bans = prev.Bans
	}
	if stale("messages") {
		next.Messages = prev.Messages
	}
	if stale("notifications") {
		next.Notifications = prev.Notifications
	}
	if stale("photos") {
		next.Photos = prev.Photos
	}
	if stale("status") {
		next.Status = prev.Status
	}
}

// project rebuilds the effective dataset and the cached projection
// input from a server snapshot, then resolves session state from it.
func (s *SyncEngine) project(snap *model.Snapshot) {
	merged := s.overlay.Merge(snap)
	in := &projector.Input{
		Snap:            merged.Snap,
		ViewerId:        s.viewerId,
		Now:             s.now(),
		PendingPosts:    merged.PendingPosts,
		PendingComments: merged.PendingComments,
	}
	s.views.Set(in)
	s.resolveSessionState(in)
	s.signals.Broadcast(&Signal{Kind: SIGNAL_SNAPSHOT})
}

// reproject re-merges the overlay against the last server snapshot so
// a local mutation shows up without waiting for the next fetch.
func (s *SyncEngine) reproject() {
	s.m.Lock()
	snap := s.lastSnap
	s.m.Unlock()
	if snap == nil {
		return
	}
	s.project(snap)
}

func (s *SyncEngine) resolveSessionState(in *projector.Input) {
	next := ACTIVE
	reason := ""
	if in.Snap.Status.Down() {
		next = OUTAGE
		reason = in.Snap.Status.Message
	} else if ban := projector.ViewerBan(*in); ban.Active(in.Now) {
		next = SUSPENDED
		reason = ban.Reason
	}
	s.transition(next, reason)
}

func (s *SyncEngine) transition(next SessionState, reason string) {
	s.m.Lock()
	prev := s.state
	if prev == next {
		s.m.Unlock()
		return
	}
	s.state = next
	s.m.Unlock()

	Logger.Log.Infof("session state %s -> %s: %s", prev, next, reason)
	s.signals.Broadcast(&Signal{Kind: SIGNAL_STATUS, Detail: next.String()})
	s.publish(TOPIC_STATUS_CHANGED, []byte(next.String()))
}

// RequestRefresh asks the refresh module for a full cycle without
// waiting on it.
func (s *SyncEngine) RequestRefresh(reason string) {
	s.publish(TOPIC_REFRESH_REQUEST, []byte(reason))
}

// OpenConversation marks one conversation as the active view, which
// starts the fast poll loop on it.
func (s *SyncEngine) OpenConversation(partnerId string) {
	s.m.Lock()
	s.active = partnerId
	s.m.Unlock()
	s.publish(TOPIC_ACTIVE_CONVERSATION, []byte(partnerId))
}

// CloseConversation clears the active view and stops the fast poll.
func (s *SyncEngine) CloseConversation() {
	s.m.Lock()
	s.active = ""
	s.m.Unlock()
	s.publish(TOPIC_ACTIVE_CONVERSATION, []byte(""))
}

type writeOutcome struct {
	Action  string `json:"action"`
	Outcome string `json:"outcome"`
}

type refreshOutcome struct {
	Scope     string `json:"scope"`
	Outcome   string `json:"outcome"`
	TabErrors int    `json:"tab_errors"`
}

func (s *SyncEngine) publish(topic string, payload []byte) {
	if s.bus == nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.bus.Publish(topic, msg); err != nil {
		Logger.Log.Errorf("cannot publish on %s: %v", topic, err)
	}
}

func (s *SyncEngine) publishRefresh(scope string, outcome string, tabErrors int) {
	payload, err := json.Marshal(refreshOutcome{Scope: scope, Outcome: outcome, TabErrors: tabErrors})
	if err != nil {
		return
	}
	s.publish(TOPIC_REFRESH_DONE, payload)
}

func (s *SyncEngine) publishWrite(action string, outcome string) {
	payload, err := json.Marshal(writeOutcome{Action: action, Outcome: outcome})
	if err != nil {
		return
	}
	s.publish(TOPIC_WRITE_SETTLED, payload)
}
