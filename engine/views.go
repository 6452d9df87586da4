package engine

import (
	"github.com/pkg/errors"

	"github.com/gridfeed/gridfeed/model"
	"github.com/gridfeed/gridfeed/projector"
)

// ErrNotReady is returned by the read surfaces until the first snapshot
// lands.
var ErrNotReady = errors.New("no snapshot taken yet")

// input hands out a value copy of the cached projection input with a
// fresh clock, so story expiry keeps moving between refreshes.
func (s *SyncEngine) input() (projector.Input, error) {
	in, ok := s.views.Input()
	if !ok {
		return projector.Input{}, ErrNotReady
	}
	in.Now = s.now()
	return in, nil
}

func (s *SyncEngine) Feed(kind model.FeedKind) (*model.FeedView, error) {
	in, err := s.input()
	if err != nil {
		return nil, err
	}
	if kind == model.FeedKindForYou {
		return projector.ForYouFeed(in), nil
	}
	return projector.FollowingFeed(in), nil
}

// Profile returns nil without error when no visible account carries the
// handle.
func (s *SyncEngine) Profile(handle string) (*model.ProfileView, error) {
	in, err := s.input()
	if err != nil {
		return nil, err
	}
	return projector.Profile(in, handle), nil
}

func (s *SyncEngine) Conversations() ([]*model.ConversationView, error) {
	in, err := s.input()
	if err != nil {
		return nil, err
	}
	return projector.Conversations(in), nil
}

// Conversation returns nil without error when the thread is severed by
// a block or ban.
func (s *SyncEngine) Conversation(partnerId string) (*model.ConversationView, error) {
	in, err := s.input()
	if err != nil {
		return nil, err
	}
	return projector.Conversation(in, partnerId), nil
}

func (s *SyncEngine) Notifications() ([]*model.NotificationView, error) {
	in, err := s.input()
	if err != nil {
		return nil, err
	}
	return projector.Notifications(in), nil
}

func (s *SyncEngine) Search(query string) (*model.SearchView, error) {
	in, err := s.input()
	if err != nil {
		return nil, err
	}
	return projector.Search(in, query), nil
}

// Status always answers, even before the first snapshot: session state
// is known from construction, the rest fills in once data arrives.
func (s *SyncEngine) Status() *model.StatusView {
	view := &model.StatusView{State: s.State().String()}
	in, ok := s.views.Input()
	if !ok {
		return view
	}
	view.FetchedAt = in.Snap.FetchedAt
	if in.Snap.Status != nil {
		view.Message = in.Snap.Status.Message
	}
	in.Now = s.now()
	view.Ban = projector.ViewerBan(in)
	return view
}

// PendingCounts surfaces how much optimism is currently in play.
func (s *SyncEngine) PendingCounts() (posts int, comments int, overrides int, outbox int) {
	return s.overlay.PendingCounts()
}
