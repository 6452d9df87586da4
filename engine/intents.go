package engine

import (
	"errors"

	"github.com/google/uuid"

	"github.com/gridfeed/gridfeed/dispatcher"
	"github.com/gridfeed/gridfeed/model"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

/*
	Every mutating intent is two-phase. Phase one applies the optimistic
	record to the overlay, synchronously, so the next read already shows
	it. Phase two enqueues the write command; when it settles, success
	leaves reconciliation to merge-on-read and failure runs the revert.

	Deletes and dismissals are the exception: their tombstones are
	one-way for the session. The server deletion is assumed durable, so
	a failed delete write does not resurrect the entity locally. Blocks
	do revert on failure, a tombstone with no TTL would otherwise
	diverge from the server forever.
*/

// submit runs phase two. onSuccess and onFailure run on the queue
// worker once the command settles; either may be nil.
func (s *SyncEngine) submit(cmd *dispatcher.Command, onSuccess func(), onFailure func()) error {
	err := s.queue.Enqueue(cmd, func(outcome error) {
		s.settleWrite(cmd, outcome, onSuccess, onFailure)
	})
	if err != nil {
		Logger.Log.Errorf("cannot enqueue %s: %v", cmd.Action, err)
		if onFailure != nil {
			onFailure()
		}
		s.reproject()
		return err
	}
	s.reproject()
	return nil
}

func (s *SyncEngine) settleWrite(cmd *dispatcher.Command, outcome error, onSuccess func(), onFailure func()) {
	if outcome == nil {
		if onSuccess != nil {
			onSuccess()
			s.reproject()
		}
		s.publishWrite(cmd.Action, "success")
		return
	}

	result := "failed"
	var rejection *dispatcher.BusinessRejection
	if errors.As(outcome, &rejection) {
		result = "rejected"
		s.applyRejectionCode(rejection)
	}
	if onFailure != nil {
		onFailure()
		s.reproject()
	}
	Logger.Log.Warnf("write %s settled as %s: %v", cmd.Action, result, outcome)
	s.signals.Broadcast(&Signal{Kind: SIGNAL_WRITE_FAILED, Detail: cmd.Action})
	s.publishWrite(cmd.Action, result)
}

// applyRejectionCode flips session state when the endpoint's no is
// about the whole session rather than the one command.
func (s *SyncEngine) applyRejectionCode(rejection *dispatcher.BusinessRejection) {
	switch rejection.Code {
	case dispatcher.RejectionCodeBanned, dispatcher.RejectionCodeSuspended:
		s.transition(SUSPENDED, rejection.Reason)
	case dispatcher.RejectionCodeOutage:
		s.transition(OUTAGE, rejection.Reason)
	}
}

// CreatePost publishes a new post or story under the viewer's account.
func (s *SyncEngine) CreatePost(content string, isStory bool) (*model.Post, error) {
	if err := s.writable(); err != nil {
		return nil, err
	}
	post := &model.Post{
		Id:        uuid.New().String(),
		AuthorId:  s.viewerId,
		Content:   content,
		CreatedAt: s.now(),
		IsStory:   isStory,
	}
	s.overlay.AddPendingPost(post)
	err := s.submit(dispatcher.CreatePost(post), nil, func() {
		s.overlay.RevertPendingPost(post.Id)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *SyncEngine) DeletePost(postId string) error {
	if err := s.writable(); err != nil {
		return err
	}
	s.overlay.TombstonePost(postId)
	return s.submit(dispatcher.DeletePost(s.viewerId, postId), nil, nil)
}

func (s *SyncEngine) CreateComment(postId string, text string, mediaUrl string) (*model.Comment, error) {
	if err := s.writable(); err != nil {
		return nil, err
	}
	comment := &model.Comment{
		Id:        uuid.New().String(),
		PostId:    postId,
		AuthorId:  s.viewerId,
		Text:      text,
		MediaUrl:  mediaUrl,
		CreatedAt: s.now(),
	}
	s.overlay.AddPendingComment(comment)
	err := s.submit(dispatcher.CreateComment(comment), nil, func() {
		s.overlay.RevertPendingComment(comment.Id)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *SyncEngine) DeleteComment(commentId string) error {
	if err := s.writable(); err != nil {
		return err
	}
	s.overlay.TombstoneComment(commentId)
	return s.submit(dispatcher.DeleteComment(s.viewerId, commentId), nil, nil)
}

// SetLike drives both like and unlike, the override records whichever
// state the viewer asked for last.
func (s *SyncEngine) SetLike(postId string, liked bool) error {
	if err := s.writable(); err != nil {
		return err
	}
	s.overlay.SetLikeOverride(postId, liked)
	return s.submit(dispatcher.LikePost(s.viewerId, postId, liked), nil, func() {
		s.overlay.RevertLikeOverride(postId)
	})
}

func (s *SyncEngine) SetFollow(targetId string, following bool) error {
	if err := s.writable(); err != nil {
		return err
	}
	s.overlay.SetFollowOverride(targetId, following)
	return s.submit(dispatcher.FollowUser(s.viewerId, targetId, following), nil, func() {
		s.overlay.RevertFollowOverride(targetId)
	})
}

// SendMessage queues a direct message. Failed sends are not reverted:
// the message stays in the thread marked failed so the viewer can see
// it never arrived.
func (s *SyncEngine) SendMessage(partnerId string, text string) (*model.Message, error) {
	if err := s.writable(); err != nil {
		return nil, err
	}
	msg := &model.Message{
		Id:          uuid.New().String(),
		SenderId:    s.viewerId,
		RecipientId: partnerId,
		Content:     model.EncodeBody(text),
		CreatedAt:   s.now(),
	}
	s.overlay.AddOutboxMessage(msg)
	err := s.submit(dispatcher.SendMessage(msg),
		func() { s.overlay.MarkOutboxSent(msg.Id) },
		func() { s.overlay.MarkOutboxFailed(msg.Id) })
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// MarkConversationRead has no optimistic record; unread counts clear
// when the poll cycle echoes the server-side flag.
func (s *SyncEngine) MarkConversationRead(partnerId string) error {
	if err := s.writable(); err != nil {
		return err
	}
	return s.submit(dispatcher.MarkConversationRead(s.viewerId, partnerId), nil, nil)
}

func (s *SyncEngine) DismissNotification(notificationId string) error {
	if err := s.writable(); err != nil {
		return err
	}
	s.overlay.TombstoneNotification(notificationId)
	return s.submit(dispatcher.DismissNotification(s.viewerId, notificationId), nil, nil)
}

func (s *SyncEngine) MarkNotificationsRead() error {
	if err := s.writable(); err != nil {
		return err
	}
	return s.submit(dispatcher.MarkNotificationsRead(s.viewerId), nil, nil)
}

func (s *SyncEngine) Block(targetId string) error {
	if err := s.writable(); err != nil {
		return err
	}
	s.overlay.BlockUser(targetId)
	return s.submit(dispatcher.BlockUser(s.viewerId, targetId, true), nil, func() {
		s.overlay.RevertBlock(targetId)
	})
}

// Unblock lifts the local block immediately. Until the write lands the
// server may still carry the block row, which keeps the pair hidden;
// server truth wins in the meantime.
func (s *SyncEngine) Unblock(targetId string) error {
	if err := s.writable(); err != nil {
		return err
	}
	s.overlay.UnblockUser(targetId)
	return s.submit(dispatcher.BlockUser(s.viewerId, targetId, false), nil, func() {
		s.overlay.BlockUser(targetId)
	})
}

// RecordPhoto registers an uploaded photo's public URL in the photos
// tab. The upload itself already happened through the media store.
func (s *SyncEngine) RecordPhoto(url string, caption string) (*model.Photo, error) {
	if err := s.writable(); err != nil {
		return nil, err
	}
	photo := &model.Photo{
		Id:        uuid.New().String(),
		OwnerId:   s.viewerId,
		Url:       url,
		Caption:   caption,
		CreatedAt: s.now(),
	}
	return photo, s.submit(dispatcher.RecordPhoto(photo), nil, nil)
}
