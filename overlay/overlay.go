// Package overlay keeps the viewer's local writes alive until the read
// source reflects them. Pending records are injected into every merge,
// TTL-bounded so the server always wins eventually; tombstones hide
// deleted records forever; the outbox tracks direct messages for the
// session only.
package overlay

import (
	"context"
	"sync"
	"time"

	"github.com/jinzhu/copier"

	"github.com/gridfeed/gridfeed/model"
	"github.com/gridfeed/gridfeed/state_store"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

// persistBuffer absorbs store latency so mutations rarely wait on disk.
const persistBuffer = 64

type Overlay struct {
	m sync.Mutex

	viewerId string
	state    *model.LocalState
	outbox   []*model.Message
	store    state_store.Store

	// Saves are applied strictly in mutation order by a single worker.
	persistCh   chan *model.LocalState
	persistDone chan struct{}

	// Injectable clock for expiry tests.
	now func() time.Time
}

// New loads whatever state survived the last run. A store error falls
// back to empty state, losing optimism is better than not starting.
func New(viewerId string, store state_store.Store) *Overlay {
	state, err := store.Load(context.Background())
	if err != nil {
		Logger.Log.Warnln("cannot load local state, starting fresh:", err)
		state = model.NewLocalState()
	}
	state.Normalize()

	o := &Overlay{
		viewerId:    viewerId,
		state:       state,
		store:       store,
		persistCh:   make(chan *model.LocalState, persistBuffer),
		persistDone: make(chan struct{}),
		now:         time.Now,
	}
	go o.persistLoop()
	return o
}

// Close flushes queued saves. Callers must have stopped mutating.
func (o *Overlay) Close() {
	close(o.persistCh)
	<-o.persistDone
}

func (o *Overlay) persistLoop() {
	for state := range o.persistCh {
		if err := o.store.Save(context.Background(), state); err != nil {
			Logger.Log.Errorln("cannot persist local state:", err)
		}
	}
	close(o.persistDone)
}

// update runs a mutation and queues a persist of the resulting state,
// all under the lock so saves land in mutation order.
func (o *Overlay) update(mutate func()) {
	o.m.Lock()
	defer o.m.Unlock()
	mutate()
	o.enqueuePersistLocked()
}

func (o *Overlay) enqueuePersistLocked() {
	snapshot := &model.LocalState{}
	if err := copier.CopyWithOption(snapshot, o.state, copier.Option{DeepCopy: true}); err != nil {
		Logger.Log.Errorln("cannot snapshot local state:", err)
		return
	}
	o.persistCh <- snapshot
}

/*
	Intent methods run in the apply phase of a user action, before the
	write is dispatched. Each mutates local state and queues a
	non-blocking persist, the caller re-projects right after so the user
	sees the write immediately.
*/

func (o *Overlay) AddPendingPost(post *model.Post) {
	o.update(func() {
		o.state.PendingPosts = append(o.state.PendingPosts, &model.PendingPost{
			Post:       post,
			EnqueuedAt: o.now(),
		})
	})
}

func (o *Overlay) AddPendingComment(comment *model.Comment) {
	o.update(func() {
		o.state.PendingComments = append(o.state.PendingComments, &model.PendingComment{
			Comment:    comment,
			EnqueuedAt: o.now(),
		})
	})
}

// SetLikeOverride pins the viewer's like state for a post. Toggling
// twice lands back on an override matching the server, which the next
// merge drops as agreed.
func (o *Overlay) SetLikeOverride(postId string, liked bool) {
	o.update(func() {
		o.state.LikeOverrides[postId] = &model.PendingLikeOverride{
			PostId:     postId,
			Liked:      liked,
			EnqueuedAt: o.now(),
		}
	})
}

func (o *Overlay) SetFollowOverride(targetId string, following bool) {
	o.update(func() {
		o.state.FollowOverrides[targetId] = &model.PendingFollowOverride{
			TargetId:   targetId,
			Following:  following,
			EnqueuedAt: o.now(),
		}
	})
}

// AddOutboxMessage tracks a just-sent direct message. Not persisted:
// the outbox dies with the session.
func (o *Overlay) AddOutboxMessage(message *model.Message) {
	o.m.Lock()
	defer o.m.Unlock()
	message.Delivery = model.DeliverySending
	o.outbox = append(o.outbox, message)
}

func (o *Overlay) TombstonePost(postId string) {
	o.update(func() {
		o.state.Tombstones.Posts[postId] = true
		o.removePendingPostLocked(postId)
	})
}

func (o *Overlay) TombstoneComment(commentId string) {
	o.update(func() {
		o.state.Tombstones.Comments[commentId] = true
		o.removePendingCommentLocked(commentId)
	})
}

func (o *Overlay) TombstoneNotification(notificationId string) {
	o.update(func() {
		o.state.Tombstones.Notifications[notificationId] = true
	})
}

func (o *Overlay) BlockUser(targetId string) {
	o.update(func() {
		o.state.Tombstones.Blocked[targetId] = true
	})
}

// UnblockUser is the one reversible tombstone. The server's own block
// row, if the earlier block already propagated, keeps hiding the
// target until the unblock write propagates too.
func (o *Overlay) UnblockUser(targetId string) {
	o.update(func() {
		delete(o.state.Tombstones.Blocked, targetId)
	})
}

/*
	Revert methods undo an optimistic record once its write settled as
	failed, whether the endpoint said no or the transport gave up after
	retries. The TTL only covers failures nobody ever reported back.
*/

func (o *Overlay) RevertPendingPost(postId string) {
	o.update(func() {
		o.removePendingPostLocked(postId)
	})
}

func (o *Overlay) RevertPendingComment(commentId string) {
	o.update(func() {
		o.removePendingCommentLocked(commentId)
	})
}

func (o *Overlay) RevertLikeOverride(postId string) {
	o.update(func() {
		delete(o.state.LikeOverrides, postId)
	})
}

func (o *Overlay) RevertFollowOverride(targetId string) {
	o.update(func() {
		delete(o.state.FollowOverrides, targetId)
	})
}

func (o *Overlay) RevertBlock(targetId string) {
	o.update(func() {
		delete(o.state.Tombstones.Blocked, targetId)
	})
}

// MarkOutboxSent upgrades a message once the write endpoint accepted
// it. The message keeps rendering from the outbox until a snapshot
// carries the row, id match drops it then.
func (o *Overlay) MarkOutboxSent(messageId string) {
	o.setOutboxDelivery(messageId, model.DeliverySent)
}

func (o *Overlay) MarkOutboxFailed(messageId string) {
	o.setOutboxDelivery(messageId, model.DeliveryFailed)
}

func (o *Overlay) setOutboxDelivery(messageId string, delivery model.DeliveryStatus) {
	o.m.Lock()
	defer o.m.Unlock()
	for _, message := range o.outbox {
		if message.Id == messageId {
			message.Delivery = delivery
			return
		}
	}
}

func (o *Overlay) removePendingPostLocked(postId string) {
	kept := o.state.PendingPosts[:0]
	for _, pending := range o.state.PendingPosts {
		if pending.Post.Id != postId {
			kept = append(kept, pending)
		}
	}
	o.state.PendingPosts = kept
}

func (o *Overlay) removePendingCommentLocked(commentId string) {
	kept := o.state.PendingComments[:0]
	for _, pending := range o.state.PendingComments {
		if pending.Comment.Id != commentId {
			kept = append(kept, pending)
		}
	}
	o.state.PendingComments = kept
}

// PendingCounts reports the overlay backlog for the metrics reporter.
func (o *Overlay) PendingCounts() (posts int, comments int, overrides int, outbox int) {
	o.m.Lock()
	defer o.m.Unlock()
	return len(o.state.PendingPosts), len(o.state.PendingComments),
		len(o.state.LikeOverrides) + len(o.state.FollowOverrides), len(o.outbox)
}
