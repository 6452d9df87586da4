package overlay

import (
	"time"

	"github.com/gridfeed/gridfeed/model"
)

// Merged is the effective dataset: server truth with local writes
// spliced in. The id sets mark which records are locally injected so
// views can flag them.
type Merged struct {
	Snap            *model.Snapshot
	PendingPosts    map[string]bool
	PendingComments map[string]bool
}

/*
	Merge reconciles local state against a fresh snapshot and builds the
	effective dataset. Reconciliation prunes as it goes:

	  - a pending record the server now carries is confirmed and dropped
	  - an override the server agrees with is dropped
	  - anything past its TTL is dropped, the server wins from there
	  - an outbox message whose id appears server-side is dropped

	What survives pruning is injected on top of the snapshot. The input
	snapshot is never modified, the effective dataset gets fresh slices.
*/
func (o *Overlay) Merge(snap *model.Snapshot) *Merged {
	o.m.Lock()
	defer o.m.Unlock()
	now := o.now()

	dirty := o.expireLocked(now)
	dirty = o.reconcileLocked(snap) || dirty

	merged := o.buildLocked(snap)
	if dirty {
		o.enqueuePersistLocked()
	}
	return merged
}

func (o *Overlay) expireLocked(now time.Time) bool {
	changed := false

	keptPosts := o.state.PendingPosts[:0]
	for _, pending := range o.state.PendingPosts {
		if pending.Expired(now) {
			changed = true
			continue
		}
		keptPosts = append(keptPosts, pending)
	}
	o.state.PendingPosts = keptPosts

	keptComments := o.state.PendingComments[:0]
	for _, pending := range o.state.PendingComments {
		if pending.Expired(now) {
			changed = true
			continue
		}
		keptComments = append(keptComments, pending)
	}
	o.state.PendingComments = keptComments

	for postId, override := range o.state.LikeOverrides {
		if override.Expired(now) {
			delete(o.state.LikeOverrides, postId)
			changed = true
		}
	}
	for targetId, override := range o.state.FollowOverrides {
		if override.Expired(now) {
			delete(o.state.FollowOverrides, targetId)
			changed = true
		}
	}
	return changed
}

func (o *Overlay) reconcileLocked(snap *model.Snapshot) bool {
	changed := false

	keptPosts := o.state.PendingPosts[:0]
	for _, pending := range o.state.PendingPosts {
		if serverEchoesPost(snap, pending) {
			changed = true
			continue
		}
		keptPosts = append(keptPosts, pending)
	}
	o.state.PendingPosts = keptPosts

	keptComments := o.state.PendingComments[:0]
	for _, pending := range o.state.PendingComments {
		if serverEchoesComment(snap, pending) {
			changed = true
			continue
		}
		keptComments = append(keptComments, pending)
	}
	o.state.PendingComments = keptComments

	serverLikes := map[string]bool{}
	for _, like := range snap.Likes {
		if like.AccountId == o.viewerId {
			serverLikes[like.PostId] = true
		}
	}
	for postId, override := range o.state.LikeOverrides {
		if serverLikes[postId] == override.Liked {
			delete(o.state.LikeOverrides, postId)
			changed = true
		}
	}

	serverFollows := map[string]bool{}
	for _, follow := range snap.Follows {
		if follow.FollowerId == o.viewerId {
			serverFollows[follow.TargetId] = true
		}
	}
	for targetId, override := range o.state.FollowOverrides {
		if serverFollows[targetId] == override.Following {
			delete(o.state.FollowOverrides, targetId)
			changed = true
		}
	}

	serverMessages := map[string]bool{}
	for _, message := range snap.Messages {
		serverMessages[message.Id] = true
	}
	keptOutbox := o.outbox[:0]
	for _, message := range o.outbox {
		if serverMessages[message.Id] {
			continue
		}
		keptOutbox = append(keptOutbox, message)
	}
	o.outbox = keptOutbox

	return changed
}

// serverEchoesPost checks whether any server row is this pending post
// come back around. The write endpoint assigns server-side ids, so the
// match is heuristic: author, content and a bounded time window.
func serverEchoesPost(snap *model.Snapshot, pending *model.PendingPost) bool {
	for _, post := range snap.Posts {
		if pending.Matches(post) {
			return true
		}
	}
	return false
}

func serverEchoesComment(snap *model.Snapshot, pending *model.PendingComment) bool {
	for _, comment := range snap.Comments {
		if pending.Matches(comment) {
			return true
		}
	}
	return false
}

func (o *Overlay) buildLocked(snap *model.Snapshot) *Merged {
	tombstones := o.state.Tombstones
	eff := &model.Snapshot{
		FetchedAt:     snap.FetchedAt,
		Accounts:      snap.Accounts,
		Bans:          snap.Bans,
		Photos:        snap.Photos,
		Status:        snap.Status,
		SourceErrors:  snap.SourceErrors,
		Posts:         make([]*model.Post, 0, len(snap.Posts)+len(o.state.PendingPosts)),
		Comments:      make([]*model.Comment, 0, len(snap.Comments)+len(o.state.PendingComments)),
		Likes:         make([]*model.Like, 0, len(snap.Likes)+len(o.state.LikeOverrides)),
		Follows:       make([]*model.Follow, 0, len(snap.Follows)+len(o.state.FollowOverrides)),
		Blocks:        make([]*model.Block, 0, len(snap.Blocks)+len(tombstones.Blocked)),
		Messages:      make([]*model.Message, 0, len(snap.Messages)+len(o.outbox)),
		Notifications: make([]*model.Notification, 0, len(snap.Notifications)),
	}

	merged := &Merged{
		Snap:            eff,
		PendingPosts:    make(map[string]bool, len(o.state.PendingPosts)),
		PendingComments: make(map[string]bool, len(o.state.PendingComments)),
	}

	for _, post := range snap.Posts {
		if !tombstones.Posts[post.Id] {
			eff.Posts = append(eff.Posts, post)
		}
	}
	for _, pending := range o.state.PendingPosts {
		eff.Posts = append(eff.Posts, pending.Post)
		merged.PendingPosts[pending.Post.Id] = true
	}

	for _, comment := range snap.Comments {
		if !tombstones.Comments[comment.Id] {
			eff.Comments = append(eff.Comments, comment)
		}
	}
	for _, pending := range o.state.PendingComments {
		eff.Comments = append(eff.Comments, pending.Comment)
		merged.PendingComments[pending.Comment.Id] = true
	}

	for _, like := range snap.Likes {
		if like.AccountId == o.viewerId {
			if _, overridden := o.state.LikeOverrides[like.PostId]; overridden {
				continue
			}
		}
		eff.Likes = append(eff.Likes, like)
	}
	for _, override := range o.state.LikeOverrides {
		if override.Liked {
			eff.Likes = append(eff.Likes, &model.Like{
				PostId:    override.PostId,
				AccountId: o.viewerId,
				CreatedAt: override.EnqueuedAt,
			})
		}
	}

	for _, follow := range snap.Follows {
		if follow.FollowerId == o.viewerId {
			if _, overridden := o.state.FollowOverrides[follow.TargetId]; overridden {
				continue
			}
		}
		eff.Follows = append(eff.Follows, follow)
	}
	for _, override := range o.state.FollowOverrides {
		if override.Following {
			eff.Follows = append(eff.Follows, &model.Follow{
				FollowerId: o.viewerId,
				TargetId:   override.TargetId,
				CreatedAt:  override.EnqueuedAt,
			})
		}
	}

	serverBlocked := map[string]bool{}
	for _, block := range snap.Blocks {
		eff.Blocks = append(eff.Blocks, block)
		if block.BlockerId == o.viewerId {
			serverBlocked[block.TargetId] = true
		}
	}
	for targetId := range tombstones.Blocked {
		if !serverBlocked[targetId] {
			eff.Blocks = append(eff.Blocks, &model.Block{
				BlockerId: o.viewerId,
				TargetId:  targetId,
			})
		}
	}

	eff.Messages = append(eff.Messages, snap.Messages...)
	for _, message := range o.outbox {
		// Copy: delivery status flips concurrently as dispatches finish.
		copied := *message
		eff.Messages = append(eff.Messages, &copied)
	}

	for _, notification := range snap.Notifications {
		if !tombstones.Notifications[notification.Id] {
			eff.Notifications = append(eff.Notifications, notification)
		}
	}

	return merged
}
