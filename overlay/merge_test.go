package overlay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gridfeed/gridfeed/model"
)

func TestTombstonedPostStaysGone(t *testing.T) {
	o, _ := newTestOverlay()
	o.TombstonePost("p1")

	snap := serverSnap(&model.Post{Id: "p1", AuthorId: "u1", Content: "regret", CreatedAt: time.Now()})

	// However many times the server re-lists it.
	for i := 0; i < 3; i++ {
		merged := o.Merge(snap)
		assert.Empty(t, merged.Snap.Posts)
	}
}

func TestTombstoneRemovesPendingRecord(t *testing.T) {
	o, _ := newTestOverlay()
	o.AddPendingPost(&model.Post{Id: "local-1", AuthorId: "u1", Content: "typo'd", CreatedAt: time.Now()})
	o.TombstonePost("local-1")

	merged := o.Merge(serverSnap())
	assert.Empty(t, merged.Snap.Posts)
	assert.Empty(t, merged.PendingPosts)
}

func TestTombstonedCommentGoneDespiteDuplicateRows(t *testing.T) {
	o, _ := newTestOverlay()
	o.TombstoneComment("c1")

	// A retried write left the same comment row twice in the sheet.
	snap := serverSnap(&model.Post{Id: "p1", AuthorId: "u2", Content: "hi", CreatedAt: time.Now()})
	snap.Comments = []*model.Comment{
		{Id: "c1", PostId: "p1", AuthorId: "u1", Text: "gone", CreatedAt: time.Now()},
		{Id: "c1", PostId: "p1", AuthorId: "u1", Text: "gone", CreatedAt: time.Now()},
		{Id: "c2", PostId: "p1", AuthorId: "u2", Text: "kept", CreatedAt: time.Now()},
	}

	merged := o.Merge(snap)
	assert.Len(t, merged.Snap.Comments, 1)
	assert.Equal(t, "c2", merged.Snap.Comments[0].Id)
}

func TestNotificationTombstone(t *testing.T) {
	o, _ := newTestOverlay()
	o.TombstoneNotification("n1")

	snap := serverSnap()
	snap.Notifications = []*model.Notification{
		{Id: "n1", RecipientId: "u1", ActorId: "u2", Kind: model.NotificationLike},
		{Id: "n2", RecipientId: "u1", ActorId: "u2", Kind: model.NotificationFollow},
	}
	merged := o.Merge(snap)

	assert.Len(t, merged.Snap.Notifications, 1)
	assert.Equal(t, "n2", merged.Snap.Notifications[0].Id)
}

func TestBlockInjectedAndDeduplicated(t *testing.T) {
	o, _ := newTestOverlay()
	o.BlockUser("u9")

	merged := o.Merge(serverSnap())
	assert.Len(t, merged.Snap.Blocks, 1)
	assert.Equal(t, "u9", merged.Snap.Blocks[0].TargetId)

	// Once the server lists the block there is still exactly one row.
	snap := serverSnap()
	snap.Blocks = []*model.Block{{BlockerId: "u1", TargetId: "u9", CreatedAt: time.Now()}}
	merged = o.Merge(snap)
	assert.Len(t, merged.Snap.Blocks, 1)
}

func TestUnblockIsReversible(t *testing.T) {
	o, _ := newTestOverlay()
	o.BlockUser("u9")
	o.UnblockUser("u9")

	merged := o.Merge(serverSnap())
	assert.Empty(t, merged.Snap.Blocks)
}

func TestOutboxLifecycle(t *testing.T) {
	o, _ := newTestOverlay()
	o.AddOutboxMessage(&model.Message{
		Id: "local-m1", SenderId: "u1", RecipientId: "u2",
		Content: model.EncodeBody("hello"), CreatedAt: time.Now(),
	})

	merged := o.Merge(serverSnap())
	assert.Len(t, merged.Snap.Messages, 1)
	assert.Equal(t, model.DeliverySending, merged.Snap.Messages[0].Delivery)

	o.MarkOutboxSent("local-m1")
	merged = o.Merge(serverSnap())
	assert.Equal(t, model.DeliverySent, merged.Snap.Messages[0].Delivery)

	// The server row carries the client-generated id, which retires the
	// outbox copy.
	snap := serverSnap()
	snap.Messages = []*model.Message{{
		Id: "local-m1", SenderId: "u1", RecipientId: "u2",
		Content: model.EncodeBody("hello"), CreatedAt: time.Now(), Delivery: model.DeliverySent,
	}}
	merged = o.Merge(snap)
	assert.Len(t, merged.Snap.Messages, 1)
	assert.Equal(t, snap.Messages[0], merged.Snap.Messages[0])
}

func TestOutboxFailureSticksForTheSession(t *testing.T) {
	o, _ := newTestOverlay()
	o.AddOutboxMessage(&model.Message{Id: "local-m1", SenderId: "u1", RecipientId: "u2", CreatedAt: time.Now()})
	o.MarkOutboxFailed("local-m1")

	merged := o.Merge(serverSnap())
	assert.Len(t, merged.Snap.Messages, 1)
	assert.Equal(t, model.DeliveryFailed, merged.Snap.Messages[0].Delivery)
}

func TestRevertDropsOptimisticRecords(t *testing.T) {
	o, _ := newTestOverlay()
	o.AddPendingPost(&model.Post{Id: "local-1", AuthorId: "u1", Content: "rejected", CreatedAt: time.Now()})
	o.SetLikeOverride("p1", true)
	o.SetFollowOverride("u2", true)
	o.BlockUser("u9")

	o.RevertPendingPost("local-1")
	o.RevertLikeOverride("p1")
	o.RevertFollowOverride("u2")
	o.RevertBlock("u9")

	merged := o.Merge(serverSnap())
	assert.Empty(t, merged.Snap.Posts)
	assert.Empty(t, merged.Snap.Likes)
	assert.Empty(t, merged.Snap.Follows)
	assert.Empty(t, merged.Snap.Blocks)
}

func TestMergeLeavesInputSnapshotAlone(t *testing.T) {
	o, _ := newTestOverlay()
	o.AddPendingPost(&model.Post{Id: "local-1", AuthorId: "u1", Content: "injected", CreatedAt: time.Now()})
	o.TombstonePost("p1")
	o.SetLikeOverride("p2", true)

	snap := serverSnap(
		&model.Post{Id: "p1", AuthorId: "u2", Content: "to hide", CreatedAt: time.Now()},
		&model.Post{Id: "p2", AuthorId: "u2", Content: "to like", CreatedAt: time.Now()},
	)
	merged := o.Merge(snap)

	assert.Len(t, snap.Posts, 2)
	assert.Empty(t, snap.Likes)
	assert.Len(t, merged.Snap.Posts, 2) // p2 plus the injected local post
	assert.Len(t, merged.Snap.Likes, 1)
}

func TestStateSurvivesRestart(t *testing.T) {
	o, store := newTestOverlay()
	o.AddPendingPost(&model.Post{Id: "local-1", AuthorId: "u1", Content: "durable", CreatedAt: time.Now()})
	o.TombstonePost("p9")

	// Close drains the persist queue, saves land in mutation order.
	o.Close()
	assert.Equal(t, 2, store.saveCount())

	restarted := New("u1", store)
	merged := restarted.Merge(serverSnap(&model.Post{Id: "p9", AuthorId: "u2", Content: "old", CreatedAt: time.Now()}))

	assert.True(t, merged.PendingPosts["local-1"])
	assert.Len(t, merged.Snap.Posts, 1)
	assert.Equal(t, "local-1", merged.Snap.Posts[0].Id)
}

func TestPendingCounts(t *testing.T) {
	o, _ := newTestOverlay()
	o.AddPendingPost(&model.Post{Id: "local-1", AuthorId: "u1", CreatedAt: time.Now()})
	o.SetLikeOverride("p1", true)
	o.SetFollowOverride("u2", false)
	o.AddOutboxMessage(&model.Message{Id: "local-m1", SenderId: "u1", RecipientId: "u2"})

	posts, comments, overrides, outbox := o.PendingCounts()
	assert.Equal(t, 1, posts)
	assert.Equal(t, 0, comments)
	assert.Equal(t, 2, overrides)
	assert.Equal(t, 1, outbox)
}
