package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPendingPostExpiry(t *testing.T) {
	enqueued := time.Now()
	pending := &PendingPost{
		Post:       &Post{Id: "local-1", AuthorId: "u1", Content: "hello", CreatedAt: enqueued},
		EnqueuedAt: enqueued,
	}

	assert.False(t, pending.Expired(enqueued.Add(PendingPostTTL)))
	assert.True(t, pending.Expired(enqueued.Add(PendingPostTTL+time.Second)))
}

func TestPendingPostMatches(t *testing.T) {
	created := time.Now()
	pending := &PendingPost{
		Post:       &Post{Id: "local-1", AuthorId: "u1", Content: "hello", CreatedAt: created},
		EnqueuedAt: created,
	}

	assert.True(t, pending.Matches(&Post{
		Id: "srv-9", AuthorId: "u1", Content: "hello", CreatedAt: created.Add(3 * time.Minute)}))
	// Server clock may run behind the client clock.
	assert.True(t, pending.Matches(&Post{
		Id: "srv-9", AuthorId: "u1", Content: "hello", CreatedAt: created.Add(-time.Minute)}))
	assert.False(t, pending.Matches(&Post{
		Id: "srv-9", AuthorId: "u2", Content: "hello", CreatedAt: created}))
	assert.False(t, pending.Matches(&Post{
		Id: "srv-9", AuthorId: "u1", Content: "hello!", CreatedAt: created}))
	assert.False(t, pending.Matches(&Post{
		Id: "srv-9", AuthorId: "u1", Content: "hello", CreatedAt: created.Add(PostMatchWindow + time.Minute)}))
}

func TestPendingCommentMatches(t *testing.T) {
	created := time.Now()
	pending := &PendingComment{
		Comment:    &Comment{Id: "local-2", PostId: "p1", AuthorId: "u1", Text: "nice", CreatedAt: created},
		EnqueuedAt: created,
	}

	assert.True(t, pending.Matches(&Comment{
		Id: "srv-3", PostId: "p1", AuthorId: "u1", Text: "nice", CreatedAt: created.Add(time.Minute)}))
	assert.False(t, pending.Matches(&Comment{
		Id: "srv-3", PostId: "p2", AuthorId: "u1", Text: "nice", CreatedAt: created}))
	assert.False(t, pending.Matches(&Comment{
		Id: "srv-3", PostId: "p1", AuthorId: "u1", Text: "nice", CreatedAt: created.Add(CommentMatchWindow + time.Minute)}))
}

func TestOverrideExpiry(t *testing.T) {
	enqueued := time.Now()
	like := &PendingLikeOverride{PostId: "p1", Liked: true, EnqueuedAt: enqueued}
	follow := &PendingFollowOverride{TargetId: "u2", Following: false, EnqueuedAt: enqueued}

	assert.False(t, like.Expired(enqueued.Add(PendingLikeTTL)))
	assert.True(t, like.Expired(enqueued.Add(PendingLikeTTL+time.Second)))
	assert.False(t, follow.Expired(enqueued.Add(PendingFollowTTL)))
	assert.True(t, follow.Expired(enqueued.Add(PendingFollowTTL+time.Second)))
}
