package model

import "time"

/*
	Pending mutations are local writes that have been queued (and possibly
	already sent) but not yet observed in a snapshot. Each kind carries a
	visibility TTL: once it elapses the overlay stops injecting the record
	and defers to whatever the server says. The TTLs are sized to the
	worst propagation delay seen in practice for each table, plus slack.
*/
const (
	PendingPostTTL    = 15 * time.Minute
	PendingCommentTTL = 5 * time.Minute
	PendingLikeTTL    = 10 * time.Minute
	PendingFollowTTL  = 10 * time.Minute
)

// Match windows for adopting a server row as the confirmation of a
// pending record. Wider than the TTLs would allow double-rendering, so
// they are kept equal to the corresponding TTL.
const (
	PostMatchWindow    = PendingPostTTL
	CommentMatchWindow = PendingCommentTTL
)

// PendingPost wraps a locally created post until the read source echoes
// it back. The wrapped Post carries a client-generated id.
type PendingPost struct {
	Post       *Post
	EnqueuedAt time.Time
}

func (p *PendingPost) Expired(now time.Time) bool {
	return now.Sub(p.EnqueuedAt) > PendingPostTTL
}

// Matches reports whether a server row is this pending post, confirmed.
// The server assigns its own id, so identity is author plus content plus
// a bounded creation window.
func (p *PendingPost) Matches(server *Post) bool {
	if server.AuthorId != p.Post.AuthorId || server.Content != p.Post.Content {
		return false
	}
	delta := server.CreatedAt.Sub(p.Post.CreatedAt)
	if delta < 0 {
		delta = -delta
	}
	return delta <= PostMatchWindow
}

type PendingComment struct {
	Comment    *Comment
	EnqueuedAt time.Time
}

func (c *PendingComment) Expired(now time.Time) bool {
	return now.Sub(c.EnqueuedAt) > PendingCommentTTL
}

func (c *PendingComment) Matches(server *Comment) bool {
	if server.PostId != c.Comment.PostId ||
		server.AuthorId != c.Comment.AuthorId ||
		server.Text != c.Comment.Text {
		return false
	}
	delta := server.CreatedAt.Sub(c.Comment.CreatedAt)
	if delta < 0 {
		delta = -delta
	}
	return delta <= CommentMatchWindow
}

// PendingLikeOverride pins the viewer's like state for one post. Liked
// false is an unlike that must mask a server row that still lists the
// like.
type PendingLikeOverride struct {
	PostId     string
	Liked      bool
	EnqueuedAt time.Time
}

func (o *PendingLikeOverride) Expired(now time.Time) bool {
	return now.Sub(o.EnqueuedAt) > PendingLikeTTL
}

// PendingFollowOverride pins the viewer's follow state for one account.
type PendingFollowOverride struct {
	TargetId   string
	Following  bool
	EnqueuedAt time.Time
}

func (o *PendingFollowOverride) Expired(now time.Time) bool {
	return now.Sub(o.EnqueuedAt) > PendingFollowTTL
}
