// Package projector renders client-facing views from an effective
// dataset. Everything here is a pure function of its Input: no clocks,
// no locks, no mutation of the records passed in. The overlay has
// already merged local writes into the snapshot by the time it gets
// here, so the projector does not know or care which records came from
// the server and which were injected, beyond the pending id sets used
// to flag them in views.
package projector

import (
	"time"

	"github.com/gridfeed/gridfeed/model"
)

// Input is one consistent world to project from.
type Input struct {
	Snap     *model.Snapshot
	ViewerId string
	Now      time.Time

	// Ids of locally injected records, for the Pending view flag.
	PendingPosts    map[string]bool
	PendingComments map[string]bool
}

// joined holds the per-projection index maps plus row slices deduped by
// id, first occurrence wins. Built once per call; retried writes can
// append the same row twice, so nothing downstream reads the raw
// snapshot slices directly.
type joined struct {
	in              Input
	accounts        []*model.Account
	accountById     map[string]*model.Account
	accountByHandle map[string]*model.Account
	posts           []*model.Post
	postById        map[string]*model.Post
	commentsByPost  map[string][]*model.Comment
	likesByPost     map[string][]*model.Like
	notifications   []*model.Notification
	messages        []*model.Message
	follows         map[string]map[string]bool
	blocks          map[string]map[string]bool
	banByHandle     map[string]*model.BanRecord
	viewerLikes     map[string]bool
}

func newJoined(in Input) *joined {
	j := &joined{
		in:              in,
		accountById:     map[string]*model.Account{},
		accountByHandle: map[string]*model.Account{},
		postById:        map[string]*model.Post{},
		commentsByPost:  map[string][]*model.Comment{},
		likesByPost:     map[string][]*model.Like{},
		follows:         map[string]map[string]bool{},
		blocks:          map[string]map[string]bool{},
		banByHandle:     map[string]*model.BanRecord{},
		viewerLikes:     map[string]bool{},
	}
	for _, account := range in.Snap.Accounts {
		if _, dup := j.accountById[account.Id]; dup {
			continue
		}
		j.accountById[account.Id] = account
		j.accounts = append(j.accounts, account)
		if _, taken := j.accountByHandle[account.Handle]; !taken {
			j.accountByHandle[account.Handle] = account
		}
	}
	for _, post := range in.Snap.Posts {
		if _, dup := j.postById[post.Id]; !dup {
			j.postById[post.Id] = post
			j.posts = append(j.posts, post)
		}
	}
	seenComments := map[string]bool{}
	for _, comment := range in.Snap.Comments {
		if seenComments[comment.Id] {
			continue
		}
		seenComments[comment.Id] = true
		j.commentsByPost[comment.PostId] = append(j.commentsByPost[comment.PostId], comment)
	}
	seenLikes := map[[2]string]bool{}
	for _, like := range in.Snap.Likes {
		if seenLikes[[2]string{like.PostId, like.AccountId}] {
			continue
		}
		seenLikes[[2]string{like.PostId, like.AccountId}] = true
		j.likesByPost[like.PostId] = append(j.likesByPost[like.PostId], like)
		if like.AccountId == in.ViewerId {
			j.viewerLikes[like.PostId] = true
		}
	}
	seenNotifications := map[string]bool{}
	for _, notification := range in.Snap.Notifications {
		if seenNotifications[notification.Id] {
			continue
		}
		seenNotifications[notification.Id] = true
		j.notifications = append(j.notifications, notification)
	}
	seenMessages := map[string]bool{}
	for _, message := range in.Snap.Messages {
		if seenMessages[message.Id] {
			continue
		}
		seenMessages[message.Id] = true
		j.messages = append(j.messages, message)
	}
	for _, follow := range in.Snap.Follows {
		if j.follows[follow.FollowerId] == nil {
			j.follows[follow.FollowerId] = map[string]bool{}
		}
		j.follows[follow.FollowerId][follow.TargetId] = true
	}
	for _, block := range in.Snap.Blocks {
		if j.blocks[block.BlockerId] == nil {
			j.blocks[block.BlockerId] = map[string]bool{}
		}
		j.blocks[block.BlockerId][block.TargetId] = true
	}
	for _, ban := range in.Snap.Bans {
		if ban.Active(in.Now) {
			j.banByHandle[ban.Handle] = ban
		}
	}
	return j
}

// account resolves an id, substituting a placeholder when the accounts
// tab lags behind whatever referenced it.
func (j *joined) account(id string) *model.Account {
	if account, ok := j.accountById[id]; ok {
		return account
	}
	return model.PlaceholderAccount(id)
}

func (j *joined) followsEdge(from string, to string) bool {
	return j.follows[from][to]
}

func (j *joined) mutualFollow(a string, b string) bool {
	return j.followsEdge(a, b) && j.followsEdge(b, a)
}

func (j *joined) blockedEither(a string, b string) bool {
	return j.blocks[a][b] || j.blocks[b][a]
}

func (j *joined) banned(account *model.Account) bool {
	return j.banByHandle[account.Handle] != nil
}

func (j *joined) relationship(otherId string) model.Relationship {
	return model.RelationshipOf(
		j.followsEdge(j.in.ViewerId, otherId),
		j.followsEdge(otherId, j.in.ViewerId),
	)
}

// canSeePostsOf applies the account-level gates: bans hide an author
// from everyone including themselves, blocks hide in both directions,
// a private account opens only to mutual followers, and public accounts
// gate by their visibility setting. Authors always pass their own gates.
func (j *joined) canSeePostsOf(author *model.Account) bool {
	if j.banned(author) {
		return false
	}
	if author.Id == j.in.ViewerId {
		return true
	}
	if j.blockedEither(j.in.ViewerId, author.Id) {
		return false
	}
	if author.Privacy == model.PrivacyPrivate {
		return j.mutualFollow(j.in.ViewerId, author.Id)
	}
	switch author.Visibility {
	case model.VisibilityFollowers:
		return j.followsEdge(j.in.ViewerId, author.Id)
	case model.VisibilityFriends:
		return j.mutualFollow(j.in.ViewerId, author.Id)
	}
	return true
}

// visiblePost is the post-level gate on top of canSeePostsOf.
func (j *joined) visiblePost(post *model.Post) bool {
	if post.StoryExpired(j.in.Now) {
		return false
	}
	return j.canSeePostsOf(j.account(post.AuthorId))
}
