package projector

import (
	"time"

	"github.com/gridfeed/gridfeed/model"
)

// The shared test world, projected from alice's (u1) point of view.
//
//	u2 bob    friends with alice
//	u3 carol  followers-only posts, alice does not follow
//	u4 dan    friends-only posts, alice follows but not mutual
//	u5 eve    banned
//	u6 frank  blocks alice (alice follows him regardless)
//	u7 grace  private profile, alice does not follow
//	u9        referenced by a post but has no account row
var worldNow = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time {
	return worldNow.Add(d)
}

func newWorld() Input {
	snap := model.NewSnapshot(worldNow)
	snap.Accounts = []*model.Account{
		{Id: "u1", Handle: "alice", DisplayName: "Alice", Visibility: model.VisibilityEveryone, Privacy: model.PrivacyPublic},
		{Id: "u2", Handle: "bob", DisplayName: "Bob", Visibility: model.VisibilityEveryone, Privacy: model.PrivacyPublic},
		{Id: "u3", Handle: "carol", DisplayName: "Carol", Visibility: model.VisibilityFollowers, Privacy: model.PrivacyPublic},
		{Id: "u4", Handle: "dan", DisplayName: "Dan", Visibility: model.VisibilityFriends, Privacy: model.PrivacyPublic},
		{Id: "u5", Handle: "eve", DisplayName: "Eve", Visibility: model.VisibilityEveryone, Privacy: model.PrivacyPublic},
		{Id: "u6", Handle: "frank", DisplayName: "Frank", Visibility: model.VisibilityEveryone, Privacy: model.PrivacyPublic},
		{Id: "u7", Handle: "grace", DisplayName: "Grace", Visibility: model.VisibilityEveryone, Privacy: model.PrivacyPrivate},
	}
	snap.Follows = []*model.Follow{
		{FollowerId: "u1", TargetId: "u2"},
		{FollowerId: "u2", TargetId: "u1"},
		{FollowerId: "u1", TargetId: "u4"},
		{FollowerId: "u1", TargetId: "u5"},
		{FollowerId: "u1", TargetId: "u6"},
		{FollowerId: "u3", TargetId: "u2"},
	}
	snap.Blocks = []*model.Block{
		{BlockerId: "u6", TargetId: "u1"},
	}
	snap.Bans = []*model.BanRecord{
		{Handle: "eve", Reason: "spam"},
	}
	snap.Posts = []*model.Post{
		{Id: "p1", AuthorId: "u2", Content: "hello world #go", CreatedAt: at(-time.Hour)},
		{Id: "p2", AuthorId: "u2", Content: "[media|https://cdn.example.com/cat.jpg] cat", CreatedAt: at(-2 * time.Hour)},
		{Id: "p3", AuthorId: "u3", Content: "followers only", CreatedAt: at(-time.Hour)},
		{Id: "p4", AuthorId: "u4", Content: "friends only", CreatedAt: at(-time.Hour)},
		{Id: "p5", AuthorId: "u5", Content: "banned author", CreatedAt: at(-time.Hour)},
		{Id: "p6", AuthorId: "u6", Content: "blocker author", CreatedAt: at(-30 * time.Minute)},
		{Id: "p7", AuthorId: "u1", Content: "my own post", CreatedAt: at(-3 * time.Hour)},
		{Id: "p8", AuthorId: "u2", Content: "old news", CreatedAt: at(-48 * time.Hour)},
		{Id: "p9", AuthorId: "u9", Content: "from a ghost", CreatedAt: at(-30 * time.Minute)},
		{Id: "p10", AuthorId: "u2", Content: "stale story", CreatedAt: at(-25 * time.Hour), IsStory: true},
		{Id: "p11", AuthorId: "u2", Content: "fresh story", CreatedAt: at(-time.Hour), IsStory: true},
	}
	snap.Comments = []*model.Comment{
		{Id: "c2", PostId: "p1", AuthorId: "u1", Text: "second", CreatedAt: at(-30 * time.Minute)},
		{Id: "c1", PostId: "p1", AuthorId: "u2", Text: "first", CreatedAt: at(-45 * time.Minute)},
		{Id: "c3", PostId: "p1", AuthorId: "u5", Text: "from banned", CreatedAt: at(-20 * time.Minute)},
	}
	snap.Likes = []*model.Like{
		{PostId: "p1", AccountId: "u1"},
		{PostId: "p1", AccountId: "u2"},
		{PostId: "p7", AccountId: "u2"},
	}
	snap.Messages = []*model.Message{
		{Id: "m1", SenderId: "u2", RecipientId: "u1", Content: model.EncodeBody("hey alice"), CreatedAt: at(-2 * time.Hour)},
		{Id: "m2", SenderId: "u1", RecipientId: "u2", Content: model.EncodeBody("yo bob"), CreatedAt: at(-time.Hour)},
		{Id: "m3", SenderId: "u6", RecipientId: "u1", Content: model.EncodeBody("unwanted"), CreatedAt: at(-time.Minute)},
		{Id: "m4", SenderId: "u3", RecipientId: "u1", Content: model.EncodeBody("hi from carol"), CreatedAt: at(-30 * time.Minute)},
	}
	snap.Notifications = []*model.Notification{
		{Id: "n1", RecipientId: "u1", ActorId: "u2", Kind: model.NotificationLike, PostId: "p7", CreatedAt: at(-time.Hour)},
		{Id: "n2", RecipientId: "u1", ActorId: "u6", Kind: model.NotificationFollow, CreatedAt: at(-2 * time.Hour)},
		{Id: "n3", RecipientId: "u1", ActorId: "u5", Kind: model.NotificationComment, PostId: "p7", CreatedAt: at(-3 * time.Hour)},
		{Id: "n4", RecipientId: "u2", ActorId: "u1", Kind: model.NotificationLike, PostId: "p1", CreatedAt: at(-time.Hour)},
		{Id: "n5", RecipientId: "u1", ActorId: "u2", Kind: model.NotificationComment, PostId: "p3", CreatedAt: at(-30 * time.Minute)},
	}
	return Input{
		Snap:            snap,
		ViewerId:        "u1",
		Now:             worldNow,
		PendingPosts:    map[string]bool{},
		PendingComments: map[string]bool{},
	}
}

func postIds(views []*model.PostView) []string {
	ids := make([]string, 0, len(views))
	for _, view := range views {
		ids = append(ids, view.Id)
	}
	return ids
}
