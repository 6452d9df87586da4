package projector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gridfeed/gridfeed/model"
)

func TestProfileCountsAndRelationship(t *testing.T) {
	profile := Profile(newWorld(), "bob")

	assert.NotNil(t, profile)
	assert.Equal(t, "u2", profile.Account.Id)
	// u1 and u3 follow bob, bob follows u1.
	assert.Equal(t, 2, profile.FollowerCount)
	assert.Equal(t, 1, profile.FollowingCount)
	// Likes on bob's posts: two on p1.
	assert.Equal(t, 2, profile.TotalLikes)
	assert.Equal(t, model.RelationshipFriends, profile.Relationship)
	assert.Equal(t, []string{"p11", "p1", "p2", "p8"}, postIds(profile.Posts))
}

func TestProfileUnknownHandle(t *testing.T) {
	assert.Nil(t, Profile(newWorld(), "nobody"))
}

func TestProfileBannedAccountGone(t *testing.T) {
	assert.Nil(t, Profile(newWorld(), "eve"))
}

func TestProfileOwnerBlockedViewer(t *testing.T) {
	assert.Nil(t, Profile(newWorld(), "frank"))
}

func TestProfilePrivateClosedToStrangers(t *testing.T) {
	in := newWorld()
	in.Snap.Posts = append(in.Snap.Posts, &model.Post{
		Id: "p20", AuthorId: "u7", Content: "private life", CreatedAt: at(-1),
	})

	profile := Profile(in, "grace")
	assert.NotNil(t, profile)
	assert.Empty(t, profile.Posts)
	assert.Equal(t, model.RelationshipNone, profile.Relationship)
}

func TestProfilePrivateStaysClosedOnOneWayFollow(t *testing.T) {
	in := newWorld()
	in.Snap.Posts = append(in.Snap.Posts, &model.Post{
		Id: "p20", AuthorId: "u7", Content: "private life", CreatedAt: at(-1),
	})

	// Viewer follows the private account, not followed back.
	in.Snap.Follows = append(in.Snap.Follows, &model.Follow{FollowerId: "u1", TargetId: "u7"})
	profile := Profile(in, "grace")
	assert.NotNil(t, profile)
	assert.Equal(t, model.RelationshipFollowing, profile.Relationship)
	assert.Empty(t, profile.Posts)

	// The private account follows the viewer, viewer never followed.
	in = newWorld()
	in.Snap.Posts = append(in.Snap.Posts, &model.Post{
		Id: "p20", AuthorId: "u7", Content: "private life", CreatedAt: at(-1),
	})
	in.Snap.Follows = append(in.Snap.Follows, &model.Follow{FollowerId: "u7", TargetId: "u1"})
	profile = Profile(in, "grace")
	assert.NotNil(t, profile)
	assert.Equal(t, model.RelationshipFollowsYou, profile.Relationship)
	assert.Empty(t, profile.Posts)
}

func TestProfilePrivateOpensToMutuals(t *testing.T) {
	in := newWorld()
	in.Snap.Posts = append(in.Snap.Posts, &model.Post{
		Id: "p20", AuthorId: "u7", Content: "private life", CreatedAt: at(-1),
	})
	in.Snap.Follows = append(in.Snap.Follows,
		&model.Follow{FollowerId: "u1", TargetId: "u7"},
		&model.Follow{FollowerId: "u7", TargetId: "u1"})

	profile := Profile(in, "grace")
	assert.NotNil(t, profile)
	assert.Equal(t, model.RelationshipFriends, profile.Relationship)
	assert.Equal(t, []string{"p20"}, postIds(profile.Posts))
}

func TestProfileOwnPageWhileRelationshipNone(t *testing.T) {
	profile := Profile(newWorld(), "alice")

	assert.NotNil(t, profile)
	assert.Equal(t, []string{"p7"}, postIds(profile.Posts))
	assert.Equal(t, model.RelationshipNone, profile.Relationship)
}
