package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gridfeed/gridfeed/model"
)

func TestDecodeAccounts(t *testing.T) {
	table := &Table{
		Source: "accounts",
		Header: []string{"User ID", "Username", "Name", "Verified", "Visibility", "Privacy"},
		Rows: [][]string{
			{"u1", "alice", "Alice", "TRUE", "followers", "private"},
			{"u2", "bob", "Bob", "", "bogus", ""},
			{"u1", "alice_dup", "Duplicate", "", "", ""},
			{"", "ghost", "No Id", "", "", ""},
		},
	}

	accounts, err := DecodeAccounts(table)
	assert.Nil(t, err)
	assert.Len(t, accounts, 2)

	assert.Equal(t, "alice", accounts[0].Handle)
	assert.True(t, accounts[0].Verified)
	assert.Equal(t, model.VisibilityFollowers, accounts[0].Visibility)
	assert.Equal(t, model.PrivacyPrivate, accounts[0].Privacy)

	// Unknown enum cells fall back to the permissive defaults.
	assert.Equal(t, model.VisibilityEveryone, accounts[1].Visibility)
	assert.Equal(t, model.PrivacyPublic, accounts[1].Privacy)
}

func TestDecodePostsFirstIdWins(t *testing.T) {
	table := &Table{
		Source: "posts",
		Header: []string{"id", "author", "content", "created_at", "story"},
		Rows: [][]string{
			{"p1", "u1", "first", "2026-08-20T10:00:00Z", ""},
			{"p1", "u2", "second copy", "2026-08-20T11:00:00Z", ""},
			{"p2", "u1", "a story", "2026-08-20T12:00:00Z", "yes"},
		},
	}

	posts, err := DecodePosts(table)
	assert.Nil(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, "first", posts[0].Content)
	assert.True(t, posts[1].IsStory)
}

func TestDecodePostsBadTimestamp(t *testing.T) {
	table := &Table{
		Source: "posts",
		Header: []string{"id", "author", "content", "created_at"},
		Rows:   [][]string{{"p1", "u1", "hello", "not a date"}},
	}

	posts, err := DecodePosts(table)
	assert.Nil(t, err)
	assert.Len(t, posts, 1)
	assert.True(t, posts[0].CreatedAt.IsZero())
}

func TestDecodeLikesCollapsesDuplicatePairs(t *testing.T) {
	table := &Table{
		Source: "likes",
		Header: []string{"post_id", "user"},
		Rows: [][]string{
			{"p1", "u1"},
			{"p1", "u1"},
			{"p1", "u2"},
		},
	}

	likes, err := DecodeLikes(table)
	assert.Nil(t, err)
	assert.Len(t, likes, 2)
}

func TestDecodeFollowsSkipsSelfEdges(t *testing.T) {
	table := &Table{
		Source: "follows",
		Header: []string{"follower", "target"},
		Rows: [][]string{
			{"u1", "u2"},
			{"u1", "u1"},
		},
	}

	follows, err := DecodeFollows(table)
	assert.Nil(t, err)
	assert.Len(t, follows, 1)
	assert.Equal(t, "u2", follows[0].TargetId)
}

func TestDecodeBans(t *testing.T) {
	table := &Table{
		Source: "bans",
		Header: []string{"handle", "reason", "until"},
		Rows: [][]string{
			{"spammer", "spam", ""},
			{"troll", "abuse", "2026-09-01T00:00:00Z"},
		},
	}

	bans, err := DecodeBans(table)
	assert.Nil(t, err)
	assert.Len(t, bans, 2)
	assert.Nil(t, bans[0].Until)
	assert.NotNil(t, bans[1].Until)
	assert.Equal(t, time.September, bans[1].Until.Month())
}

func TestDecodeNotificationsSkipsUnknownKind(t *testing.T) {
	table := &Table{
		Source: "notifications",
		Header: []string{"id", "recipient", "actor", "kind", "post_id"},
		Rows: [][]string{
			{"n1", "u1", "u2", "LIKE", "p1"},
			{"n2", "u1", "u2", "poke", ""},
			{"n3", "u1", "u2", "follow", ""},
		},
	}

	notifications, err := DecodeNotifications(table)
	assert.Nil(t, err)
	assert.Len(t, notifications, 2)
	assert.Equal(t, model.NotificationLike, notifications[0].Kind)
	assert.Equal(t, model.NotificationFollow, notifications[1].Kind)
}

func TestDecodeMessagesMarkedSent(t *testing.T) {
	table := &Table{
		Source: "messages",
		Header: []string{"id", "sender", "recipient", "content", "read"},
		Rows:   [][]string{{"m1", "u1", "u2", model.EncodeBody("hi"), "true"}},
	}

	messages, err := DecodeMessages(table)
	assert.Nil(t, err)
	assert.Len(t, messages, 1)
	assert.Equal(t, model.DeliverySent, messages[0].Delivery)
	assert.True(t, messages[0].Read)
	assert.Equal(t, "hi", messages[0].DecodeBody())
}

func TestDecodeStatus(t *testing.T) {
	table := &Table{
		Source: "status",
		Header: []string{"state", "message"},
		Rows:   [][]string{{"DOWN", "weekly maintenance"}},
	}

	status, err := DecodeStatus(table)
	assert.Nil(t, err)
	assert.True(t, status.Down())
	assert.Equal(t, "weekly maintenance", status.Message)
}

func TestDecodeStatusEmptyTabMeansUp(t *testing.T) {
	table := &Table{
		Source: "status",
		Header: []string{"state", "message"},
	}

	status, err := DecodeStatus(table)
	assert.Nil(t, err)
	assert.Nil(t, status)
	assert.False(t, status.Down())
}

func TestDecodeMissingRequiredColumn(t *testing.T) {
	table := &Table{
		Source: "posts",
		Header: []string{"content", "created_at"},
		Rows:   [][]string{{"orphan", "2026-08-20"}},
	}

	_, err := DecodePosts(table)
	parseErr, ok := err.(*ParseError)
	assert.True(t, ok)
	assert.Equal(t, "posts", parseErr.Source)
}
