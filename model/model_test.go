package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelationshipOf(t *testing.T) {
	assert.Equal(t, RelationshipFriends, RelationshipOf(true, true))
	assert.Equal(t, RelationshipFollowing, RelationshipOf(true, false))
	assert.Equal(t, RelationshipFollowsYou, RelationshipOf(false, true))
	assert.Equal(t, RelationshipNone, RelationshipOf(false, false))
}

func TestBanRecordActive(t *testing.T) {
	now := time.Now()
	until := now.Add(time.Hour)
	expired := now.Add(-time.Hour)

	assert.True(t, (&BanRecord{Handle: "spammer"}).Active(now))
	assert.True(t, (&BanRecord{Handle: "spammer", Until: &until}).Active(now))
	assert.False(t, (&BanRecord{Handle: "spammer", Until: &expired}).Active(now))

	var none *BanRecord
	assert.False(t, none.Active(now))
}

func TestMessageBodyRoundTrip(t *testing.T) {
	msg := &Message{Content: EncodeBody("hello, with a comma\nand a newline")}
	assert.Equal(t, "hello, with a comma\nand a newline", msg.DecodeBody())

	// Legacy rows stored plain text before the encoding was introduced.
	legacy := &Message{Content: "plain & not base64!"}
	assert.Equal(t, "plain & not base64!", legacy.DecodeBody())
}

func TestStoryExpired(t *testing.T) {
	created := time.Now()
	story := &Post{Id: "p1", IsStory: true, CreatedAt: created}
	regular := &Post{Id: "p2", CreatedAt: created}

	assert.False(t, story.StoryExpired(created.Add(23*time.Hour)))
	assert.True(t, story.StoryExpired(created.Add(25*time.Hour)))
	assert.False(t, regular.StoryExpired(created.Add(100*time.Hour)))
}

func TestParseEnums(t *testing.T) {
	assert.Equal(t, VisibilityEveryone, ParseVisibility(""))
	assert.Equal(t, VisibilityEveryone, ParseVisibility("garbage"))
	assert.Equal(t, VisibilityFollowers, ParseVisibility("followers"))
	assert.Equal(t, VisibilityFriends, ParseVisibility("friends"))
	assert.Equal(t, PrivacyPublic, ParsePrivacy(""))
	assert.Equal(t, PrivacyPrivate, ParsePrivacy("private"))
}

func TestLocalStateNormalize(t *testing.T) {
	state := &LocalState{}
	state.Normalize()

	assert.NotNil(t, state.LikeOverrides)
	assert.NotNil(t, state.FollowOverrides)
	assert.NotNil(t, state.Tombstones)
	assert.NotNil(t, state.Tombstones.Blocked)
}
