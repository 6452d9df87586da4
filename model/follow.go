package model

import "time"

// Follow is a directed edge: follower watches target.
type Follow struct {
	FollowerId string
	TargetId   string
	CreatedAt  time.Time
}

// Relationship describes the edge pair between the viewer and another
// account, as rendered on profiles and in search results.
type Relationship string

const (
	RelationshipNone       Relationship = "none"
	RelationshipFollowing  Relationship = "following"
	RelationshipFollowsYou Relationship = "follows_you"
	RelationshipFriends    Relationship = "friends"
)

// RelationshipOf combines the two edge directions into a single state.
func RelationshipOf(viewerFollows, followsViewer bool) Relationship {
	switch {
	case viewerFollows && followsViewer:
		return RelationshipFriends
	case viewerFollows:
		return RelationshipFollowing
	case followsViewer:
		return RelationshipFollowsYou
	default:
		return RelationshipNone
	}
}
