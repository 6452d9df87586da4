package model

/*
	LocalState is everything the overlay persists across restarts. The
	outbox is deliberately absent: unconfirmed direct messages only live
	for the session, a restart forgets them rather than resending.
*/
type LocalState struct {
	PendingPosts    []*PendingPost
	PendingComments []*PendingComment
	LikeOverrides   map[string]*PendingLikeOverride
	FollowOverrides map[string]*PendingFollowOverride
	Tombstones      *Tombstones
}

func NewLocalState() *LocalState {
	return &LocalState{
		LikeOverrides:   map[string]*PendingLikeOverride{},
		FollowOverrides: map[string]*PendingFollowOverride{},
		Tombstones:      NewTombstones(),
	}
}

// Normalize backfills nil containers after deserialization.
func (s *LocalState) Normalize() {
	if s.LikeOverrides == nil {
		s.LikeOverrides = map[string]*PendingLikeOverride{}
	}
	if s.FollowOverrides == nil {
		s.FollowOverrides = map[string]*PendingFollowOverride{}
	}
	if s.Tombstones == nil {
		s.Tombstones = NewTombstones()
	}
	s.Tombstones.Normalize()
}
