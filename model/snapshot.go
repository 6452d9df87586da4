package model

import "time"

/*
	Snapshot is one full read of the tabular source, already decoded into
	typed records. It is immutable once built: the projector and overlay
	read it concurrently and never write into it.

	SourceErrors records per-tab fetch or parse failures. A snapshot with
	errors is still usable, the affected collections just keep their
	previous contents (the engine splices them in before publishing).
*/
type Snapshot struct {
	FetchedAt     time.Time
	Accounts      []*Account
	Posts         []*Post
	Comments      []*Comment
	Likes         []*Like
	Follows       []*Follow
	Blocks        []*Block
	Bans          []*BanRecord
	Messages      []*Message
	Notifications []*Notification
	Photos        []*Photo
	Status        *PlatformStatus
	SourceErrors  map[string]string
}

func NewSnapshot(fetchedAt time.Time) *Snapshot {
	return &Snapshot{
		FetchedAt:    fetchedAt,
		SourceErrors: map[string]string{},
	}
}
