package model

/*
	Tombstones are one-way local hides. Once an id lands in a set the
	record stays invisible no matter what later snapshots carry; the sets
	only grow. Blocks are the single exception, an unblock removes the
	entry again.
*/
type Tombstones struct {
	Posts         map[string]bool
	Comments      map[string]bool
	Notifications map[string]bool
	Blocked       map[string]bool
}

func NewTombstones() *Tombstones {
	return &Tombstones{
		Posts:         map[string]bool{},
		Comments:      map[string]bool{},
		Notifications: map[string]bool{},
		Blocked:       map[string]bool{},
	}
}

// Normalize backfills nil maps after a JSON round trip so callers can
// index without guarding.
func (t *Tombstones) Normalize() {
	if t.Posts == nil {
		t.Posts = map[string]bool{}
	}
	if t.Comments == nil {
		t.Comments = map[string]bool{}
	}
	if t.Notifications == nil {
		t.Notifications = map[string]bool{}
	}
	if t.Blocked == nil {
		t.Blocked = map[string]bool{}
	}
}
