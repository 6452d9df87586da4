package model

import "time"

/*
	BanRecord is a moderation entry keyed by the subject's handle. A nil
	Until marks a permanent ban. Banned accounts disappear from feeds and
	search for everyone; a banned viewer is told so on the status surface.
*/
type BanRecord struct {
	Handle string
	Reason string
	Until  *time.Time
}

// Active reports whether the ban is in force at the given instant.
func (b *BanRecord) Active(now time.Time) bool {
	if b == nil {
		return false
	}
	return b.Until == nil || now.Before(*b.Until)
}
