package model

import "time"

// Comment is a reply attached to a post. MediaUrl is optional and holds
// at most one attachment.
type Comment struct {
	Id        string
	PostId    string
	AuthorId  string
	Text      string
	MediaUrl  string
	CreatedAt time.Time
}
