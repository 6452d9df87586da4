package model

import "time"

// StoryLifetime is how long a story post stays visible after creation.
const StoryLifetime = 24 * time.Hour

/*
	Post is a feed entry. Content is the raw markup as stored in the read
	source: it may carry #hashtag tokens and [media|url] references, which
	stay inline here and are only expanded when a view is projected.
*/
type Post struct {
	Id        string
	AuthorId  string
	Content   string
	CreatedAt time.Time
	IsStory   bool
}

// StoryExpired reports whether a story post has outlived its window.
// Regular posts never expire.
func (p *Post) StoryExpired(now time.Time) bool {
	return p.IsStory && now.After(p.CreatedAt.Add(StoryLifetime))
}
