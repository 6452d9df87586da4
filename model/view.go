package model

import "time"

type FeedKind string

const (
	FeedKindFollowing FeedKind = "following"
	FeedKindForYou    FeedKind = "foryou"
)

/*
	View models are what the projector hands to the HTTP facade. They are
	fully joined and fully filtered: a view never references an id the
	client would have to resolve itself, and never contains a record the
	viewer is not allowed to see. Pending marks records injected from the
	overlay so clients can grey them out.
*/

type PostView struct {
	Id             string         `json:"id"`
	Author         *Account       `json:"author"`
	Content        string         `json:"content"`
	Caption        string         `json:"caption"`
	MediaUrls      []string       `json:"media_urls,omitempty"`
	Hashtags       []string       `json:"hashtags,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	IsStory        bool           `json:"is_story"`
	StoryExpiresAt *time.Time     `json:"story_expires_at,omitempty"`
	LikeCount      int            `json:"like_count"`
	LikedByViewer  bool           `json:"liked_by_viewer"`
	Comments       []*CommentView `json:"comments"`
	Pending        bool           `json:"pending"`
}

type CommentView struct {
	Id        string    `json:"id"`
	PostId    string    `json:"post_id"`
	Author    *Account  `json:"author"`
	Text      string    `json:"text"`
	MediaUrl  string    `json:"media_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Pending   bool      `json:"pending"`
}

type FeedView struct {
	Kind        FeedKind    `json:"kind"`
	GeneratedAt time.Time   `json:"generated_at"`
	Posts       []*PostView `json:"posts"`
}

type ProfileView struct {
	Account         *Account     `json:"account"`
	FollowerCount   int          `json:"follower_count"`
	FollowingCount  int          `json:"following_count"`
	TotalLikes      int          `json:"total_likes"`
	Relationship    Relationship `json:"relationship"`
	BlockedByViewer bool         `json:"blocked_by_viewer"`
	Banned          bool         `json:"banned"`
	Posts           []*PostView  `json:"posts"`
}

type MessageView struct {
	Id       string         `json:"id"`
	SenderId string         `json:"sender_id"`
	Text     string         `json:"text"`
	SentAt   time.Time      `json:"sent_at"`
	Read     bool           `json:"read"`
	Mine     bool           `json:"mine"`
	Delivery DeliveryStatus `json:"delivery"`
}

type ConversationView struct {
	PartnerId   string         `json:"partner_id"`
	Partner     *Account       `json:"partner"`
	Messages    []*MessageView `json:"messages"`
	LastMessage *MessageView   `json:"last_message,omitempty"`
	UnreadCount int            `json:"unread_count"`
}

type NotificationView struct {
	Id        string           `json:"id"`
	Actor     *Account         `json:"actor"`
	Kind      NotificationKind `json:"kind"`
	PostId    string           `json:"post_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	Read      bool             `json:"read"`
}

type SearchView struct {
	Query    string         `json:"query"`
	Accounts []*ProfileView `json:"accounts"`
	Posts    []*PostView    `json:"posts"`
}

type StatusView struct {
	State     string     `json:"state"`
	Message   string     `json:"message,omitempty"`
	Ban       *BanRecord `json:"ban,omitempty"`
	FetchedAt time.Time  `json:"fetched_at"`
}
