package snapshot

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/sirupsen/logrus"

	"github.com/gridfeed/gridfeed/model"
	Logger "github.com/gridfeed/gridfeed/utils/log"
)

var accountSchema = Schema{
	Name: "accounts",
	Columns: []Column{
		{Field: "id", Aliases: []string{"id", "account_id", "user_id", "uid"}, Required: true},
		{Field: "handle", Aliases: []string{"handle", "username", "user_name"}, Required: true},
		{Field: "display_name", Aliases: []string{"display_name", "displayname", "name"}},
		{Field: "avatar_url", Aliases: []string{"avatar_url", "avatar", "profile_pic", "picture"}},
		{Field: "bio", Aliases: []string{"bio", "about", "description"}},
		{Field: "verified", Aliases: []string{"verified", "is_verified"}},
		{Field: "is_admin", Aliases: []string{"is_admin", "admin"}},
		{Field: "visibility", Aliases: []string{"visibility", "post_visibility", "audience"}},
		{Field: "privacy", Aliases: []string{"privacy", "profile_privacy", "account_privacy"}},
		{Field: "created_at", Aliases: []string{"created_at", "created", "joined", "registered_at", "signup_date"}},
	},
}

var postSchema = Schema{
	Name: "posts",
	Columns: []Column{
		{Field: "id", Aliases: []string{"id", "post_id", "pid"}, Required: true},
		{Field: "author_id", Aliases: []string{"author_id", "author", "user_id", "user", "poster"}, Required: true},
		{Field: "content", Aliases: []string{"content", "text", "body", "message"}},
		{Field: "created_at", Aliases: []string{"created_at", "created", "timestamp", "time", "date", "posted_at"}},
		{Field: "is_story", Aliases: []string{"is_story", "story"}},
	},
}

var commentSchema = Schema{
	Name: "comments",
	Columns: []Column{
		{Field: "id", Aliases: []string{"id", "comment_id", "cid"}, Required: true},
		{Field: "post_id", Aliases: []string{"post_id", "post", "pid"}, Required: true},
		{Field: "author_id", Aliases: []string{"author_id", "author", "user_id", "user", "commenter"}, Required: true},
		{Field: "text", Aliases: []string{"text", "content", "comment", "body"}},
		{Field: "media_url", Aliases: []string{"media_url", "media", "image", "image_url", "attachment"}},
		{Field: "created_at", Aliases: []string{"created_at", "created", "timestamp", "time", "date"}},
	},
}

var likeSchema = Schema{
	Name: "likes",
	Columns: []Column{
		{Field: "post_id", Aliases: []string{"post_id", "post", "pid"}, Required: true},
		{Field: "account_id", Aliases: []string{"account_id", "account", "user_id", "user", "liker"}, Required: true},
		{Field: "created_at", Aliases: []string{"created_at", "created", "timestamp", "time", "liked_at"}},
	},
}

var followSchema = Schema{
	Name: "follows",
	Columns: []Column{
		{Field: "follower_id", Aliases: []string{"follower_id", "follower", "from", "source"}, Required: true},
		{Field: "target_id", Aliases: []string{"target_id", "target", "followee", "followed", "to"}, Required: true},
		{Field: "created_at", Aliases: []string{"created_at", "created", "timestamp", "time", "followed_at"}},
	},
}

var blockSchema = Schema{
	Name: "blocks",
	Columns: []Column{
		{Field: "blocker_id", Aliases: []string{"blocker_id", "blocker", "from", "source"}, Required: true},
		{Field: "target_id", Aliases: []string{"target_id", "target", "blocked", "to"}, Required: true},
		{Field: "created_at", Aliases: []string{"created_at", "created", "timestamp", "time", "blocked_at"}},
	},
}

var banSchema = Schema{
	Name: "bans",
	Columns: []Column{
		{Field: "handle", Aliases: []string{"handle", "username", "user", "account"}, Required: true},
		{Field: "reason", Aliases: []string{"reason", "note", "cause"}},
		{Field: "until", Aliases: []string{"until", "expires", "expires_at", "end", "end_date"}},
	},
}

var messageSchema = Schema{
	Name: "messages",
	Columns: []Column{
		{Field: "id", Aliases: []string{"id", "message_id", "mid"}, Required: true},
		{Field: "sender_id", Aliases: []string{"sender_id", "sender", "from", "from_id"}, Required: true},
		{Field: "recipient_id", Aliases: []string{"recipient_id", "recipient", "to", "to_id"}, Required: true},
		{Field: "content", Aliases: []string{"content", "body", "text", "message"}},
		{Field: "created_at", Aliases: []string{"created_at", "created", "sent_at", "timestamp", "time"}},
		{Field: "read", Aliases: []string{"read", "is_read", "seen"}},
	},
}

var notificationSchema = Schema{
	Name: "notifications",
	Columns: []Column{
		{Field: "id", Aliases: []string{"id", "notification_id", "nid"}, Required: true},
		{Field: "recipient_id", Aliases: []string{"recipient_id", "recipient", "user_id", "user", "to"}, Required: true},
		{Field: "actor_id", Aliases: []string{"actor_id", "actor", "from", "from_id"}, Required: true},
		{Field: "kind", Aliases: []string{"kind", "type", "action"}, Required: true},
		{Field: "post_id", Aliases: []string{"post_id", "post", "pid"}},
		{Field: "created_at", Aliases: []string{"created_at", "created", "timestamp", "time"}},
		{Field: "read", Aliases: []string{"read", "is_read", "seen"}},
	},
}

var photoSchema = Schema{
	Name: "photos",
	Columns: []Column{
		{Field: "id", Aliases: []string{"id", "photo_id"}, Required: true},
		{Field: "owner_id", Aliases: []string{"owner_id", "owner", "user_id", "user"}, Required: true},
		{Field: "url", Aliases: []string{"url", "photo_url", "image", "image_url", "link"}, Required: true},
		{Field: "caption", Aliases: []string{"caption", "title", "description"}},
		{Field: "created_at", Aliases: []string{"created_at", "created", "timestamp", "time", "uploaded_at"}},
	},
}

var statusSchema = Schema{
	Name: "status",
	Columns: []Column{
		{Field: "state", Aliases: []string{"state", "status", "platform_status"}, Required: true},
		{Field: "message", Aliases: []string{"message", "note", "reason", "detail"}},
	},
}

func parseCellBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y", "1":
		return true
	}
	return false
}

// parseCellTime is lenient about formats, the sheet mixes ISO dates,
// US-style dates and epoch seconds depending on who typed the row.
// Unparseable cells come back as the zero time so the record survives
// and just sorts last.
func parseCellTime(source string, raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	parsed, err := dateparse.ParseLocal(raw)
	if err != nil {
		Logger.Log.WithFields(logrus.Fields{"source": source}).
			Debugf("unparseable timestamp %q", raw)
		return time.Time{}
	}
	return parsed
}

func parseCellTimePtr(source string, raw string) *time.Time {
	if raw == "" {
		return nil
	}
	parsed := parseCellTime(source, raw)
	if parsed.IsZero() {
		return nil
	}
	return &parsed
}

func DecodeAccounts(table *Table) ([]*model.Account, error) {
	index, err := accountSchema.Resolve(table.Header)
	if err != nil {
		return nil, &ParseError{Source: table.Source, Err: err}
	}
	seen := map[string]bool{}
	accounts := make([]*model.Account, 0, len(table.Rows))
	for _, row := range table.Rows {
		id := index.Get(row, "id")
		handle := index.Get(row, "handle")
		if id == "" || handle == "" || seen[id] {
			continue
		}
		seen[id] = true
		accounts = append(accounts, &model.Account{
			Id:          id,
			Handle:      handle,
			DisplayName: index.Get(row, "display_name"),
			AvatarUrl:   index.Get(row, "avatar_url"),
			Bio:         index.Get(row, "bio"),
			Verified:    parseCellBool(index.Get(row, "verified")),
			IsAdmin:     parseCellBool(index.Get(row, "is_admin")),
			Visibility:  model.ParseVisibility(index.Get(row, "visibility")),
			Privacy:     model.ParsePrivacy(index.Get(row, "privacy")),
			CreatedAt:   parseCellTime(table.Source, index.Get(row, "created_at")),
		})
	}
	return accounts, nil
}

func DecodePosts(table *Table) ([]*model.Post, error) {
	index, err := postSchema.Resolve(table.Header)
	if err != nil {
		return nil, &ParseError{Source: table.Source, Err: err}
	}
	seen := map[string]bool{}
	posts := make([]*model.Post, 0, len(table.Rows))
	for _, row := range table.Rows {
		id := index.Get(row, "id")
		authorId := index.Get(row, "author_id")
		if id == "" || authorId == "" || seen[id] {
			continue
		}
		seen[id] = true
		posts = append(posts, &model.Post{
			Id:        id,
			AuthorId:  authorId,
			Content:   index.Get(row, "content"),
			CreatedAt: parseCellTime(table.Source, index.Get(row, "created_at")),
			IsStory:   parseCellBool(index.Get(row, "is_story")),
		})
	}
	return posts, nil
}

func DecodeComments(table *Table) ([]*model.Comment, error) {
	index, err := commentSchema.Resolve(table.Header)
	if err != nil {
		return nil, &ParseError{Source: table.Source, Err: err}
	}
	seen := map[string]bool{}
	comments := make([]*model.Comment, 0, len(table.Rows))
	for _, row := range table.Rows {
		id := index.Get(row, "id")
		if id == "" || index.Get(row, "post_id") == "" || index.Get(row, "author_id") == "" || seen[id] {
			continue
		}
		seen[id] = true
		comments = append(comments, &model.Comment{
			Id:        id,
			PostId:    index.Get(row, "post_id"),
			AuthorId:  index.Get(row, "author_id"),
			Text:      index.Get(row, "text"),
			MediaUrl:  index.Get(row, "media_url"),
			CreatedAt: parseCellTime(table.Source, index.Get(row, "created_at")),
		})
	}
	return comments, nil
}

func DecodeLikes(table *Table) ([]*model.Like, error) {
	index, err := likeSchema.Resolve(table.Header)
	if err != nil {
		return nil, &ParseError{Source: table.Source, Err: err}
	}
	seen := map[string]bool{}
	likes := make([]*model.Like, 0, len(table.Rows))
	for _, row := range table.Rows {
		postId := index.Get(row, "post_id")
		accountId := index.Get(row, "account_id")
		if postId == "" || accountId == "" {
			continue
		}
		key := postId + "\x00" + accountId
		if seen[key] {
			continue
		}
		seen[key] = true
		likes = append(likes, &model.Like{
			PostId:    postId,
			AccountId: accountId,
			CreatedAt: parseCellTime(table.Source, index.Get(row, "created_at")),
		})
	}
	return likes, nil
}

func DecodeFollows(table *Table) ([]*model.Follow, error) {
	index, err := followSchema.Resolve(table.Header)
	if err != nil {
		return nil, &ParseError{Source: table.Source, Err: err}
	}
	seen := map[string]bool{}
	follows := make([]*model.Follow, 0, len(table.Rows))
	for _, row := range table.Rows {
		followerId := index.Get(row, "follower_id")
		targetId := index.Get(row, "target_id")
		if followerId == "" || targetId == "" || followerId == targetId {
			continue
		}
		key := followerId + "\x00" + targetId
		if seen[key] {
			continue
		}
		seen[key] = true
		follows = append(follows, &model.Follow{
			FollowerId: followerId,
			TargetId:   targetId,
			CreatedAt:  parseCellTime(table.Source, index.Get(row, "created_at")),
		})
	}
	return follows, nil
}

func DecodeBlocks(table *Table) ([]*model.Block, error) {
	index, err := blockSchema.Resolve(table.Header)
	if err != nil {
		return nil, &ParseError{Source: table.Source, Err: err}
	}
	seen := map[string]bool{}
	blocks := make([]*model.Block, 0, len(table.Rows))
	for _, row := range table.Rows {
		blockerId := index.Get(row, "blocker_id")
		targetId := index.Get(row, "target_id")
		if blockerId == "" || targetId == "" || blockerId == targetId {
			continue
		}
		key := blockerId + "\x00" + targetId
		if seen[key] {
			continue
		}
		seen[key] = true
		blocks = append(blocks, &model.Block{
			BlockerId: blockerId,
			TargetId:  targetId,
			CreatedAt: parseCellTime(table.Source, index.Get(row, "created_at")),
		})
	}
	return blocks, nil
}

func DecodeBans(table *Table) ([]*model.BanRecord, error) {
	index, err := banSchema.Resolve(table.Header)
	if err != nil {
		return nil, &ParseError{Source: table.Source, Err: err}
	}
	seen := map[string]bool{}
	bans := make([]*model.BanRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		handle := index.Get(row, "handle")
		if handle == "" || seen[handle] {
			continue
		}
		seen[handle] = true
		bans = append(bans, &model.BanRecord{
			Handle: handle,
			Reason: index.Get(row, "reason"),
			Until:  parseCellTimePtr(table.Source, index.Get(row, "until")),
		})
	}
	return bans, nil
}

func DecodeMessages(table *Table) ([]*model.Message, error) {
	index, err := messageSchema.Resolve(table.Header)
	if err != nil {
		return nil, &ParseError{Source: table.Source, Err: err}
	}
	seen := map[string]bool{}
	messages := make([]*model.Message, 0, len(table.Rows))
	for _, row := range table.Rows {
		id := index.Get(row, "id")
		if id == "" || index.Get(row, "sender_id") == "" || index.Get(row, "recipient_id") == "" || seen[id] {
			continue
		}
		seen[id] = true
		messages = append(messages, &model.Message{
			Id:          id,
			SenderId:    index.Get(row, "sender_id"),
			RecipientId: index.Get(row, "recipient_id"),
			Content:     index.Get(row, "content"),
			CreatedAt:   parseCellTime(table.Source, index.Get(row, "created_at")),
			Read:        parseCellBool(index.Get(row, "read")),
			Delivery:    model.DeliverySent,
		})
	}
	return messages, nil
}

func DecodeNotifications(table *Table) ([]*model.Notification, error) {
	index, err := notificationSchema.Resolve(table.Header)
	if err != nil {
		return nil, &ParseError{Source: table.Source, Err: err}
	}
	seen := map[string]bool{}
	notifications := make([]*model.Notification, 0, len(table.Rows))
	for _, row := range table.Rows {
		id := index.Get(row, "id")
		kind := model.NotificationKind(strings.ToLower(index.Get(row, "kind")))
		if id == "" || index.Get(row, "recipient_id") == "" || index.Get(row, "actor_id") == "" || seen[id] {
			continue
		}
		switch kind {
		case model.NotificationLike, model.NotificationComment, model.NotificationFollow:
		default:
			continue
		}
		seen[id] = true
		notifications = append(notifications, &model.Notification{
			Id:          id,
			RecipientId: index.Get(row, "recipient_id"),
			ActorId:     index.Get(row, "actor_id"),
			Kind:        kind,
			PostId:      index.Get(row, "post_id"),
			CreatedAt:   parseCellTime(table.Source, index.Get(row, "created_at")),
			Read:        parseCellBool(index.Get(row, "read")),
		})
	}
	return notifications, nil
}

func DecodePhotos(table *Table) ([]*model.Photo, error) {
	index, err := photoSchema.Resolve(table.Header)
	if err != nil {
		return nil, &ParseError{Source: table.Source, Err: err}
	}
	seen := map[string]bool{}
	photos := make([]*model.Photo, 0, len(table.Rows))
	for _, row := range table.Rows {
		id := index.Get(row, "id")
		if id == "" || index.Get(row, "owner_id") == "" || index.Get(row, "url") == "" || seen[id] {
			continue
		}
		seen[id] = true
		photos = append(photos, &model.Photo{
			Id:        id,
			OwnerId:   index.Get(row, "owner_id"),
			Url:       index.Get(row, "url"),
			Caption:   index.Get(row, "caption"),
			CreatedAt: parseCellTime(table.Source, index.Get(row, "created_at")),
		})
	}
	return photos, nil
}

// DecodeStatus reads the first data row of the status tab. A tab with a
// header but no rows means nobody flipped the switch, which is up.
func DecodeStatus(table *Table) (*model.PlatformStatus, error) {
	index, err := statusSchema.Resolve(table.Header)
	if err != nil {
		return nil, &ParseError{Source: table.Source, Err: err}
	}
	for _, row := range table.Rows {
		state := strings.ToLower(index.Get(row, "state"))
		if state == "" {
			continue
		}
		return &model.PlatformStatus{
			State:   state,
			Message: index.Get(row, "message"),
		}, nil
	}
	return nil, nil
}
