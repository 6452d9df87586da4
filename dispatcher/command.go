package dispatcher

import (
	"strconv"
	"time"

	"github.com/gridfeed/gridfeed/model"
)

// Write actions understood by the endpoint script. One action per user
// intent, the endpoint runs them strictly in arrival order.
const (
	ActionCreatePost            = "create_post"
	ActionDeletePost            = "delete_post"
	ActionCreateComment         = "create_comment"
	ActionDeleteComment         = "delete_comment"
	ActionLikePost              = "like_post"
	ActionUnlikePost            = "unlike_post"
	ActionFollowUser            = "follow_user"
	ActionUnfollowUser          = "unfollow_user"
	ActionSendMessage           = "send_message"
	ActionMarkConversationRead  = "mark_conversation_read"
	ActionBlockUser             = "block_user"
	ActionUnblockUser           = "unblock_user"
	ActionDismissNotification   = "dismiss_notification"
	ActionMarkNotificationsRead = "mark_notifications_read"
	ActionRecordPhoto           = "record_photo"
)

/*
	Command is one wire-level write. Ref is the client-generated id of
	the record being created, included so the endpoint can store it
	alongside the row; message rows keep it as their id verbatim, which
	is what makes exact outbox matching possible.
*/
type Command struct {
	Action string
	Ref    string
	Fields map[string]string
}

func timestampField(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func CreatePost(post *model.Post) *Command {
	return &Command{
		Action: ActionCreatePost,
		Ref:    post.Id,
		Fields: map[string]string{
			"author_id":  post.AuthorId,
			"content":    post.Content,
			"is_story":   strconv.FormatBool(post.IsStory),
			"created_at": timestampField(post.CreatedAt),
		},
	}
}

func DeletePost(viewerId string, postId string) *Command {
	return &Command{
		Action: ActionDeletePost,
		Ref:    postId,
		Fields: map[string]string{"author_id": viewerId, "post_id": postId},
	}
}

func CreateComment(comment *model.Comment) *Command {
	return &Command{
		Action: ActionCreateComment,
		Ref:    comment.Id,
		Fields: map[string]string{
			"post_id":    comment.PostId,
			"author_id":  comment.AuthorId,
			"text":       comment.Text,
			"media_url":  comment.MediaUrl,
			"created_at": timestampField(comment.CreatedAt),
		},
	}
}

func DeleteComment(viewerId string, commentId string) *Command {
	return &Command{
		Action: ActionDeleteComment,
		Ref:    commentId,
		Fields: map[string]string{"author_id": viewerId, "comment_id": commentId},
	}
}

func LikePost(viewerId string, postId string, liked bool) *Command {
	action := ActionLikePost
	if !liked {
		action = ActionUnlikePost
	}
	return &Command{
		Action: action,
		Ref:    postId,
		Fields: map[string]string{"account_id": viewerId, "post_id": postId},
	}
}

func FollowUser(viewerId string, targetId string, following bool) *Command {
	action := ActionFollowUser
	if !following {
		action = ActionUnfollowUser
	}
	return &Command{
		Action: action,
		Ref:    targetId,
		Fields: map[string]string{"follower_id": viewerId, "target_id": targetId},
	}
}

func SendMessage(message *model.Message) *Command {
	return &Command{
		Action: ActionSendMessage,
		Ref:    message.Id,
		Fields: map[string]string{
			"sender_id":    message.SenderId,
			"recipient_id": message.RecipientId,
			"content":      message.Content,
			"created_at":   timestampField(message.CreatedAt),
		},
	}
}

func MarkConversationRead(viewerId string, partnerId string) *Command {
	return &Command{
		Action: ActionMarkConversationRead,
		Ref:    partnerId,
		Fields: map[string]string{"account_id": viewerId, "partner_id": partnerId},
	}
}

func BlockUser(viewerId string, targetId string, blocked bool) *Command {
	action := ActionBlockUser
	if !blocked {
		action = ActionUnblockUser
	}
	return &Command{
		Action: action,
		Ref:    targetId,
		Fields: map[string]string{"blocker_id": viewerId, "target_id": targetId},
	}
}

func DismissNotification(viewerId string, notificationId string) *Command {
	return &Command{
		Action: ActionDismissNotification,
		Ref:    notificationId,
		Fields: map[string]string{"account_id": viewerId, "notification_id": notificationId},
	}
}

func MarkNotificationsRead(viewerId string) *Command {
	return &Command{
		Action: ActionMarkNotificationsRead,
		Ref:    viewerId,
		Fields: map[string]string{"account_id": viewerId},
	}
}

func RecordPhoto(photo *model.Photo) *Command {
	return &Command{
		Action: ActionRecordPhoto,
		Ref:    photo.Id,
		Fields: map[string]string{
			"owner_id":   photo.OwnerId,
			"url":        photo.Url,
			"caption":    photo.Caption,
			"created_at": timestampField(photo.CreatedAt),
		},
	}
}
