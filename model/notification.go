package model

import "time"

type NotificationKind string

const (
	NotificationLike    NotificationKind = "like"
	NotificationComment NotificationKind = "comment"
	NotificationFollow  NotificationKind = "follow"
)

// Notification tells RecipientId that ActorId did something. PostId is
// blank for follow notifications.
type Notification struct {
	Id          string
	RecipientId string
	ActorId     string
	Kind        NotificationKind
	PostId      string
	CreatedAt   time.Time
	Read        bool
}
