package projector

import (
	"sort"

	"github.com/gridfeed/gridfeed/model"
)

// Notifications renders the viewer's notification list newest-first.
// Entries from banned or block-severed actors are dropped, as are
// entries pointing at posts the viewer can no longer see.
func Notifications(in Input) []*model.NotificationView {
	j := newJoined(in)

	var views []*model.NotificationView
	for _, notification := range j.notifications {
		if notification.RecipientId != in.ViewerId {
			continue
		}
		actor := j.account(notification.ActorId)
		if j.banned(actor) || j.blockedEither(in.ViewerId, notification.ActorId) {
			continue
		}
		if notification.PostId != "" {
			post, ok := j.postById[notification.PostId]
			if !ok || !j.visiblePost(post) {
				continue
			}
		}
		views = append(views, &model.NotificationView{
			Id:        notification.Id,
			Actor:     actor,
			Kind:      notification.Kind,
			PostId:    notification.PostId,
			CreatedAt: notification.CreatedAt,
			Read:      notification.Read,
		})
	}
	sort.SliceStable(views, func(a, b int) bool {
		if views[a].CreatedAt.Equal(views[b].CreatedAt) {
			return views[a].Id > views[b].Id
		}
		return views[a].CreatedAt.After(views[b].CreatedAt)
	})
	return views
}
