package projector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gridfeed/gridfeed/model"
)

func TestNotifications(t *testing.T) {
	views := Notifications(newWorld())

	// n2 is from a blocker, n3 from a banned actor, n4 belongs to bob,
	// n5 points at a post the viewer cannot see.
	assert.Len(t, views, 1)
	assert.Equal(t, "n1", views[0].Id)
	assert.Equal(t, "bob", views[0].Actor.Handle)
	assert.Equal(t, model.NotificationLike, views[0].Kind)
	assert.Equal(t, "p7", views[0].PostId)
}

func TestNotificationsOrderedNewestFirst(t *testing.T) {
	in := newWorld()
	in.Snap.Notifications = append(in.Snap.Notifications, &model.Notification{
		Id: "n6", RecipientId: "u1", ActorId: "u2",
		Kind: model.NotificationFollow, CreatedAt: at(0),
	})

	views := Notifications(in)
	assert.Len(t, views, 2)
	assert.Equal(t, "n6", views[0].Id)
	assert.Equal(t, "n1", views[1].Id)
}

func TestNotificationsFollowKindHasNoPostGate(t *testing.T) {
	in := newWorld()
	in.Snap.Notifications = []*model.Notification{
		{Id: "n7", RecipientId: "u1", ActorId: "u2", Kind: model.NotificationFollow, CreatedAt: at(0)},
	}

	views := Notifications(in)
	assert.Len(t, views, 1)
	assert.Equal(t, "", views[0].PostId)
}
