package projector

import (
	"sort"

	"github.com/gridfeed/gridfeed/model"
)

// Conversations renders the inbox: one entry per counterpart, ordered
// by most recent activity. Counterparts who block the viewer, or whom
// the viewer blocks, are dropped entirely along with their history.
func Conversations(in Input) []*model.ConversationView {
	j := newJoined(in)

	byPartner := map[string][]*model.MessageView{}
	for _, message := range j.messages {
		partnerId, ok := j.partnerOf(message)
		if !ok {
			continue
		}
		byPartner[partnerId] = append(byPartner[partnerId], j.messageView(message))
	}

	views := make([]*model.ConversationView, 0, len(byPartner))
	for partnerId, messages := range byPartner {
		views = append(views, j.conversationView(partnerId, messages))
	}
	sort.SliceStable(views, func(a, b int) bool {
		left, right := views[a].LastMessage, views[b].LastMessage
		if left.SentAt.Equal(right.SentAt) {
			return views[a].PartnerId < views[b].PartnerId
		}
		return left.SentAt.After(right.SentAt)
	})
	return views
}

// Conversation renders a single thread, empty rather than nil when no
// messages were exchanged yet so a fresh chat window can open.
func Conversation(in Input, partnerId string) *model.ConversationView {
	j := newJoined(in)

	if j.blockedEither(in.ViewerId, partnerId) {
		return nil
	}

	var messages []*model.MessageView
	for _, message := range j.messages {
		if id, ok := j.partnerOf(message); ok && id == partnerId {
			messages = append(messages, j.messageView(message))
		}
	}
	return j.conversationView(partnerId, messages)
}

// partnerOf returns the other party of a message involving the viewer.
func (j *joined) partnerOf(message *model.Message) (string, bool) {
	var partnerId string
	switch j.in.ViewerId {
	case message.SenderId:
		partnerId = message.RecipientId
	case message.RecipientId:
		partnerId = message.SenderId
	default:
		return "", false
	}
	if j.blockedEither(j.in.ViewerId, partnerId) {
		return "", false
	}
	if partner, ok := j.accountById[partnerId]; ok && j.banned(partner) {
		return "", false
	}
	return partnerId, true
}

func (j *joined) messageView(message *model.Message) *model.MessageView {
	delivery := message.Delivery
	if delivery == "" {
		delivery = model.DeliverySent
	}
	return &model.MessageView{
		Id:       message.Id,
		SenderId: message.SenderId,
		Text:     message.DecodeBody(),
		SentAt:   message.CreatedAt,
		Read:     message.Read,
		Mine:     message.SenderId == j.in.ViewerId,
		Delivery: delivery,
	}
}

func (j *joined) conversationView(partnerId string, messages []*model.MessageView) *model.ConversationView {
	sort.SliceStable(messages, func(a, b int) bool {
		if messages[a].SentAt.Equal(messages[b].SentAt) {
			return messages[a].Id < messages[b].Id
		}
		return messages[a].SentAt.Before(messages[b].SentAt)
	})

	view := &model.ConversationView{
		PartnerId: partnerId,
		Partner:   j.account(partnerId),
		Messages:  messages,
	}
	for _, message := range messages {
		if !message.Mine && !message.Read {
			view.UnreadCount++
		}
	}
	if len(messages) > 0 {
		view.LastMessage = messages[len(messages)-1]
	}
	return view
}
