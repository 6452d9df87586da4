package model

import (
	"encoding/base64"
	"time"
)

// DeliveryStatus is client-side only. Rows read back from the server are
// implicitly sent; the overlay outbox tracks the other two states.
type DeliveryStatus string

const (
	DeliverySending DeliveryStatus = "sending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

/*
	Message is one direct message. Content is stored base64 encoded, both
	in the read source and here, so that commas and newlines survive the
	tabular transport. DecodeBody is the one place the encoding is undone.
*/
type Message struct {
	Id          string
	SenderId    string
	RecipientId string
	Content     string
	CreatedAt   time.Time
	Read        bool
	Delivery    DeliveryStatus
}

// EncodeBody wraps plain text for storage in a Message.
func EncodeBody(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// DecodeBody returns the plain text of the message. Content that is not
// valid base64 is returned as-is rather than dropped, old rows predate
// the encoding.
func (m *Message) DecodeBody() string {
	decoded, err := base64.StdEncoding.DecodeString(m.Content)
	if err != nil {
		return m.Content
	}
	return string(decoded)
}
