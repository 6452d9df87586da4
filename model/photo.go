package model

import "time"

// Photo is an uploaded image owned by an account. Url points at the
// media store copy, not the original upload.
type Photo struct {
	Id        string
	OwnerId   string
	Url       string
	Caption   string
	CreatedAt time.Time
}
