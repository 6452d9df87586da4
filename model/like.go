package model

import "time"

// Like marks that an account liked a post. The pair (PostId, AccountId)
// is unique in the read source, duplicate rows are collapsed on decode.
type Like struct {
	PostId    string
	AccountId string
	CreatedAt time.Time
}
