package model

import "time"

// Visibility controls who can see an account's posts in feeds and search.
type Visibility string

const (
	VisibilityEveryone  Visibility = "everyone"
	VisibilityFollowers Visibility = "followers"
	VisibilityFriends   Visibility = "friends"
)

// ParseVisibility maps a raw cell value to a Visibility, defaulting to
// everyone for blank or unknown values.
func ParseVisibility(raw string) Visibility {
	switch Visibility(raw) {
	case VisibilityFollowers:
		return VisibilityFollowers
	case VisibilityFriends:
		return VisibilityFriends
	default:
		return VisibilityEveryone
	}
}

// Privacy controls whether an account's profile page is open to anyone.
type Privacy string

const (
	PrivacyPublic  Privacy = "public"
	PrivacyPrivate Privacy = "private"
)

func ParsePrivacy(raw string) Privacy {
	if Privacy(raw) == PrivacyPrivate {
		return PrivacyPrivate
	}
	return PrivacyPublic
}

/*
	Account is a registered user as the read source records it. Follower,
	following and like totals are not stored here, they are derived per
	projection from the follow and like tables.
*/
type Account struct {
	Id          string
	Handle      string
	DisplayName string
	AvatarUrl   string
	Bio         string
	Verified    bool
	IsAdmin     bool
	Visibility  Visibility
	Privacy     Privacy
	CreatedAt   time.Time
}

// PlaceholderAccount stands in for an author id that has no matching
// account row yet. Rendering never fails on a missing join.
func PlaceholderAccount(id string) *Account {
	return &Account{
		Id:          id,
		Handle:      "unknown",
		DisplayName: "Unknown",
		Visibility:  VisibilityEveryone,
		Privacy:     PrivacyPublic,
	}
}
