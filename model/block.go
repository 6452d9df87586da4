package model

import "time"

// Block is a directed edge: blocker refuses to see target and target
// cannot see blocker. Server rows and the local tombstone set are merged
// at projection time.
type Block struct {
	BlockerId string
	TargetId  string
	CreatedAt time.Time
}
