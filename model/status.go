package model

// Platform-wide switch published by the operators. Anything other than
// an explicit "down" counts as up, the platform stays usable when the
// status tab itself is missing or unreadable.
const (
	PlatformUp   = "up"
	PlatformDown = "down"
)

type PlatformStatus struct {
	State   string
	Message string
}

func (s *PlatformStatus) Down() bool {
	return s != nil && s.State == PlatformDown
}
