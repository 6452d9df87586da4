package engine

const (
	// A refresh of the full source set was requested. Payload is the
	// reason, e.g. "startup", "manual", "view".
	TOPIC_REFRESH_REQUEST = "topic.refresh_request"
	// A refresh cycle finished. Payload is a refreshOutcome.
	TOPIC_REFRESH_DONE = "topic.refresh_done"
	// A write command settled. Payload is a writeOutcome.
	TOPIC_WRITE_SETTLED = "topic.write_settled"
	// Session state flipped. Payload is the new state's name.
	TOPIC_STATUS_CHANGED = "topic.status_changed"
	// The active conversation changed. Payload is the partner id, empty
	// when the conversation view closed.
	TOPIC_ACTIVE_CONVERSATION = "topic.active_conversation"
)

// Signal kinds streamed to connected clients.
const (
	SIGNAL_SNAPSHOT     = "snapshot"
	SIGNAL_WRITE_FAILED = "write.failed"
	SIGNAL_STATUS       = "status.changed"
)

type SessionState int64

const (
	// Normal operation, all reads and writes allowed.
	ACTIVE SessionState = 0
	// The viewer's account is banned or suspended. Reads keep working so
	// the status surface can say why, writes and polling stop.
	SUSPENDED SessionState = 1
	// Platform-wide outage per the status source. Writes and polling
	// stop until a refresh sees the platform back up.
	OUTAGE SessionState = 2
)

func (s SessionState) String() string {
	switch s {
	case ACTIVE:
		return "active"
	case SUSPENDED:
		return "suspended"
	case OUTAGE:
		return "outage"
	}
	return "unknown"
}
