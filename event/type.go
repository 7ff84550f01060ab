package event

import "time"

// Kind classifies a domain event from the orchestration stream
type Kind uint8

const (
	KindUnknown Kind = iota
	KindSessionStart
	KindToolUse
	KindMessage
	KindNotification
	KindSessionEnd
)

// String returns the kind name for logs and status output
func (k Kind) String() string {
	switch k {
	case KindSessionStart:
		return "session_start"
	case KindToolUse:
		return "tool_use"
	case KindMessage:
		return "message"
	case KindNotification:
		return "notification"
	case KindSessionEnd:
		return "session_end"
	default:
		return "unknown"
	}
}

// AgentEvent is one externally pushed orchestration event
// Timestamps may arrive out of order; IDs may repeat while a drop
// spawned for the same ID is still active (deduplicated downstream)
type AgentEvent struct {
	ID        string
	Timestamp time.Time
	Kind      Kind
}
