package broker

import (
	"time"

	"github.com/google/uuid"
)

// Event - immutable broadcast event: single inbound line of one client.
type Event struct {
	ID     uuid.UUID
	Sender Identity
	Text   string
	Time   time.Time
}

// NewEvent - builds event originated by sender at the given time.
func NewEvent(sender Identity, text string, at time.Time) Event {
	return Event{
		ID:     uuid.New(),
		Sender: sender,
		Text:   text,
		Time:   at,
	}
}

// DisconnectReason - describes why the session was torn down.
type DisconnectReason int

const (
	_ DisconnectReason = iota
	// ReasonLeft - remote side closed connection or read failed.
	ReasonLeft
	// ReasonTimeout - connection idle or write deadline expired.
	ReasonTimeout
	// ReasonWriteFailed - outgoing write failed.
	ReasonWriteFailed
	// ReasonSlowConsumer - subscription overflowed under disconnect policy.
	ReasonSlowConsumer
	// ReasonStopping - broker is quitting.
	ReasonStopping
)

func (r DisconnectReason) String() string {
	switch r {
	case ReasonLeft:
		return "left"
	case ReasonTimeout:
		return "timeout"
	case ReasonWriteFailed:
		return "write failed"
	case ReasonSlowConsumer:
		return "slow consumer"
	case ReasonStopping:
		return "server stopping"
	default:
		return "unknown"
	}
}
