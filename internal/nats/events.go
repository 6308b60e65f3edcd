package nats

import (
	"time"

	"github.com/google/uuid"
)

// FetchTimeout is the default timeout for batch fetching messages from consumers.
const FetchTimeout = 2 * time.Second

// StreamEvents carries event-log records awaiting persistence.
const StreamEvents = "BANTER_EVENTS"

// SubjectLogEvent is where event-log records are published.
const SubjectLogEvent = "banter.events.log"

// LogEvent is an event-log record in flight between the recorder and the
// consumer that persists it.
type LogEvent struct {
	ID      uuid.UUID `json:"id"`
	Event   string    `json:"event"`
	Subtype string    `json:"subtype,omitempty"`
	Payload string    `json:"payload,omitempty"`
	ActorID string    `json:"actor_id,omitempty"`
	Time    time.Time `json:"time"`
}
