package eventlog

import (
	"time"

	"github.com/google/uuid"
)

// Event kinds recorded by the rest of the system.
const (
	KindSystem     = "system"
	KindError      = "error"
	KindResponse   = "response"
	KindSideEffect = "side_effect"
)

// Record matches the logs table schema.
type Record struct {
	ID      uuid.UUID `json:"id"`
	Event   string    `json:"event"`
	Subtype string    `json:"type,omitempty"`
	Payload string    `json:"text,omitempty"`
	ActorID string    `json:"actor_id,omitempty"`
	Time    time.Time `json:"time"`
}
