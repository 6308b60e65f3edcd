package eventlog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	inats "github.com/banterlabs/banter/internal/nats"
)

// Recorder is the fire-and-forget append side of the event log. Records are
// published to JetStream and persisted by the Consumer; a failed publish is
// reported on the process log and never surfaces to the caller.
type Recorder struct {
	publisher *inats.Publisher
}

// NewRecorder creates a new Recorder.
func NewRecorder(publisher *inats.Publisher) *Recorder {
	return &Recorder{publisher: publisher}
}

// Record appends one event. Subtype, payload and actorID may be empty.
func (r *Recorder) Record(ctx context.Context, kind, subtype, payload, actorID string) {
	event := inats.LogEvent{
		ID:      uuid.New(),
		Event:   kind,
		Subtype: subtype,
		Payload: payload,
		ActorID: actorID,
		Time:    time.Now().UTC(),
	}
	if err := r.publisher.PublishLogEvent(ctx, event); err != nil {
		slog.Error("event log publish failed", "error", err, "event", kind, "actor", actorID)
	}
}

// RecordError appends an error event with a short human-readable cause.
func (r *Recorder) RecordError(ctx context.Context, subtype, cause, actorID string) {
	r.Record(ctx, KindError, subtype, cause, actorID)
}
