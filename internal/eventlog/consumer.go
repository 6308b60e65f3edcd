package eventlog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	inats "github.com/banterlabs/banter/internal/nats"
)

// fetchRetryDelay paces the consume loop after a failed fetch.
const fetchRetryDelay = time.Second

// Consumer listens on the log event subject and persists records to the database.
type Consumer struct {
	repo        *Repository
	consumerMgr *inats.ConsumerManager
}

// NewConsumer creates a new log event Consumer.
func NewConsumer(repo *Repository, consumerMgr *inats.ConsumerManager) *Consumer {
	return &Consumer{
		repo:        repo,
		consumerMgr: consumerMgr,
	}
}

// Start begins the consume loop. Blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	consumer, err := c.consumerMgr.EnsureConsumer(ctx, inats.StreamEvents, "log-persister", inats.SubjectLogEvent)
	if err != nil {
		return err
	}

	slog.Info("event log consumer started", "consumer", "log-persister")

	for {
		msgs, err := consumer.Fetch(10, jetstream.FetchMaxWait(inats.FetchTimeout))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Debug("event log consumer: fetching events", "error", err)
			// An unreachable broker makes Fetch fail immediately; pause
			// so the loop does not spin.
			if !sleepCtx(ctx, fetchRetryDelay) {
				return nil
			}
			continue
		}

		for msg := range msgs.Messages() {
			c.handleEvent(ctx, msg)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

// sleepCtx waits for d and reports false when ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func (c *Consumer) handleEvent(ctx context.Context, msg jetstream.Msg) {
	var event inats.LogEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		slog.Error("event log consumer: unmarshaling event", "error", err)
		_ = msg.Nak()
		return
	}

	rec := &Record{
		ID:      event.ID,
		Event:   event.Event,
		Subtype: event.Subtype,
		Payload: event.Payload,
		ActorID: event.ActorID,
		Time:    event.Time,
	}

	if err := c.repo.Insert(ctx, rec); err != nil {
		slog.Error("event log consumer: persisting record", "error", err, "event", event.Event)
		_ = msg.Nak()
		return
	}

	_ = msg.Ack()

	slog.Debug("event log consumer: persisted record", "event", event.Event, "actor", event.ActorID)
}
