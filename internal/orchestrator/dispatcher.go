package orchestrator

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/banterlabs/banter/internal/command"
	"github.com/banterlabs/banter/internal/eventlog"
	"github.com/banterlabs/banter/internal/metrics"
)

// Dispatcher executes extracted commands against the transport and media
// cache. Side effects are best-effort flourishes: each attempt is isolated,
// and a failure is logged and swallowed so it never blocks the visible reply
// or the other command.
type Dispatcher struct {
	transport Transport
	cache     MediaCache
	recorder  EventRecorder
}

// NewDispatcher creates a new side-effect Dispatcher.
func NewDispatcher(transport Transport, cache MediaCache, recorder EventRecorder) *Dispatcher {
	return &Dispatcher{
		transport: transport,
		cache:     cache,
		recorder:  recorder,
	}
}

// Dispatch runs the commands in fixed order, reaction before media, and
// reports whether a media item was actually sent.
func (d *Dispatcher) Dispatch(ctx context.Context, conversationID, targetMessageID string, cmds command.Commands) bool {
	if cmds.Reaction != "" {
		d.dispatchReaction(ctx, conversationID, targetMessageID, cmds.Reaction)
	}
	if cmds.SendGif {
		return d.dispatchMedia(ctx, conversationID, targetMessageID)
	}
	return false
}

func (d *Dispatcher) dispatchReaction(ctx context.Context, conversationID, targetMessageID, symbol string) {
	if err := d.transport.SetReaction(ctx, conversationID, targetMessageID, symbol); err != nil {
		slog.Warn("setting reaction", "error", err, "conversation", conversationID)
		d.recorder.RecordError(ctx, "reaction", err.Error(), conversationID)
		metrics.SideEffectsTotal.WithLabelValues("reaction", "error").Inc()
		return
	}
	d.recorder.Record(ctx, eventlog.KindSideEffect, "reaction", symbol, conversationID)
	metrics.SideEffectsTotal.WithLabelValues("reaction", "ok").Inc()
}

func (d *Dispatcher) dispatchMedia(ctx context.Context, conversationID, targetMessageID string) bool {
	item, err := d.cache.SampleRandom(ctx)
	if err != nil {
		slog.Warn("sampling media cache", "error", err, "conversation", conversationID)
		d.recorder.RecordError(ctx, "gif", err.Error(), conversationID)
		metrics.SideEffectsTotal.WithLabelValues("gif", "error").Inc()
		return false
	}
	if item == nil {
		// Empty cache: nothing to send, not an error.
		return false
	}

	data, err := base64.StdEncoding.DecodeString(item.Base64)
	if err != nil {
		slog.Warn("decoding cached media", "error", err, "hash", item.ContentHash)
		d.recorder.RecordError(ctx, "gif", err.Error(), conversationID)
		metrics.SideEffectsTotal.WithLabelValues("gif", "error").Inc()
		return false
	}

	if err := d.transport.SendMedia(ctx, conversationID, data, targetMessageID); err != nil {
		slog.Warn("sending media", "error", err, "conversation", conversationID)
		d.recorder.RecordError(ctx, "gif", err.Error(), conversationID)
		metrics.SideEffectsTotal.WithLabelValues("gif", "error").Inc()
		return false
	}

	d.recorder.Record(ctx, eventlog.KindSideEffect, "gif", item.ContentHash, conversationID)
	metrics.SideEffectsTotal.WithLabelValues("gif", "ok").Inc()
	return true
}
