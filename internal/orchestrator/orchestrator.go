// Package orchestrator is the message-handling core: it serializes work per
// conversation, exchanges turns with the generative backend, interprets
// control tags in the output, and delivers the visible reply.
package orchestrator

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/banterlabs/banter/internal/command"
	"github.com/banterlabs/banter/internal/conversation"
	"github.com/banterlabs/banter/internal/eventlog"
	"github.com/banterlabs/banter/internal/metrics"
)

// imageIntentPattern routes a turn to the image-generation path instead of
// the text pipeline.
var imageIntentPattern = regexp.MustCompile(`(?i)^(draw|sketch|paint)\b`)

// Options configures orchestrator behavior.
type Options struct {
	// Trigger is the phrase that activates the bot in a shared conversation.
	Trigger string
	// AllowedConversations restricts where the bot acts; empty allows all.
	AllowedConversations []string
	// BotJID identifies the bot's own messages; a reply to one of them is a
	// continuation of an existing exchange.
	BotJID string
	// DelayMin/DelayMax bound the randomized pre-think pause.
	DelayMin time.Duration
	DelayMax time.Duration
}

// Orchestrator composes the lanes, context store, extractor, dispatcher,
// media cache and event log into the per-message state machine.
type Orchestrator struct {
	opts       Options
	lanes      *conversation.Lanes
	contexts   *conversation.ContextStore
	outbound   OutboundRecorder
	transport  Transport
	backend    Backend
	cache      MediaCache
	dispatcher *Dispatcher
	recorder   EventRecorder
}

// New creates an Orchestrator.
func New(
	opts Options,
	lanes *conversation.Lanes,
	contexts *conversation.ContextStore,
	outbound OutboundRecorder,
	transport Transport,
	backend Backend,
	cache MediaCache,
	recorder EventRecorder,
) *Orchestrator {
	return &Orchestrator{
		opts:       opts,
		lanes:      lanes,
		contexts:   contexts,
		outbound:   outbound,
		transport:  transport,
		backend:    backend,
		cache:      cache,
		dispatcher: NewDispatcher(transport, cache, recorder),
		recorder:   recorder,
	}
}

// HandleInbound classifies one inbound message and, when it is actionable,
// schedules a unit of work on the conversation's lane. The returned channel
// yields the unit's outcome; it is nil when nothing was scheduled. Errors
// never propagate to the transport layer.
func (o *Orchestrator) HandleInbound(in Inbound) <-chan error {
	// Programming-invariant violations are dropped before entering the queue.
	if in.ConversationID == "" || in.SenderID == "" {
		slog.Debug("dropping message without identity")
		return nil
	}
	if in.SenderID == o.opts.BotJID {
		return nil
	}
	if !o.allowed(in.ConversationID) {
		return nil
	}

	if in.AttachmentRef != "" {
		return o.lanes.Enqueue(in.ConversationID, func() error {
			err := o.ingestAttachment(context.Background(), in)
			if err != nil {
				slog.Error("ingesting attachment failed",
					"error", err,
					"conversation", in.ConversationID,
				)
			}
			return err
		})
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil
	}

	continuation := in.ReplyToSender != "" && in.ReplyToSender == o.opts.BotJID
	triggered := o.opts.Trigger != "" &&
		strings.Contains(strings.ToLower(text), strings.ToLower(o.opts.Trigger))
	if !continuation && !triggered {
		return nil
	}

	if imageIntentPattern.MatchString(text) {
		return o.lanes.Enqueue(in.ConversationID, func() error {
			return o.runUnit(in, o.processImage)
		})
	}

	return o.lanes.Enqueue(in.ConversationID, func() error {
		return o.runUnit(in, func(ctx context.Context, in Inbound) (string, error) {
			return o.processText(ctx, in, continuation)
		})
	})
}

// runUnit is the catch boundary: every failure terminates here, logged with
// the actor involved, and the unit always resolves to a terminal outcome.
func (o *Orchestrator) runUnit(in Inbound, fn func(context.Context, Inbound) (string, error)) error {
	ctx := context.Background()

	outcome, err := fn(ctx, in)
	if err != nil {
		outcome = OutcomeFailed
		slog.Error("processing message failed",
			"error", err,
			"conversation", in.ConversationID,
			"sender", in.SenderID,
		)
		o.recorder.RecordError(ctx, "message", err.Error(), in.SenderID)
	}

	metrics.MessagesProcessedTotal.WithLabelValues(outcome).Inc()
	slog.Debug("unit of work resolved",
		"outcome", outcome,
		"conversation", in.ConversationID,
	)
	return err
}

func (o *Orchestrator) processText(ctx context.Context, in Inbound, continuation bool) (string, error) {
	o.pause()
	o.announce(ctx, in.ConversationID)

	userTurn := conversation.Turn{Role: conversation.RoleUser, Content: strings.TrimSpace(in.Text)}

	// A fresh top-level trigger starts from empty context; only a
	// continuation of an existing exchange loads history.
	var turns []conversation.Turn
	if continuation {
		turns = o.contexts.Window(in.ConversationID)
	}
	turns = append(turns, userTurn)

	start := time.Now()
	reply, err := o.backend.Complete(ctx, turns)
	metrics.BackendLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("backend call: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return OutcomeSuppressed, nil
	}

	cmds, finalText := command.Parse(reply)
	mediaSent := o.dispatcher.Dispatch(ctx, in.ConversationID, in.MessageID, cmds)

	if finalText == "" {
		if cmds.Reaction == "" && !cmds.SendGif {
			return OutcomeSuppressed, nil
		}
		o.recorder.Record(ctx, eventlog.KindResponse, "commands_only", reply, in.SenderID)
		return OutcomeDelivered, nil
	}

	o.pause()
	o.announce(ctx, in.ConversationID)

	if continuation {
		o.contexts.Append(in.ConversationID, userTurn,
			conversation.Turn{Role: conversation.RoleAssistant, Content: finalText})
	}

	sentID, err := o.transport.SendText(ctx, in.ConversationID, finalText, in.MessageID, true)
	if err != nil {
		return "", fmt.Errorf("sending reply: %w", err)
	}

	// The sent id is tracked unless a media item also went out this round.
	if !mediaSent {
		if err := o.outbound.Push(ctx, in.ConversationID, sentID); err != nil {
			slog.Warn("recording outbound id", "error", err, "conversation", in.ConversationID)
		}
	}

	o.recorder.Record(ctx, eventlog.KindResponse, "text", finalText, in.SenderID)
	return OutcomeDelivered, nil
}

// processImage handles draw-intent turns. It bypasses the text pipeline
// entirely: no context mutation, no command extraction.
func (o *Orchestrator) processImage(ctx context.Context, in Inbound) (string, error) {
	o.pause()
	o.announce(ctx, in.ConversationID)

	img, err := o.backend.GenerateImage(ctx, strings.TrimSpace(in.Text))
	if err != nil {
		return "", fmt.Errorf("image generation: %w", err)
	}
	if len(img) == 0 {
		return OutcomeSuppressed, nil
	}

	if err := o.transport.SendMedia(ctx, in.ConversationID, img, in.MessageID); err != nil {
		return "", fmt.Errorf("sending generated image: %w", err)
	}

	o.recorder.Record(ctx, eventlog.KindResponse, "image", strings.TrimSpace(in.Text), in.SenderID)
	return OutcomeDelivered, nil
}

// ingestAttachment fetches posted media and stores it content-addressed.
// Re-posting identical content from the same origin is a silent no-op.
func (o *Orchestrator) ingestAttachment(ctx context.Context, in Inbound) error {
	data, err := o.transport.FetchAttachment(ctx, in.AttachmentRef)
	if err != nil {
		metrics.MediaIngestTotal.WithLabelValues("error").Inc()
		o.recorder.RecordError(ctx, "media_fetch", err.Error(), in.SenderID)
		return fmt.Errorf("fetching attachment: %w", err)
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	inserted, err := o.cache.Ingest(ctx, hash, in.AttachmentRef, base64.StdEncoding.EncodeToString(data))
	if err != nil {
		metrics.MediaIngestTotal.WithLabelValues("error").Inc()
		o.recorder.RecordError(ctx, "media_ingest", err.Error(), in.SenderID)
		return fmt.Errorf("ingesting attachment: %w", err)
	}

	if inserted {
		metrics.MediaIngestTotal.WithLabelValues("stored").Inc()
		o.recorder.Record(ctx, eventlog.KindSystem, "gif_saved", hash, in.SenderID)
	} else {
		metrics.MediaIngestTotal.WithLabelValues("duplicate").Inc()
	}
	return nil
}

func (o *Orchestrator) allowed(conversationID string) bool {
	if len(o.opts.AllowedConversations) == 0 {
		return true
	}
	for _, id := range o.opts.AllowedConversations {
		if id == conversationID {
			return true
		}
	}
	return false
}

// announce signals composing presence; a failure never blocks the reply.
func (o *Orchestrator) announce(ctx context.Context, conversationID string) {
	if err := o.transport.AnnouncePresence(ctx, conversationID, PresenceComposing); err != nil {
		slog.Debug("announcing presence", "error", err, "conversation", conversationID)
	}
}

// pause sleeps for a random duration within the configured delay range.
func (o *Orchestrator) pause() {
	if o.opts.DelayMax <= 0 {
		return
	}
	d := o.opts.DelayMin
	if span := o.opts.DelayMax - o.opts.DelayMin; span > 0 {
		d += time.Duration(rand.Int64N(int64(span)))
	}
	time.Sleep(d)
}
