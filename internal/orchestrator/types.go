package orchestrator

import (
	"context"

	"github.com/banterlabs/banter/internal/conversation"
	"github.com/banterlabs/banter/internal/mediacache"
)

// Inbound is one unit of work handed to the orchestrator by the transport.
type Inbound struct {
	ConversationID string
	SenderID       string
	MessageID      string
	Text           string
	// AttachmentRef points at fetchable media posted by the sender, empty
	// if the message carries none.
	AttachmentRef string
	ReplyToID     string
	ReplyToSender string
}

// Presence kinds announced to the transport.
const (
	PresenceComposing = "composing"
	PresenceActive    = "active"
)

// Terminal outcomes of a unit of work.
const (
	OutcomeDelivered  = "delivered"
	OutcomeSuppressed = "suppressed"
	OutcomeFailed     = "failed"
)

// Transport is the messaging-channel boundary the orchestrator delivers
// through. All operations are at-most-once best-effort.
type Transport interface {
	// SendText delivers a reply referencing replyToID and returns the sent
	// message id. When rich is true, the channel renders the text in its
	// rich mode; the transport owns whatever encoding that requires.
	SendText(ctx context.Context, conversationID, text, replyToID string, rich bool) (string, error)
	SendMedia(ctx context.Context, conversationID string, data []byte, replyToID string) error
	SetReaction(ctx context.Context, conversationID, messageID, symbol string) error
	AnnouncePresence(ctx context.Context, conversationID, kind string) error
	FetchAttachment(ctx context.Context, ref string) ([]byte, error)
}

// Backend is the generative model boundary.
type Backend interface {
	Complete(ctx context.Context, turns []conversation.Turn) (string, error)
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// MediaCache is the content-addressed media store boundary.
type MediaCache interface {
	Ingest(ctx context.Context, contentHash, originRef, base64 string) (bool, error)
	SampleRandom(ctx context.Context) (*mediacache.Item, error)
}

// EventRecorder is the fire-and-forget event log boundary.
type EventRecorder interface {
	Record(ctx context.Context, kind, subtype, payload, actorID string)
	RecordError(ctx context.Context, subtype, cause, actorID string)
}

// OutboundRecorder tracks the bot's recently sent message ids.
type OutboundRecorder interface {
	Push(ctx context.Context, conversationID, messageID string) error
}
