package xmpp

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"gosrc.io/xmpp"
	"gosrc.io/xmpp/stanza"
)

// maxAttachmentBytes bounds how much posted media is pulled into memory.
const maxAttachmentBytes = 8 << 20

// Transport delivers orchestrator output as XMPP stanzas. The sender is
// bound after the component is created, before any stanza flows.
type Transport struct {
	botJID     string
	httpClient *http.Client

	mu     sync.RWMutex
	sender xmpp.Sender
	kinds  map[string]stanza.StanzaType
}

// NewTransport creates a Transport sending from botJID.
func NewTransport(botJID string) *Transport {
	return &Transport{
		botJID:     botJID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		kinds:      make(map[string]stanza.StanzaType),
	}
}

// Bind attaches the connected component's sender.
func (t *Transport) Bind(sender xmpp.Sender) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sender = sender
}

// noteKind remembers whether a conversation is a group chat or a direct one,
// so replies go out with the stanza type the server expects.
func (t *Transport) noteKind(conversationID string, kind stanza.StanzaType) {
	if kind != stanza.MessageTypeGroupchat {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.kinds[conversationID] = kind
}

func (t *Transport) kind(conversationID string) stanza.StanzaType {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if k, ok := t.kinds[conversationID]; ok {
		return k
	}
	return stanza.MessageTypeChat
}

func (t *Transport) send(pkt stanza.Packet) error {
	t.mu.RLock()
	sender := t.sender
	t.mu.RUnlock()
	if sender == nil {
		return fmt.Errorf("transport not bound to a connected component")
	}
	return sender.Send(pkt)
}

// SendText delivers a reply and returns the sent stanza id. The body goes
// out verbatim: message bodies are character data, and the stanza encoder
// escapes reserved characters on the wire, so pre-escaping here would reach
// the user as literal entity text.
func (t *Transport) SendText(_ context.Context, conversationID, text, replyToID string, _ bool) (string, error) {
	id := uuid.New().String()
	msg := stanza.Message{
		Attrs: stanza.Attrs{
			From: t.botJID,
			To:   conversationID,
			Type: t.kind(conversationID),
			Id:   id,
		},
		Body: text,
	}
	if replyToID != "" {
		msg.Extensions = append(msg.Extensions, Reply{To: conversationID, ID: replyToID})
	}

	if err := t.send(msg); err != nil {
		return "", fmt.Errorf("sending message stanza: %w", err)
	}
	return id, nil
}

// SendMedia delivers binary media as an out-of-band data URI.
func (t *Transport) SendMedia(_ context.Context, conversationID string, data []byte, replyToID string) error {
	uri := "data:image/gif;base64," + base64.StdEncoding.EncodeToString(data)

	msg := stanza.Message{
		Attrs: stanza.Attrs{
			From: t.botJID,
			To:   conversationID,
			Type: t.kind(conversationID),
			Id:   uuid.New().String(),
		},
		Body: uri,
	}
	msg.Extensions = append(msg.Extensions, MediaLink{URL: uri})
	if replyToID != "" {
		msg.Extensions = append(msg.Extensions, Reply{To: conversationID, ID: replyToID})
	}

	if err := t.send(msg); err != nil {
		return fmt.Errorf("sending media stanza: %w", err)
	}
	return nil
}

// SetReaction attaches an emoji reaction to a prior message.
func (t *Transport) SetReaction(_ context.Context, conversationID, messageID, symbol string) error {
	msg := stanza.Message{
		Attrs: stanza.Attrs{
			From: t.botJID,
			To:   conversationID,
			Type: t.kind(conversationID),
			Id:   uuid.New().String(),
		},
	}
	msg.Extensions = append(msg.Extensions, Reactions{
		ID:       messageID,
		Reaction: []Reaction{{Value: symbol}},
	})

	if err := t.send(msg); err != nil {
		return fmt.Errorf("sending reaction stanza: %w", err)
	}
	return nil
}

// AnnouncePresence signals a chat state, typically composing, to the
// conversation.
func (t *Transport) AnnouncePresence(_ context.Context, conversationID, kind string) error {
	msg := stanza.Message{
		Attrs: stanza.Attrs{
			From: t.botJID,
			To:   conversationID,
			Type: t.kind(conversationID),
		},
	}
	switch kind {
	case "composing":
		msg.Extensions = append(msg.Extensions, stanza.StateComposing{})
	default:
		msg.Extensions = append(msg.Extensions, stanza.StateActive{})
	}

	if err := t.send(msg); err != nil {
		return fmt.Errorf("sending chat state: %w", err)
	}
	return nil
}

// FetchAttachment downloads posted media.
func (t *Transport) FetchAttachment(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("building attachment request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching attachment: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAttachmentBytes))
	if err != nil {
		return nil, fmt.Errorf("reading attachment body: %w", err)
	}
	return data, nil
}
