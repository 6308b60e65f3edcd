package xmpp

import (
	"log/slog"
	"net/url"
	"strings"

	"gosrc.io/xmpp"
	"gosrc.io/xmpp/stanza"

	"github.com/banterlabs/banter/internal/orchestrator"
)

// InboundSink receives classified inbound messages. Satisfied by the
// orchestrator; narrowed to an interface so handler tests can capture input.
type InboundSink interface {
	HandleInbound(in orchestrator.Inbound) <-chan error
}

// Handler turns incoming stanzas into orchestrator work units.
type Handler struct {
	sink      InboundSink
	transport *Transport
	// nick is the bot's occupant name in group chats, the local part of
	// its JID.
	nick string
}

// NewHandler creates a new XMPP stanza handler.
func NewHandler(sink InboundSink, transport *Transport) *Handler {
	return &Handler{
		sink:      sink,
		transport: transport,
		nick:      localpart(transport.botJID),
	}
}

// HandleMessage processes incoming <message> stanzas.
func (h *Handler) HandleMessage(_ xmpp.Sender, p stanza.Packet) {
	msg, ok := p.(stanza.Message)
	if !ok {
		return
	}
	if msg.Type == stanza.MessageTypeError {
		slog.Debug("ignoring error stanza", "from", msg.From)
		return
	}

	conversationID := bareJID(msg.From)
	h.transport.noteKind(conversationID, msg.Type)

	if h.ownMessage(msg.From, msg.Type) {
		return
	}

	in := orchestrator.Inbound{
		ConversationID: conversationID,
		SenderID:       msg.From,
		MessageID:      msg.Id,
		Text:           msg.Body,
	}

	var reply Reply
	if msg.Get(&reply) {
		in.ReplyToID = reply.ID
		in.ReplyToSender = h.replyAuthor(reply.To)
	}

	if ref := attachmentRef(msg); ref != "" {
		in.AttachmentRef = ref
		in.Text = ""
	}

	slog.Debug("XMPP message received",
		"conversation", in.ConversationID,
		"sender", in.SenderID,
		"type", string(msg.Type),
	)

	h.sink.HandleInbound(in)
}

// HandlePresence auto-approves subscription requests.
func (h *Handler) HandlePresence(s xmpp.Sender, p stanza.Packet) {
	pres, ok := p.(stanza.Presence)
	if !ok {
		return
	}

	if pres.Type == "subscribe" {
		reply := stanza.Presence{
			Attrs: stanza.Attrs{
				From: pres.To,
				To:   pres.From,
				Type: "subscribed",
			},
		}
		if err := s.Send(reply); err != nil {
			slog.Error("sending presence subscribed reply", "error", err)
		}
	}
}

// attachmentRef reports the fetchable media URL a message carries: either an
// out-of-band link or a body that is nothing but a GIF URL.
func attachmentRef(msg stanza.Message) string {
	var link MediaLink
	if msg.Get(&link) && isGifURL(link.URL) {
		return link.URL
	}
	if body := strings.TrimSpace(msg.Body); isGifURL(body) {
		return body
	}
	return ""
}

func isGifURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".gif")
}

// ownMessage reports whether a stanza is the bot's own. Direct chats carry
// its bare JID; group chats reflect its messages from the room under its
// occupant nick.
func (h *Handler) ownMessage(from string, kind stanza.StanzaType) bool {
	if bareJID(from) == h.transport.botJID {
		return true
	}
	return kind == stanza.MessageTypeGroupchat && resource(from) == h.nick
}

// replyAuthor resolves a reply target to an address comparable with the
// bot's JID. An occupant JID names its author only in the resource, so a
// target carrying the bot's nick resolves to the bot itself.
func (h *Handler) replyAuthor(to string) string {
	if resource(to) == h.nick {
		return h.transport.botJID
	}
	return bareJID(to)
}

// bareJID strips the resource part of a JID.
func bareJID(jid string) string {
	if idx := strings.Index(jid, "/"); idx >= 0 {
		return jid[:idx]
	}
	return jid
}

func resource(jid string) string {
	if idx := strings.Index(jid, "/"); idx >= 0 {
		return jid[idx+1:]
	}
	return ""
}

func localpart(jid string) string {
	if idx := strings.Index(jid, "@"); idx >= 0 {
		return jid[:idx]
	}
	return jid
}
