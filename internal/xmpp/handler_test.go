package xmpp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gosrc.io/xmpp/stanza"

	"github.com/banterlabs/banter/internal/orchestrator"
)

type captureSink struct {
	inbound []orchestrator.Inbound
}

func (c *captureSink) HandleInbound(in orchestrator.Inbound) <-chan error {
	c.inbound = append(c.inbound, in)
	return nil
}

func newTestHandler() (*Handler, *captureSink, *Transport) {
	sink := &captureSink{}
	transport := NewTransport("banter@bot.chat.local")
	return NewHandler(sink, transport), sink, transport
}

func TestHandleMessage_MapsIdentityAndText(t *testing.T) {
	h, sink, _ := newTestHandler()

	h.HandleMessage(nil, stanza.Message{
		Attrs: stanza.Attrs{
			From: "room@muc.chat.local/alice",
			To:   "banter@bot.chat.local",
			Type: stanza.MessageTypeGroupchat,
			Id:   "msg-42",
		},
		Body: "hey banter",
	})

	require.Len(t, sink.inbound, 1)
	in := sink.inbound[0]
	assert.Equal(t, "room@muc.chat.local", in.ConversationID)
	assert.Equal(t, "room@muc.chat.local/alice", in.SenderID)
	assert.Equal(t, "msg-42", in.MessageID)
	assert.Equal(t, "hey banter", in.Text)
	assert.Empty(t, in.AttachmentRef)
}

func TestHandleMessage_ExtractsReplyReference(t *testing.T) {
	h, sink, _ := newTestHandler()

	msg := stanza.Message{
		Attrs: stanza.Attrs{From: "alice@chat.local/phone", Id: "m2"},
		Body:  "and then what?",
	}
	msg.Extensions = append(msg.Extensions, &Reply{To: "banter@bot.chat.local/bot", ID: "m1"})

	h.HandleMessage(nil, msg)

	require.Len(t, sink.inbound, 1)
	assert.Equal(t, "m1", sink.inbound[0].ReplyToID)
	assert.Equal(t, "banter@bot.chat.local", sink.inbound[0].ReplyToSender)
}

func TestHandleMessage_DetectsGifAttachment(t *testing.T) {
	h, sink, _ := newTestHandler()

	h.HandleMessage(nil, stanza.Message{
		Attrs: stanza.Attrs{From: "alice@chat.local/phone", Id: "m3"},
		Body:  "https://cdn.chat.local/funny.gif",
	})

	require.Len(t, sink.inbound, 1)
	assert.Equal(t, "https://cdn.chat.local/funny.gif", sink.inbound[0].AttachmentRef)
	assert.Empty(t, sink.inbound[0].Text, "attachment messages carry no text turn")
}

func TestHandleMessage_IgnoresErrorStanzas(t *testing.T) {
	h, sink, _ := newTestHandler()

	h.HandleMessage(nil, stanza.Message{
		Attrs: stanza.Attrs{From: "alice@chat.local", Type: stanza.MessageTypeError},
		Body:  "bounce",
	})

	assert.Empty(t, sink.inbound)
}

func TestHandleMessage_RemembersGroupchatKind(t *testing.T) {
	h, _, transport := newTestHandler()

	h.HandleMessage(nil, stanza.Message{
		Attrs: stanza.Attrs{
			From: "room@muc.chat.local/alice",
			Type: stanza.MessageTypeGroupchat,
		},
		Body: "hi",
	})

	assert.Equal(t, stanza.MessageTypeGroupchat, transport.kind("room@muc.chat.local"))
	assert.Equal(t, stanza.MessageTypeChat, transport.kind("alice@chat.local"))
}

func TestIsGifURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://cdn.chat.local/a.gif", true},
		{"http://cdn.chat.local/a.GIF", true},
		{"https://cdn.chat.local/a.png", false},
		{"ftp://cdn.chat.local/a.gif", false},
		{"look at https://cdn.chat.local/a.gif", false},
		{"just words", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isGifURL(tt.in), "input %q", tt.in)
	}
}

func TestHandleMessage_DropsOwnGroupchatEcho(t *testing.T) {
	h, sink, _ := newTestHandler()

	h.HandleMessage(nil, stanza.Message{
		Attrs: stanza.Attrs{
			From: "room@muc.chat.local/banter",
			Type: stanza.MessageTypeGroupchat,
		},
		Body: "sure thing",
	})

	assert.Empty(t, sink.inbound)
}

func TestHandleMessage_DropsOwnDirectMessage(t *testing.T) {
	h, sink, _ := newTestHandler()

	h.HandleMessage(nil, stanza.Message{
		Attrs: stanza.Attrs{From: "banter@bot.chat.local/bot"},
		Body:  "sure thing",
	})

	assert.Empty(t, sink.inbound)
}

func TestHandleMessage_GroupchatReplyToBotNickIsContinuation(t *testing.T) {
	h, sink, _ := newTestHandler()

	msg := stanza.Message{
		Attrs: stanza.Attrs{
			From: "room@muc.chat.local/alice",
			Type: stanza.MessageTypeGroupchat,
			Id:   "m2",
		},
		Body: "and then what?",
	}
	msg.Extensions = append(msg.Extensions, &Reply{To: "room@muc.chat.local/banter", ID: "m1"})

	h.HandleMessage(nil, msg)

	require.Len(t, sink.inbound, 1)
	// The occupant JID bares to the room; the nick is what names the bot.
	assert.Equal(t, "banter@bot.chat.local", sink.inbound[0].ReplyToSender)
}

func TestHandleMessage_GroupchatReplyToOtherOccupant(t *testing.T) {
	h, sink, _ := newTestHandler()

	msg := stanza.Message{
		Attrs: stanza.Attrs{
			From: "room@muc.chat.local/alice",
			Type: stanza.MessageTypeGroupchat,
			Id:   "m3",
		},
		Body: "what do you think?",
	}
	msg.Extensions = append(msg.Extensions, &Reply{To: "room@muc.chat.local/carol", ID: "m1"})

	h.HandleMessage(nil, msg)

	require.Len(t, sink.inbound, 1)
	assert.NotEqual(t, "banter@bot.chat.local", sink.inbound[0].ReplyToSender)
}

func TestBareJID(t *testing.T) {
	assert.Equal(t, "room@muc.chat.local", bareJID("room@muc.chat.local/alice"))
	assert.Equal(t, "alice@chat.local", bareJID("alice@chat.local"))
}

func TestJIDParts(t *testing.T) {
	assert.Equal(t, "alice", resource("room@muc.chat.local/alice"))
	assert.Equal(t, "", resource("room@muc.chat.local"))
	assert.Equal(t, "banter", localpart("banter@bot.chat.local"))
}
