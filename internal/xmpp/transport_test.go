package xmpp

import (
	"context"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gosrc.io/xmpp/stanza"
)

type captureSender struct {
	packets []stanza.Packet
}

func (c *captureSender) Send(p stanza.Packet) error {
	c.packets = append(c.packets, p)
	return nil
}

func (c *captureSender) SendIQ(_ context.Context, _ *stanza.IQ) (chan stanza.IQ, error) {
	return nil, nil
}

func (c *captureSender) SendRaw(_ string) error {
	return nil
}

func TestSendText_BodyPassedVerbatim(t *testing.T) {
	sender := &captureSender{}
	transport := NewTransport("banter@bot.chat.local")
	transport.Bind(sender)

	const text = "1 < 2 && 3 > 2"
	id, err := transport.SendText(context.Background(), "alice@chat.local", text, "m1", true)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.Len(t, sender.packets, 1)
	msg, ok := sender.packets[0].(stanza.Message)
	require.True(t, ok)
	assert.Equal(t, text, msg.Body, "encoding is the wire layer's job")
}

func TestSendText_BodySurvivesWireEncoding(t *testing.T) {
	sender := &captureSender{}
	transport := NewTransport("banter@bot.chat.local")
	transport.Bind(sender)

	const text = "1 < 2 && 3 > 2"
	_, err := transport.SendText(context.Background(), "alice@chat.local", text, "", true)
	require.NoError(t, err)

	// What the stanza encoder puts on the wire must decode back to the
	// original text on the receiving side.
	wire, err := xml.Marshal(sender.packets[0])
	require.NoError(t, err)

	var decoded stanza.Message
	require.NoError(t, xml.Unmarshal(wire, &decoded))
	assert.Equal(t, text, decoded.Body)
}

func TestSendText_UnboundTransportFails(t *testing.T) {
	transport := NewTransport("banter@bot.chat.local")

	_, err := transport.SendText(context.Background(), "alice@chat.local", "hi", "", true)
	assert.Error(t, err)
}
