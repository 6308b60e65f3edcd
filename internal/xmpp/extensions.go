package xmpp

import (
	"encoding/xml"

	"gosrc.io/xmpp/stanza"
)

// Reply references the message a stanza responds to (XEP-0461).
type Reply struct {
	stanza.MsgExtension
	XMLName xml.Name `xml:"urn:xmpp:reply:0 reply"`
	To      string   `xml:"to,attr"`
	ID      string   `xml:"id,attr"`
}

// Reactions attaches emoji reactions to a prior message (XEP-0444).
type Reactions struct {
	stanza.MsgExtension
	XMLName  xml.Name   `xml:"urn:xmpp:reactions:0 reactions"`
	ID       string     `xml:"id,attr"`
	Reaction []Reaction `xml:"reaction"`
}

type Reaction struct {
	Value string `xml:",chardata"`
}

// MediaLink carries an out-of-band media reference (XEP-0066). Outbound
// media is embedded as a data URI so no upload service is required.
type MediaLink struct {
	stanza.MsgExtension
	XMLName xml.Name `xml:"jabber:x:oob x"`
	URL     string   `xml:"url"`
	Desc    string   `xml:"desc,omitempty"`
}

func init() {
	stanza.TypeRegistry.MapExtension(stanza.PKTMessage,
		xml.Name{Space: "urn:xmpp:reply:0", Local: "reply"}, Reply{})
	stanza.TypeRegistry.MapExtension(stanza.PKTMessage,
		xml.Name{Space: "urn:xmpp:reactions:0", Local: "reactions"}, Reactions{})
	stanza.TypeRegistry.MapExtension(stanza.PKTMessage,
		xml.Name{Space: "jabber:x:oob", Local: "x"}, MediaLink{})
}
