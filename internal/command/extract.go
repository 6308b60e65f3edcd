// Package command interprets control tags embedded in model output. Tags are
// side-effecting instructions (set a reaction, send a cached gif) and are
// stripped from the user-visible reply.
package command

import (
	"regexp"
	"strings"
)

// Recognized tag patterns. A parameterized tag carries exactly one capturing
// group; a flag-only tag carries none.
var (
	ReactionPattern = regexp.MustCompile(`%Reaction\(([^)]+)\)%`)
	SendGifPattern  = regexp.MustCompile(`%SendGif%`)
)

// Commands holds whatever was extracted from one response. Consumed once by
// the dispatcher and discarded.
type Commands struct {
	// Reaction is the extracted reaction symbol, empty if absent.
	Reaction string
	// SendGif reports whether the gif-send flag was present.
	SendGif bool
}

// Extract applies one tag pattern to raw text. On a match the first matched
// span is removed, the result is trimmed of surrounding whitespace, and the
// capture (if the pattern has one) is returned. On no match the text comes
// back unchanged. Pure: no I/O, no state.
func Extract(raw string, pattern *regexp.Regexp) (value string, found bool, remaining string) {
	loc := pattern.FindStringSubmatchIndex(raw)
	if loc == nil {
		return "", false, raw
	}
	if len(loc) >= 4 && loc[2] >= 0 {
		value = raw[loc[2]:loc[3]]
	}
	remaining = strings.TrimSpace(raw[:loc[0]] + raw[loc[1]:])
	return value, true, remaining
}

// Parse runs the fixed pass order over raw model output: reaction tag first,
// then gif flag, each pass on the previous pass's remainder. Returns the
// extracted commands and the cleaned display text.
func Parse(raw string) (Commands, string) {
	var cmds Commands

	symbol, found, rest := Extract(raw, ReactionPattern)
	if found {
		cmds.Reaction = symbol
	}

	_, found, rest = Extract(rest, SendGifPattern)
	cmds.SendGif = found

	return cmds, rest
}
