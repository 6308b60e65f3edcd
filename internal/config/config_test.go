package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AllowedConversationsFromEnv(t *testing.T) {
	t.Setenv("BOT_ALLOWED_CONVERSATIONS", "room1@muc.chat.local,room2@muc.chat.local")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"room1@muc.chat.local", "room2@muc.chat.local"},
		cfg.Bot.AllowedConversations)
}

func TestLoad_AllowedConversationsUnsetMeansEmpty(t *testing.T) {
	t.Setenv("BOT_ALLOWED_CONVERSATIONS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Bot.AllowedConversations)
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a@x,b@x", []string{"a@x", "b@x"}},
		{" a@x , b@x ", []string{"a@x", "b@x"}},
		{"a@x", []string{"a@x"}},
		{"a@x,,b@x,", []string{"a@x", "b@x"}},
		{"", nil},
		{" , ", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitList(tt.in), "input %q", tt.in)
	}
}
