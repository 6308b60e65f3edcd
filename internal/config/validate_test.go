package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{
		XMPP: XMPPConfig{
			ComponentName:   "bot.chat.local",
			ComponentSecret: "secret",
			BotJID:          "banter@bot.chat.local",
		},
		Backend: BackendConfig{
			URL:    "https://llm.example.com/v1/chat/completions",
			APIKey: "sk-test",
			Model:  "test-model",
		},
		Bot: BotConfig{
			Trigger: "banter",
		},
		DB: DBConfig{
			Password: "hunter2",
		},
	}
	applyDefaults(cfg)
	return cfg
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_RetainBelowWindow(t *testing.T) {
	cfg := validConfig()
	cfg.Context.Retain = 4
	cfg.Context.Window = 8

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONTEXT_RETAIN")
}

func TestValidate_MissingBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Backend.URL = ""
	cfg.Backend.APIKey = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Backend.URL")
	assert.Contains(t, err.Error(), "Backend.APIKey")
}

func TestValidate_DelayRange(t *testing.T) {
	cfg := validConfig()
	cfg.Bot.DelayMin = 5 * time.Second
	cfg.Bot.DelayMax = 1 * time.Second

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_DELAY_MAX")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.DB.Password = ""
	cfg.Bot.Trigger = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, 2, strings.Count(err.Error(), "\n"))
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, 18, cfg.Context.Retain)
	assert.Equal(t, 8, cfg.Context.Window)
	assert.Equal(t, 10, cfg.Bot.OutboundRecent)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 1024, cfg.Backend.MaxTokens)
	assert.Equal(t, 5347, cfg.XMPP.ComponentPort)
}
