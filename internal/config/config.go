package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	NATS    NATSConfig
	XMPP    XMPPConfig
	Backend BackendConfig
	Bot     BotConfig
	Context ContextConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host string
	Port int `validate:"min=1,max=65535"`
}

type DBConfig struct {
	Host     string
	Port     int `validate:"min=1,max=65535"`
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int `validate:"min=1,max=65535"`
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	URL string `validate:"required"`
}

type XMPPConfig struct {
	ComponentHost   string
	ComponentPort   int    `validate:"min=1,max=65535"`
	ComponentName   string `validate:"required"`
	ComponentSecret string `validate:"required"`
	// BotJID is the address replies, reactions and media are sent from.
	BotJID string `validate:"required"`
}

func (c XMPPConfig) ComponentAddr() string {
	return fmt.Sprintf("%s:%d", c.ComponentHost, c.ComponentPort)
}

type BackendConfig struct {
	URL       string `validate:"required,url"`
	APIKey    string `validate:"required"`
	Model     string `validate:"required"`
	Preamble  string
	Timeout   time.Duration
	MaxTokens int
	// Image generation endpoint and model for the draw-intent path.
	ImageURL   string
	ImageModel string
	ImageSize  string
}

type BotConfig struct {
	// Trigger is the phrase that activates the bot in a shared conversation.
	Trigger string `validate:"required"`
	// AllowedConversations is the allow-list of conversation identities the
	// bot acts in. Empty means act everywhere.
	AllowedConversations []string
	// DelayMin/DelayMax bound the randomized pre-think pause.
	DelayMin time.Duration
	DelayMax time.Duration
	// OutboundRecent bounds the trailing list of bot-sent message ids.
	OutboundRecent int
}

type ContextConfig struct {
	// Retain is how many turns a conversation keeps.
	Retain int `validate:"min=1"`
	// Window is how many trailing turns a backend call forwards.
	Window int `validate:"min=1"`
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: k.Int("server.port"),
		},
		DB: DBConfig{
			Host:     k.String("db.host"),
			Port:     k.Int("db.port"),
			User:     k.String("db.user"),
			Password: k.String("db.password"),
			Name:     k.String("db.name"),
			SSLMode:  k.String("db.sslmode"),
			MaxConns: int32(k.Int("db.max.conns")),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		NATS: NATSConfig{
			URL: k.String("nats.url"),
		},
		XMPP: XMPPConfig{
			ComponentHost:   k.String("xmpp.component.host"),
			ComponentPort:   k.Int("xmpp.component.port"),
			ComponentName:   k.String("xmpp.component.name"),
			ComponentSecret: k.String("xmpp.component.secret"),
			BotJID:          k.String("xmpp.bot.jid"),
		},
		Backend: BackendConfig{
			URL:        k.String("backend.url"),
			APIKey:     k.String("backend.api.key"),
			Model:      k.String("backend.model"),
			Preamble:   k.String("backend.preamble"),
			Timeout:    k.Duration("backend.timeout"),
			MaxTokens:  k.Int("backend.max.tokens"),
			ImageURL:   k.String("backend.image.url"),
			ImageModel: k.String("backend.image.model"),
			ImageSize:  k.String("backend.image.size"),
		},
		Bot: BotConfig{
			Trigger:              k.String("bot.trigger"),
			AllowedConversations: splitList(k.String("bot.allowed.conversations")),
			DelayMin:             k.Duration("bot.delay.min"),
			DelayMax:             k.Duration("bot.delay.max"),
			OutboundRecent:       k.Int("bot.outbound.recent"),
		},
		Context: ContextConfig{
			Retain: k.Int("context.retain"),
			Window: k.Int("context.window"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	applyDefaults(cfg)
	return cfg, nil
}

// splitList parses a comma-separated env value into its non-empty entries.
// Env and dotenv providers only carry flat strings, so list-valued options
// arrive as one delimited value.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "banter"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "banter"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 4
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.NATS.URL == "" {
		cfg.NATS.URL = "nats://localhost:4222"
	}
	if cfg.XMPP.ComponentHost == "" {
		cfg.XMPP.ComponentHost = "localhost"
	}
	if cfg.XMPP.ComponentPort == 0 {
		cfg.XMPP.ComponentPort = 5347
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 30 * time.Second
	}
	if cfg.Backend.MaxTokens == 0 {
		cfg.Backend.MaxTokens = 1024
	}
	if cfg.Backend.ImageSize == "" {
		cfg.Backend.ImageSize = "1024x1024"
	}
	if cfg.Bot.DelayMin == 0 {
		cfg.Bot.DelayMin = 1 * time.Second
	}
	if cfg.Bot.DelayMax == 0 {
		cfg.Bot.DelayMax = 3 * time.Second
	}
	if cfg.Bot.OutboundRecent == 0 {
		cfg.Bot.OutboundRecent = 10
	}
	if cfg.Context.Retain == 0 {
		cfg.Context.Retain = 18
	}
	if cfg.Context.Window == 0 {
		cfg.Context.Window = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
