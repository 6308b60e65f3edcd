package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/banterlabs/banter/internal/api"
	"github.com/banterlabs/banter/internal/config"
	"github.com/banterlabs/banter/internal/conversation"
	"github.com/banterlabs/banter/internal/database"
	"github.com/banterlabs/banter/internal/eventlog"
	"github.com/banterlabs/banter/internal/llm"
	"github.com/banterlabs/banter/internal/mediacache"
	inats "github.com/banterlabs/banter/internal/nats"
	"github.com/banterlabs/banter/internal/orchestrator"
	iredis "github.com/banterlabs/banter/internal/redis"
	"github.com/banterlabs/banter/internal/server"
	"github.com/banterlabs/banter/internal/xmpp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("connecting to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(cfg.DB.DSN(), "migrations"); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// NATS
	natsClient, err := inats.NewClient(ctx, cfg.NATS)
	if err != nil {
		slog.Error("connecting to nats", "error", err)
		os.Exit(1)
	}
	defer natsClient.Close()

	publisher := inats.NewPublisher(natsClient.JetStream())
	consumerMgr := inats.NewConsumerManager(natsClient.JetStream())

	// Event log: fire-and-forget publish, durable persistence
	recorder := eventlog.NewRecorder(publisher)
	logConsumer := eventlog.NewConsumer(eventlog.NewRepository(pool), consumerMgr)
	go func() {
		if err := logConsumer.Start(ctx); err != nil {
			slog.Error("event log consumer stopped", "error", err)
		}
	}()

	// Bot core
	contexts := conversation.NewContextStore(cfg.Context.Retain, cfg.Context.Window)
	lanes := conversation.NewLanes()
	outbound := conversation.NewOutboundStore(redisClient, cfg.Bot.OutboundRecent)
	backend := llm.NewClient(cfg.Backend)
	mediaRepo := mediacache.NewRepository(pool)
	transport := xmpp.NewTransport(cfg.XMPP.BotJID)

	orch := orchestrator.New(
		orchestrator.Options{
			Trigger:              cfg.Bot.Trigger,
			AllowedConversations: cfg.Bot.AllowedConversations,
			BotJID:               cfg.XMPP.BotJID,
			DelayMin:             cfg.Bot.DelayMin,
			DelayMax:             cfg.Bot.DelayMax,
		},
		lanes, contexts, outbound, transport, backend, mediaRepo, recorder,
	)

	// XMPP component
	handler := xmpp.NewHandler(orch, transport)
	comp, err := xmpp.NewComponent(cfg.XMPP, handler)
	if err != nil {
		slog.Error("creating XMPP component", "error", err)
		os.Exit(1)
	}
	transport.Bind(comp.Sender())

	go func() {
		if err := comp.Start(ctx); err != nil {
			slog.Error("XMPP component stopped", "error", err)
		}
	}()

	recorder.Record(ctx, eventlog.KindSystem, "startup", "bot started", cfg.XMPP.BotJID)

	// Ops server, blocks until shutdown signal
	router := api.NewRouter(pool, redisClient, natsClient, api.Stats{
		ActiveLanes: lanes.LaneCount,
	})
	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	cancel()
	comp.Stop()
}

func setupLogger(cfg config.LogConfig) {
	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
