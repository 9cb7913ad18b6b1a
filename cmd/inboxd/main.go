// inboxd is the second-brain service: ingestion pipeline, reminder
// scheduler, and companion-client HTTP API in one process, wired the
// way the teacher's cmd/tarsy/main.go wires its own services (flag +
// .env config dir, gin, config.Initialize → database.NewClient →
// service construction → HTTP listen).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/codeready-toolchain/inbox/pkg/agent"
	"github.com/codeready-toolchain/inbox/pkg/agent/chatbuf"
	"github.com/codeready-toolchain/inbox/pkg/agent/confirm"
	"github.com/codeready-toolchain/inbox/pkg/agent/tools"
	"github.com/codeready-toolchain/inbox/pkg/api"
	"github.com/codeready-toolchain/inbox/pkg/config"
	"github.com/codeready-toolchain/inbox/pkg/database"
	"github.com/codeready-toolchain/inbox/pkg/ports"
	"github.com/codeready-toolchain/inbox/pkg/router"
	"github.com/codeready-toolchain/inbox/pkg/scheduler"
	"github.com/codeready-toolchain/inbox/pkg/search"
	"github.com/codeready-toolchain/inbox/pkg/store"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("could not load .env file, continuing with existing environment", "path", envPath, "error", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}))
	slog.SetDefault(logger)

	httpPort := getEnv("HTTP_PORT", "8080")
	gin.SetMode(getEnv("GIN_MODE", "release"))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configDir, httpPort, logger); err != nil {
		logger.Error("inboxd exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configDir, httpPort string, logger *slog.Logger) error {
	cfg, err := config.Initialize(ctx, configDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	llmCfg, err := cfg.LLMRegistry.Get(cfg.DefaultLLM)
	if err != nil {
		return fmt.Errorf("resolving default LLM provider %q: %w", cfg.DefaultLLM, err)
	}

	dbCfg, err := database.LoadConfigFromEnv()
	if err != nil {
		return fmt.Errorf("loading database configuration: %w", err)
	}
	dbClient, err := database.NewClient(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logger.Error("closing database client", "error", err)
		}
	}()
	logger.Info("connected to database", "host", dbCfg.Host, "database", dbCfg.Database)

	st := store.New(dbClient.Client)

	apiKey := os.Getenv(llmCfg.APIKeyEnv)
	chat, err := ports.NewAnthropicChat(apiKey)
	if err != nil {
		return fmt.Errorf("constructing LLM client: %w", err)
	}

	var embed ports.Embed = ports.NotImplementedEmbed{}
	embedFunc := ports.AsEmbedFunc(embed)

	searchEngine := search.New(dbClient.DB(), search.EmbedFunc(embedFunc), logger)

	pipeline := agent.NewPipeline(st, searchEngine, chat, embed, llmCfg, cfg.DefaultLLM, cfg.Queue.PipelineDeadline, logger)

	confirmStore := confirm.NewStore()
	toolExecutor := tools.NewExecutor(st, confirmStore, embedFunc)
	toolLoop := tools.NewLoop(chat, toolExecutor)
	history := chatbuf.New()

	classifier := router.NewClassifier(chat, llmCfg.FastModel)
	fetchURL := ports.NewHTTPFetcher(cfg.Runbook.AllowedDomains, cfg.Runbook.FetchTimeout)
	rtr := router.New(classifier, pipeline, toolLoop, history, st.Users, fetchURL, llmCfg, logger)

	dispatcher := buildDispatcher(logger)
	sched := scheduler.New(st, dispatcher, cfg.Scheduler.TickInterval, cfg.Scheduler.LookbackWindow, cfg.Scheduler.LookaheadWindow, logger)
	sched.Start(ctx)
	defer sched.Stop()

	server := api.NewServer(st, searchEngine, cfg.Auth, rtr, dbClient.DB())

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "port", httpPort)
		if err := server.Start(":" + httpPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down HTTP server: %w", err)
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// buildDispatcher wires the scheduler's reminder transport to Slack when
// credentials are present in the environment; otherwise reminders are
// only logged (scheduler.New tolerates a nil Dispatcher).
func buildDispatcher(logger *slog.Logger) scheduler.Dispatcher {
	token := os.Getenv("SLACK_BOT_TOKEN")
	channel := os.Getenv("SLACK_REMINDER_CHANNEL")
	if token == "" || channel == "" {
		logger.Info("SLACK_BOT_TOKEN/SLACK_REMINDER_CHANNEL not set, reminders will be logged only")
		return nil
	}
	return scheduler.NewSlackDispatcher(token, channel)
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
