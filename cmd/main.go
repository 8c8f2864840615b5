package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jessevdk/go-flags"

	discordclient "tmbot/clients/discord"
	"tmbot/clients/tokenmetrics"
	"tmbot/config"
	"tmbot/core"
	"tmbot/core/log"
	"tmbot/handlers"
	"tmbot/metrics"
	"tmbot/middleware"
	"tmbot/models"
	"tmbot/services/commands"
	"tmbot/services/formatter"
	"tmbot/services/grades"
	discordusecase "tmbot/usecases/discord"
)

type Options struct {
	EnvFile string `long:"env-file" default:".env" description:"Path to a .env file loaded before reading the environment"`
	Verbose bool   `long:"verbose" description:"Enable debug logging"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		log.Error("❌ Fatal error", "error", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(opts Options) error {
	cfg, err := config.LoadConfig(opts.EnvFile)
	if err != nil {
		if _, ok := core.IsConfigurationError(err); ok {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return err
	}

	log.SetLevel(cfg.LogLevel)
	if opts.Verbose {
		log.SetLevel("debug")
	}

	m := metrics.New()

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackAlertConfig.WebhookURL,
		Environment: cfg.Environment,
		AppName:     "tmbot",
		LogsURL:     cfg.ServerLogsURL,
	}, m)

	httpClient := &http.Client{Timeout: cfg.TokenMetricsConfig.HTTPTimeout}
	tokenMetricsClient := tokenmetrics.NewTokenMetricsClient(
		httpClient,
		cfg.TokenMetricsConfig.APIURL,
		cfg.TokenMetricsConfig.APIKey,
	)
	gradesService := grades.NewGradesService(tokenMetricsClient, m, cfg.TokenMetricsConfig.MaxConcurrency)

	router := commands.NewCommandRouter(commands.DefaultRegistry())
	responseFormatter := formatter.NewResponseFormatter(router.Commands(), time.Now)

	// The use case needs the session's reply sink and the session needs the
	// use case's handler, so the handler is bound once both exist
	var processMessage func(context.Context, models.DiscordMessageEvent)
	discordHandler, err := handlers.NewDiscordEventsHandler(
		cfg.DiscordConfig.BotToken,
		func(ctx context.Context, event models.DiscordMessageEvent) {
			processMessage(ctx, event)
		},
	)
	if err != nil {
		return err
	}

	discordClient := discordclient.NewDiscordClient(discordHandler.Session())
	discordUseCase := discordusecase.NewDiscordUseCase(router, gradesService, responseFormatter, discordClient, m)
	processMessage = alertMiddleware.WrapMessageHandler(discordUseCase.ProcessDiscordMessageEvent)

	if err := discordHandler.StartBot(); err != nil {
		gradesService.Stop()
		return err
	}

	opsRouter := mux.NewRouter()
	handlers.NewOpsHTTPHandler(m).SetupEndpoints(opsRouter)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(opsRouter),
		ReadHeaderTimeout: 30 * time.Second,
	}

	log.Info("✅ tmbot started",
		"environment", cfg.Environment,
		"max_concurrency", cfg.TokenMetricsConfig.MaxConcurrency,
		"alerts", cfg.SlackAlertConfig.IsConfigured(),
	)

	return handleGracefulShutdown(server, func() {
		// Handlers still running after the gateway closes get a stopped-service failure
		discordHandler.StopBot()
		gradesService.Stop()
	}, alertMiddleware)
}

func handleGracefulShutdown(server *http.Server, stopBot func(), alerts *middleware.ErrorAlertMiddleware) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("✅ Ops server listening", "addr", "http://localhost"+server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("❌ Server error", "error", err)
		}
	}()

	<-stop
	log.Info("🛑 Shutdown signal received, cleaning up...")

	stopBot()

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("❌ Server shutdown error", "error", err)
		return err
	}

	alerts.Shutdown()
	log.Info("✅ Bot stopped gracefully")
	log.Sync()
	return nil
}
