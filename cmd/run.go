package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/nextlevelbuilder/reorderbot/internal/channels"
	"github.com/nextlevelbuilder/reorderbot/internal/channels/telegram"
	"github.com/nextlevelbuilder/reorderbot/internal/config"
	"github.com/nextlevelbuilder/reorderbot/internal/reorder"
	"github.com/nextlevelbuilder/reorderbot/internal/tracing"
)

// runBot wires the pipeline and blocks until SIGINT/SIGTERM.
func runBot() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "path", cfgPath, "error", err)
		os.Exit(1)
	}

	// The bot token is the one required secret. A config file without it
	// means the user onboarded but forgot to source .env.local; no config
	// file at all means first run.
	if cfg.Telegram.Token == "" {
		if _, statErr := os.Stat(cfgPath); statErr == nil {
			envPath := filepath.Join(filepath.Dir(cfgPath), ".env.local")
			fmt.Println("No Telegram bot token found. Did you forget to load your secrets?")
			fmt.Println()
			fmt.Printf("  source %s && ./reorderbot\n", envPath)
			fmt.Println()
			fmt.Println("Or re-run the setup wizard:  ./reorderbot onboard")
			os.Exit(1)
		}
		fmt.Println("No configuration found. Starting setup wizard...")
		fmt.Println()
		runOnboard()
		return
	}

	timings := cfg.Reorder.Timings()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Telemetry)
	if err != nil {
		slog.Warn("telemetry setup failed, continuing without export", "error", err)
	}

	sessions := reorder.NewSessionStore(timings.SessionTTL)
	throttle := channels.NewReplyThrottle(timings.WarnCooldown)

	tg, err := telegram.New(cfg.Telegram, sessions, throttle, timings.GroupDebounce)
	if err != nil {
		slog.Error("failed to initialize telegram channel", "error", err)
		os.Exit(1)
	}

	if err := tg.Start(ctx); err != nil {
		slog.Error("failed to start telegram channel", "error", err)
		os.Exit(1)
	}

	janitor := reorder.NewJanitor(tg.Pending(), timings.JanitorInterval, timings.GroupMaxAge)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return janitor.Run(gctx)
	})

	slog.Info("reorderbot started",
		"version", Version,
		"debounce", timings.GroupDebounce,
		"session_ttl", timings.SessionTTL,
		"janitor_interval", timings.JanitorInterval,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("graceful shutdown initiated", "signal", sig.String())

	stopChannels(tg)
	cancel()
	if err := g.Wait(); err != nil {
		slog.Warn("background worker exited with error", "error", err)
	}
	if shutdownTracing != nil {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Warn("telemetry shutdown failed", "error", err)
		}
	}
	slog.Info("reorderbot stopped")
}

// stopChannels stops every running channel.
func stopChannels(chs ...channels.Channel) {
	for _, ch := range chs {
		if !ch.IsRunning() {
			continue
		}
		if err := ch.Stop(context.Background()); err != nil {
			slog.Warn("channel stop failed", "channel", ch.Name(), "error", err)
		}
	}
}
