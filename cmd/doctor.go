package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/reorderbot/internal/channels/telegram"
	"github.com/nextlevelbuilder/reorderbot/internal/config"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check environment and configuration health",
		Run: func(cmd *cobra.Command, args []string) {
			runDoctor()
		},
	}
}

func runDoctor() {
	fmt.Println("reorderbot doctor")
	fmt.Printf("  Version:  %s\n", Version)
	fmt.Printf("  OS:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Go:       %s\n", runtime.Version())
	fmt.Println()

	cfgPath := resolveConfigPath()
	fmt.Printf("  Config:   %s", cfgPath)
	if _, err := os.Stat(cfgPath); err != nil {
		fmt.Println(" (NOT FOUND)")
	} else {
		fmt.Println(" (OK)")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  Config load error: %s\n", err)
		return
	}

	fmt.Println()
	fmt.Println("  Telegram:")
	checkSecret("Token", cfg.Telegram.Token)
	if cfg.Telegram.Proxy != "" {
		fmt.Printf("    %-12s %s\n", "Proxy:", cfg.Telegram.Proxy)
	} else {
		fmt.Printf("    %-12s (none)\n", "Proxy:")
	}

	t := cfg.Reorder.Timings()
	fmt.Println()
	fmt.Println("  Timings:")
	fmt.Printf("    %-18s %s\n", "Group debounce:", t.GroupDebounce)
	fmt.Printf("    %-18s %s\n", "Session TTL:", t.SessionTTL)
	fmt.Printf("    %-18s %s\n", "Janitor interval:", t.JanitorInterval)
	fmt.Printf("    %-18s %s\n", "Group max age:", t.GroupMaxAge)
	fmt.Printf("    %-18s %s\n", "Warn cooldown:", t.WarnCooldown)

	fmt.Println()
	fmt.Println("  Telemetry:")
	if cfg.Telemetry.Enabled {
		proto := cfg.Telemetry.Protocol
		if proto == "" {
			proto = "grpc"
		}
		fmt.Printf("    %-12s %s (%s)\n", "Endpoint:", cfg.Telemetry.Endpoint, proto)
	} else {
		fmt.Printf("    %-12s disabled\n", "Export:")
	}

	fmt.Println()
	if cfg.Telegram.Token == "" {
		fmt.Println("  Bot API:  (skipped, no token)")
	} else {
		fmt.Print("  Bot API:  ")
		if me, err := probeBotAPI(cfg.Telegram); err != nil {
			fmt.Printf("UNREACHABLE (%s)\n", err)
		} else {
			fmt.Printf("@%s (OK)\n", me.Username)
		}
	}

	fmt.Println()
	fmt.Println("Doctor check complete.")
}

// probeBotAPI performs a live getMe with a bounded timeout.
func probeBotAPI(cfg config.TelegramConfig) (*telego.User, error) {
	bot, err := telegram.NewBot(cfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return bot.GetMe(ctx)
}

// checkSecret prints a masked secret, or a placeholder when unset.
func checkSecret(name, secret string) {
	if secret == "" {
		fmt.Printf("    %-12s (not configured)\n", name+":")
		return
	}
	fmt.Printf("    %-12s %s\n", name+":", maskSecret(secret))
}

// maskSecret keeps the first and last four characters of a long secret.
func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}
