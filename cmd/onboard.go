package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mymmrac/telego"
	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/reorderbot/internal/channels/telegram"
	"github.com/nextlevelbuilder/reorderbot/internal/config"
)

func onboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onboard",
		Short: "Interactive setup wizard",
		Run: func(cmd *cobra.Command, args []string) {
			runOnboard()
		},
	}
}

// runOnboard walks through the first-run setup: prompt for the bot token,
// verify it against the Bot API, then write config.json5 and .env.local.
func runOnboard() {
	fmt.Println("Reorderbot setup")
	fmt.Println()

	var token, proxy string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Telegram bot token").
				Description("Create a bot with @BotFather and paste its token here.").
				Placeholder("123456789:AA...").
				EchoMode(huh.EchoModePassword).
				Value(&token).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("token is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("HTTP proxy (optional)").
				Description("Leave empty unless api.telegram.org needs a proxy.").
				Placeholder("http://127.0.0.1:3128").
				Value(&proxy),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println("Setup cancelled.")
		os.Exit(1)
	}

	token = strings.TrimSpace(token)
	proxy = strings.TrimSpace(proxy)

	fmt.Print("  Verifying token with Telegram...")
	me, err := verifyBotToken(token, proxy)
	if err != nil {
		fmt.Println(" FAILED")
		fmt.Printf("  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf(" OK (@%s)\n", me.Username)

	cfgPath := resolveConfigPath()
	cfg := config.Default()
	cfg.Telegram.Token = token
	cfg.Telegram.Proxy = proxy

	// secrets live in .env.local, never in the config file
	cfg.StripSecrets()
	if err := config.Save(cfgPath, cfg); err != nil {
		fmt.Printf("  Warning: could not save config: %v\n", err)
	} else {
		fmt.Printf("  Config saved to %s\n", cfgPath)
	}

	envPath := filepath.Join(filepath.Dir(cfgPath), ".env.local")
	envLine := fmt.Sprintf("export REORDERBOT_TELEGRAM_TOKEN=%s\n", token)
	if err := os.WriteFile(envPath, []byte(envLine), 0600); err != nil {
		fmt.Printf("  Warning: could not write %s: %v\n", envPath, err)
	} else {
		fmt.Printf("  Token saved to %s\n", envPath)
	}

	fmt.Println()
	fmt.Println("Setup complete. Start the bot with:")
	fmt.Println()
	fmt.Printf("  source %s && ./reorderbot\n", envPath)
}

// verifyBotToken checks the token against the live Bot API.
func verifyBotToken(token, proxy string) (*telego.User, error) {
	bot, err := telegram.NewBot(config.TelegramConfig{Token: token, Proxy: proxy})
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return bot.GetMe(ctx)
}
