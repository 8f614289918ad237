// Package telegram implements the Telegram channel: long-polled updates in,
// the reorder pipeline in the middle, messages and albums out.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/nextlevelbuilder/reorderbot/internal/channels"
	"github.com/nextlevelbuilder/reorderbot/internal/config"
	"github.com/nextlevelbuilder/reorderbot/internal/reorder"
)

// api is the slice of the Bot API the handlers use. *telego.Bot satisfies
// it; tests substitute a recording fake.
type api interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	SendMediaGroup(ctx context.Context, params *telego.SendMediaGroupParams) ([]telego.Message, error)
	SetMyCommands(ctx context.Context, params *telego.SetMyCommandsParams) error
	DeleteMyCommands(ctx context.Context, params *telego.DeleteMyCommandsParams) error
}

// Channel connects to Telegram via the Bot API using long polling.
type Channel struct {
	*channels.BaseChannel
	bot       *telego.Bot
	api       api
	config    config.TelegramConfig
	sessions  *reorder.SessionStore
	collector *reorder.Collector
	throttle  *channels.ReplyThrottle
	tracer    trace.Tracer

	pollCancel context.CancelFunc // cancels the long polling context
	pollDone   chan struct{}      // closed when the polling goroutine exits
}

// NewBot builds the telego client for the config, routing through the HTTP
// proxy when one is set.
func NewBot(cfg config.TelegramConfig) (*telego.Bot, error) {
	var opts []telego.BotOption
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", cfg.Proxy, err)
		}
		opts = append(opts, telego.WithHTTPClient(&http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyURL(proxyURL),
			},
		}))
	}

	bot, err := telego.NewBot(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return bot, nil
}

// New creates the Telegram channel over the injected stores. The channel
// owns its media-group collector; debounce is the quiet period after which
// a buffered group finalizes.
func New(cfg config.TelegramConfig, sessions *reorder.SessionStore, throttle *channels.ReplyThrottle, debounce time.Duration) (*Channel, error) {
	bot, err := NewBot(cfg)
	if err != nil {
		return nil, err
	}

	c := &Channel{
		BaseChannel: channels.NewBaseChannel("telegram"),
		bot:         bot,
		api:         bot,
		config:      cfg,
		sessions:    sessions,
		throttle:    throttle,
		tracer:      otel.Tracer("reorderbot/telegram"),
	}
	c.collector = reorder.NewCollector(debounce, c.flushGroup)
	return c, nil
}

// Pending exposes the media-group buffer so the janitor can sweep it.
func (c *Channel) Pending() *reorder.Collector { return c.collector }

// Start begins long polling for updates.
func (c *Channel) Start(ctx context.Context) error {
	slog.Info("starting telegram bot (polling mode)")

	pollCtx, cancel := context.WithCancel(ctx)
	c.pollCancel = cancel
	c.pollDone = make(chan struct{})

	updates, err := c.bot.UpdatesViaLongPolling(pollCtx, &telego.GetUpdatesParams{
		Timeout:        30,
		AllowedUpdates: []string{"message"},
	})
	if err != nil {
		cancel()
		return fmt.Errorf("start long polling: %w", err)
	}

	c.SetRunning(true)
	slog.Info("telegram bot connected", "username", c.bot.Username())

	go c.syncMenuWithRetry(pollCtx)

	go func() {
		defer close(c.pollDone)
		for {
			select {
			case <-pollCtx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					slog.Info("telegram updates channel closed")
					return
				}
				c.handleUpdate(pollCtx, update)
			}
		}
	}()

	return nil
}

// Stop cancels long polling and waits for the update loop to exit so
// Telegram releases the getUpdates lock before a new instance starts.
func (c *Channel) Stop(_ context.Context) error {
	slog.Info("stopping telegram bot")
	c.SetRunning(false)

	if c.pollCancel != nil {
		c.pollCancel()
	}

	if c.pollDone != nil {
		select {
		case <-c.pollDone:
			slog.Info("telegram bot stopped")
		case <-time.After(10 * time.Second):
			slog.Warn("telegram polling goroutine did not exit within timeout")
		}
	}

	return nil
}

// reply sends a plain text message. Send failures are logged, not
// propagated; a failed reply never takes down the update loop.
func (c *Channel) reply(ctx context.Context, chatID int64, text string) {
	if _, err := c.api.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		slog.Warn("telegram send failed", "chat", chatID, "error", err)
	}
}
