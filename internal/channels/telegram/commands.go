package telegram

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// commandOf extracts a normalized "/command" from a text message, stripping
// arguments and the @botname suffix. Returns "" for non-commands.
func commandOf(text string) string {
	if text == "" || text[0] != '/' {
		return ""
	}
	cmd := strings.SplitN(text, " ", 2)[0]
	cmd = strings.SplitN(cmd, "@", 2)[0]
	return strings.ToLower(cmd)
}

// isResetText matches the reset commands and the reset keyboard button.
func isResetText(text string) bool {
	switch commandOf(text) {
	case "/start", "/reset":
		return true
	}
	return text == resetButtonText
}

// isHelpText matches the help command and the help keyboard button.
func isHelpText(text string) bool {
	return commandOf(text) == "/help" || text == helpButtonText
}

// startKeyboard is the persistent one-row reply keyboard sent with the
// instructions.
func startKeyboard() *telego.ReplyKeyboardMarkup {
	return tu.Keyboard(
		tu.KeyboardRow(
			tu.KeyboardButton(helpButtonText),
			tu.KeyboardButton(resetButtonText),
		),
	).WithResizeKeyboard()
}

// handleReset clears the user's session and pending groups and replies
// with the instructions.
func (c *Channel) handleReset(ctx context.Context, msg *telego.Message) {
	userID := msg.From.ID
	c.sessions.Clear(userID)
	if dropped := c.collector.ClearUser(userID); dropped > 0 {
		slog.Debug("dropped pending groups on reset", "user", userID, "count", dropped)
	}

	params := tu.Message(tu.ID(msg.Chat.ID), msgInstructions)
	params.ReplyMarkup = startKeyboard()
	if _, err := c.api.SendMessage(ctx, params); err != nil {
		slog.Warn("telegram send failed", "chat", msg.Chat.ID, "error", err)
	}
}

// handleHelp replies with the static HTML help text.
func (c *Channel) handleHelp(ctx context.Context, msg *telego.Message) {
	params := tu.Message(tu.ID(msg.Chat.ID), msgHelpHTML)
	params.ParseMode = telego.ModeHTML
	if _, err := c.api.SendMessage(ctx, params); err != nil {
		slog.Warn("telegram send failed", "chat", msg.Chat.ID, "error", err)
	}
}

// DefaultMenuCommands returns the bot menu synced on connect.
func DefaultMenuCommands() []telego.BotCommand {
	return []telego.BotCommand{
		{Command: "start", Description: "Сбросить и задать новую последовательность"},
		{Command: "help", Description: "Как пользоваться ботом"},
		{Command: "reset", Description: "Сбросить текущую сессию"},
	}
}

// SyncMenuCommands registers bot commands with Telegram via setMyCommands.
func (c *Channel) SyncMenuCommands(ctx context.Context, commands []telego.BotCommand) error {
	if err := c.api.DeleteMyCommands(ctx, nil); err != nil {
		slog.Debug("deleteMyCommands failed (may not exist)", "error", err)
	}
	if len(commands) == 0 {
		return nil
	}
	return c.api.SetMyCommands(ctx, &telego.SetMyCommandsParams{
		Commands: commands,
	})
}

// syncMenuWithRetry syncs the command menu, retrying a few times in the
// background while the connection settles.
func (c *Channel) syncMenuWithRetry(ctx context.Context) {
	commands := DefaultMenuCommands()
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.SyncMenuCommands(ctx, commands); err != nil {
			slog.Warn("failed to sync telegram menu commands", "error", err, "attempt", attempt)
			if attempt < 3 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Duration(attempt*5) * time.Second):
				}
			}
		} else {
			slog.Info("telegram menu commands synced")
			return
		}
	}
}
