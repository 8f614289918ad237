package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nextlevelbuilder/reorderbot/internal/reorder"
)

// orderPattern gates the reorder route: one or more whitespace-separated
// digit groups and nothing else.
var orderPattern = regexp.MustCompile(`^(\d+\s*)+$`)

// handleUpdate routes one incoming update. Priority order: reset, help,
// media-group attachment, reorder digits, throttled fallback.
func (c *Channel) handleUpdate(ctx context.Context, update telego.Update) {
	msg := update.Message
	if msg == nil {
		slog.Debug("telegram update skipped (no message)", "update_id", update.UpdateID)
		return
	}
	if msg.From == nil {
		return
	}

	ctx, span := c.tracer.Start(ctx, "telegram.update", trace.WithAttributes(
		attribute.Int64("telegram.user_id", msg.From.ID),
		attribute.Int64("telegram.chat_id", msg.Chat.ID),
	))
	defer span.End()

	text := msg.Text
	switch {
	case isResetText(text):
		span.SetAttributes(attribute.String("telegram.route", "reset"))
		c.handleReset(ctx, msg)
	case isHelpText(text):
		span.SetAttributes(attribute.String("telegram.route", "help"))
		c.handleHelp(ctx, msg)
	case msg.MediaGroupID != "":
		span.SetAttributes(attribute.String("telegram.route", "media_group"))
		c.handleGroupItem(ctx, msg)
	case text != "" && orderPattern.MatchString(text):
		span.SetAttributes(attribute.String("telegram.route", "order"))
		c.handleOrderInput(ctx, msg)
	default:
		span.SetAttributes(attribute.String("telegram.route", "fallback"))
		c.handleFallback(ctx, msg)
	}
}

// handleGroupItem buffers one attachment of a media group.
func (c *Channel) handleGroupItem(_ context.Context, msg *telego.Message) {
	item := groupItem(msg)
	c.collector.Add(msg.MediaGroupID, item)
	slog.Debug("buffered media group item",
		"user", item.UserID,
		"group", msg.MediaGroupID,
		"kind", string(item.Kind),
	)
}

// flushGroup runs when a group's debounce window closes: it validates the
// burst and promotes it into a reorder session for its owner. Timer
// callbacks carry no update context, so sends run under Background.
func (c *Channel) flushGroup(g *reorder.PendingGroup) {
	ctx, span := c.tracer.Start(context.Background(), "telegram.finalize_group", trace.WithAttributes(
		attribute.String("telegram.media_group_id", g.ID),
		attribute.Int("group.size", len(g.Items)),
	))
	defer span.End()

	if err := g.Validate(); err != nil {
		slog.Warn("invalid media group",
			"user", g.UserID, "group", g.ID, "count", len(g.Items), "error", err)
		span.SetStatus(codes.Error, "invalid group composition")
		c.reply(ctx, g.ChatID, msgBadGroup)
		return
	}

	kind := g.Kind()
	if kind == "" {
		// a uniform burst of shapes that carry no usable file reference
		slog.Debug("discarding unsendable media group", "user", g.UserID, "group", g.ID)
		return
	}

	files := g.Files()
	c.sessions.Put(g.UserID, &reorder.Session{
		Files:     files,
		Kind:      kind,
		Expected:  len(files),
		ChatID:    g.ChatID,
		CreatedAt: time.Now(),
	})

	c.reply(ctx, g.ChatID, confirmationText(len(files)))
	slog.Info("media group ready for reorder",
		"user", g.UserID, "group", g.ID, "kind", string(kind), "count", len(files))
}

// handleOrderInput validates the submitted permutation against the user's
// session and re-sends the album in that order. Validation failures keep
// the session for a retry; a send attempt spends it either way.
func (c *Channel) handleOrderInput(ctx context.Context, msg *telego.Message) {
	userID := msg.From.ID

	sess, err := c.sessions.Get(userID)
	if errors.Is(err, reorder.ErrSessionExpired) {
		slog.Debug("reorder session expired", "user", userID)
		c.reply(ctx, msg.Chat.ID, msgSessionExpired)
		return
	}
	if err != nil {
		c.reply(ctx, msg.Chat.ID, msgNoSession)
		return
	}

	order, err := reorder.ParseOrder(msg.Text, sess.Expected)
	if err != nil {
		slog.Debug("invalid order input", "user", userID, "expected", sess.Expected, "error", err)
		c.reply(ctx, msg.Chat.ID, orderErrorText(err, sess.Expected))
		return
	}

	defer c.sessions.Clear(userID)

	if err := c.sendAlbum(ctx, sess.ChatID, sess.Kind, reorder.Apply(sess.Files, order)); err != nil {
		slog.Error("failed to send reordered album", "user", userID, "error", err)
		c.reply(ctx, msg.Chat.ID, msgSendFailed)
		return
	}
	slog.Info("album re-sent", "user", userID, "kind", string(sess.Kind), "count", sess.Expected)
}

// handleFallback replies with the generic hint, throttled per user.
func (c *Channel) handleFallback(ctx context.Context, msg *telego.Message) {
	if !c.throttle.Allow(msg.From.ID) {
		return
	}
	c.reply(ctx, msg.Chat.ID, msgUnknownCommand)
}

// sendAlbum sends the reordered files as one grouped-media message.
func (c *Channel) sendAlbum(ctx context.Context, chatID int64, kind reorder.Kind, files []string) error {
	ctx, span := c.tracer.Start(ctx, "telegram.send_album", trace.WithAttributes(
		attribute.String("album.kind", string(kind)),
		attribute.Int("album.size", len(files)),
	))
	defer span.End()

	_, err := c.api.SendMediaGroup(ctx, &telego.SendMediaGroupParams{
		ChatID: tu.ID(chatID),
		Media:  buildAlbum(kind, files),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send media group")
		return fmt.Errorf("send media group: %w", err)
	}
	return nil
}

// orderErrorText maps a validation failure onto its user-facing reply.
func orderErrorText(err error, expected int) string {
	switch {
	case errors.Is(err, reorder.ErrCountMismatch):
		return countMismatchText(expected)
	case errors.Is(err, reorder.ErrRange):
		return rangeText(expected)
	default:
		return msgBadNumbers
	}
}
