package chat

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"

	"github.com/mattjoyce/hookbot/internal/notify"
	"github.com/mattjoyce/hookbot/internal/provider"
)

// BotAPI is the subset of *telego.Bot the chat bot needs.
type BotAPI interface {
	notify.TelegramClient
	AnswerCallbackQuery(ctx context.Context, params *telego.AnswerCallbackQueryParams) error
}

// TelegramBot is both the Telegram notify.Transport and the Replier for its
// own Router.
type TelegramBot struct {
	api    BotAPI
	sender *notify.Telegram
	router *Router
	logger *slog.Logger
}

// NewTelegramBot wires a Router over registry that answers through api.
func NewTelegramBot(api BotAPI, registry *provider.Registry, logger *slog.Logger) *TelegramBot {
	b := &TelegramBot{
		api:    api,
		sender: notify.NewTelegram(api),
		logger: logger,
	}
	b.router = NewRouter(registry, b, logger)
	return b
}

func (b *TelegramBot) Name() string { return b.sender.Name() }

func (b *TelegramBot) SendMarkdown(ctx context.Context, recipient, text string) error {
	return b.sender.SendMarkdown(ctx, recipient, text)
}

func (b *TelegramBot) ReplyMarkdown(ctx context.Context, recipient, text string) error {
	return b.sender.SendMarkdown(ctx, recipient, text)
}

func (b *TelegramBot) ReplyChoices(ctx context.Context, recipient, prompt string, choices []string) error {
	return b.sender.SendChoices(ctx, recipient, prompt, choices)
}

// HandleUpdate routes a single update. Commands come in as messages starting
// with "/", provider picks as callback queries. Everything else is dropped.
func (b *TelegramBot) HandleUpdate(ctx context.Context, baseURL string, update telego.Update) error {
	switch {
	case update.Message != nil:
		text := update.Message.Text
		if !strings.HasPrefix(text, "/") {
			return nil
		}
		return b.router.HandleCommand(ctx, baseURL, chatRecipient(update.Message.Chat.ID), text)

	case update.CallbackQuery != nil:
		q := update.CallbackQuery
		if err := b.api.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{CallbackQueryID: q.ID}); err != nil {
			b.logger.Warn("answer callback query failed", "error", err)
		}

		// Messages older than 48h come back inaccessible but still carry the chat.
		chatID := q.From.ID
		if q.Message != nil {
			chatID = q.Message.GetChat().ID
		}
		return b.router.HandleSelection(ctx, baseURL, chatRecipient(chatID), q.Data)
	}
	return nil
}

// Consume handles updates until the channel closes or ctx is done. Routing
// failures are logged and do not stop the loop.
func (b *TelegramBot) Consume(ctx context.Context, baseURL string, updates <-chan telego.Update) error {
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.HandleUpdate(ctx, baseURL, update); err != nil {
				b.logger.Error("handle update failed", "update_id", update.UpdateID, "error", err)
			}
		}
	}
}

func chatRecipient(id int64) string {
	return strconv.FormatInt(id, 10)
}
