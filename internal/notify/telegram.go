package notify

import (
	"context"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
)

// TelegramClient is the subset of *telego.Bot used for sending.
type TelegramClient interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// Telegram posts Markdown messages through the Bot API.
type Telegram struct {
	bot TelegramClient
}

// NewTelegram wraps bot.
func NewTelegram(bot TelegramClient) *Telegram {
	return &Telegram{bot: bot}
}

func (t *Telegram) Name() string { return "telegram" }

// SendMarkdown sends text with Markdown parsing on and link previews off.
// The returned message is discarded.
func (t *Telegram) SendMarkdown(ctx context.Context, recipient, text string) error {
	_, err := t.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:             ChatID(recipient),
		Text:               text,
		ParseMode:          telego.ModeMarkdown,
		LinkPreviewOptions: &telego.LinkPreviewOptions{IsDisabled: true},
	})
	return err
}

// SendChoices sends prompt with one inline button per choice. The callback
// data of each button is the choice itself.
func (t *Telegram) SendChoices(ctx context.Context, recipient, prompt string, choices []string) error {
	rows := make([]telego.InlineKeyboardButton, 0, len(choices))
	for _, c := range choices {
		rows = append(rows, telego.InlineKeyboardButton{Text: c, CallbackData: c})
	}

	_, err := t.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: ChatID(recipient),
		Text:   prompt,
		ReplyMarkup: &telego.InlineKeyboardMarkup{
			InlineKeyboard: [][]telego.InlineKeyboardButton{rows},
		},
	})
	return err
}

// ChatID converts a recipient into a Telegram chat identifier. Numeric values
// are chat IDs, anything else is treated as a public @username.
func ChatID(recipient string) telego.ChatID {
	if id, err := strconv.ParseInt(recipient, 10, 64); err == nil {
		return telego.ChatID{ID: id}
	}
	if !strings.HasPrefix(recipient, "@") {
		recipient = "@" + recipient
	}
	return telego.ChatID{Username: recipient}
}
