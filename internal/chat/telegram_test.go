package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	sent     []*telego.SendMessageParams
	answered []string
}

func (f *fakeBot) SendMessage(_ context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	f.sent = append(f.sent, params)
	return &telego.Message{}, nil
}

func (f *fakeBot) AnswerCallbackQuery(_ context.Context, params *telego.AnswerCallbackQueryParams) error {
	f.answered = append(f.answered, params.CallbackQueryID)
	return errors.New("query is too old")
}

func newTestBot(t *testing.T) (*TelegramBot, *fakeBot) {
	t.Helper()
	reg, _ := testRegistry(t)
	api := &fakeBot{}
	return NewTelegramBot(api, reg, testLogger()), api
}

func TestHandleUpdateCommand(t *testing.T) {
	bot, api := newTestBot(t)

	update := telego.Update{
		UpdateID: 1,
		Message:  &telego.Message{Text: "/webhook", Chat: telego.Chat{ID: -100123}},
	}
	require.NoError(t, bot.HandleUpdate(context.Background(), "http://h", update))

	require.Len(t, api.sent, 1)
	assert.Equal(t, telego.ChatID{ID: -100123}, api.sent[0].ChatID)
	assert.Equal(t, SelectionPrompt, api.sent[0].Text)

	markup, ok := api.sent[0].ReplyMarkup.(*telego.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, "Github", markup.InlineKeyboard[0][0].CallbackData)
}

func TestHandleUpdateIgnoresPlainText(t *testing.T) {
	bot, api := newTestBot(t)

	update := telego.Update{Message: &telego.Message{Text: "hello", Chat: telego.Chat{ID: 1}}}
	require.NoError(t, bot.HandleUpdate(context.Background(), "http://h", update))
	assert.Empty(t, api.sent)
}

func TestHandleUpdateCallback(t *testing.T) {
	bot, api := newTestBot(t)

	update := telego.Update{
		CallbackQuery: &telego.CallbackQuery{
			ID:      "q1",
			From:    telego.User{ID: 7},
			Message: &telego.Message{Chat: telego.Chat{ID: -55}},
			Data:    "Github",
		},
	}
	require.NoError(t, bot.HandleUpdate(context.Background(), "http://h", update))

	assert.Equal(t, []string{"q1"}, api.answered)
	require.Len(t, api.sent, 1)
	assert.Equal(t, telego.ChatID{ID: -55}, api.sent[0].ChatID)
	assert.Contains(t, api.sent[0].Text, "http://h/webhooks/github/-55")
	assert.Equal(t, telego.ModeMarkdown, api.sent[0].ParseMode)
}

func TestConsumeStopsWhenChannelCloses(t *testing.T) {
	bot, api := newTestBot(t)

	updates := make(chan telego.Update, 2)
	updates <- telego.Update{Message: &telego.Message{Text: "/start", Chat: telego.Chat{ID: 1}}}
	updates <- telego.Update{Message: &telego.Message{Text: "/start", Chat: telego.Chat{ID: 2}}}
	close(updates)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, bot.Consume(ctx, "http://h", updates))
	assert.Len(t, api.sent, 2)
}

func TestConsumeStopsOnCancel(t *testing.T) {
	bot, _ := newTestBot(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, bot.Consume(ctx, "http://h", make(chan telego.Update)))
}
