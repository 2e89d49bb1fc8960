package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTelegram struct {
	calls []*telego.SendMessageParams
	err   error
}

func (f *fakeTelegram) SendMessage(_ context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	return &telego.Message{MessageID: len(f.calls)}, nil
}

func TestTelegramSendMarkdown(t *testing.T) {
	fake := &fakeTelegram{}
	tg := NewTelegram(fake)

	require.NoError(t, tg.SendMarkdown(context.Background(), "-100123", "*hi*"))
	require.Len(t, fake.calls, 1)

	p := fake.calls[0]
	assert.Equal(t, telego.ChatID{ID: -100123}, p.ChatID)
	assert.Equal(t, "*hi*", p.Text)
	assert.Equal(t, telego.ModeMarkdown, p.ParseMode)
	require.NotNil(t, p.LinkPreviewOptions)
	assert.True(t, p.LinkPreviewOptions.IsDisabled)
}

func TestTelegramSendMarkdown_Error(t *testing.T) {
	boom := errors.New("Forbidden: bot was blocked by the user")
	tg := NewTelegram(&fakeTelegram{err: boom})

	err := tg.SendMarkdown(context.Background(), "1", "x")
	assert.ErrorIs(t, err, boom)
}

func TestTelegramSendChoices(t *testing.T) {
	fake := &fakeTelegram{}
	tg := NewTelegram(fake)

	require.NoError(t, tg.SendChoices(context.Background(), "7", "Pick one", []string{"Github", "Gitlab"}))
	require.Len(t, fake.calls, 1)

	markup, ok := fake.calls[0].ReplyMarkup.(*telego.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, "Github", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "Github", markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "Gitlab", markup.InlineKeyboard[0][1].CallbackData)
}

func TestChatID(t *testing.T) {
	assert.Equal(t, telego.ChatID{ID: 42}, ChatID("42"))
	assert.Equal(t, telego.ChatID{ID: -1001234567890}, ChatID("-1001234567890"))
	assert.Equal(t, telego.ChatID{Username: "@mychannel"}, ChatID("@mychannel"))
	assert.Equal(t, telego.ChatID{Username: "@mychannel"}, ChatID("mychannel"))
}
