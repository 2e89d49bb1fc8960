package notify

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDiscord struct {
	channel string
	data    *discordgo.MessageSend
}

func (f *fakeDiscord) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channel = channelID
	f.data = data
	return &discordgo.Message{ID: "1", ChannelID: channelID}, nil
}

func TestDiscordSendMarkdown(t *testing.T) {
	fake := &fakeDiscord{}
	d := NewDiscord(fake)

	require.NoError(t, d.SendMarkdown(context.Background(), "123456789", "[x](https://x.test)"))
	assert.Equal(t, "123456789", fake.channel)
	require.NotNil(t, fake.data)
	assert.Equal(t, "[x](https://x.test)", fake.data.Content)
	assert.Equal(t, discordgo.MessageFlagsSuppressEmbeds, fake.data.Flags)
	assert.Equal(t, 2000, d.MaxMessageLength())
}
