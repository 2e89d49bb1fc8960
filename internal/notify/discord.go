package notify

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// discordLimit is Discord's maximum message content length.
const discordLimit = 2000

// DiscordClient is the subset of *discordgo.Session used for sending.
type DiscordClient interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Discord posts messages to a channel ID. Discord understands the same link
// and escape syntax, so text is sent unchanged.
type Discord struct {
	session DiscordClient
}

// NewDiscord wraps session.
func NewDiscord(session DiscordClient) *Discord {
	return &Discord{session: session}
}

func (d *Discord) Name() string { return "discord" }

// MaxMessageLength implements MessageLengthProvider.
func (d *Discord) MaxMessageLength() int { return discordLimit }

// SendMarkdown posts text with link embeds suppressed.
func (d *Discord) SendMarkdown(ctx context.Context, recipient, text string) error {
	_, err := d.session.ChannelMessageSendComplex(recipient, &discordgo.MessageSend{
		Content: text,
		Flags:   discordgo.MessageFlagsSuppressEmbeds,
	}, discordgo.WithContext(ctx))
	return err
}
