package notify

import (
	"context"
	"regexp"
	"strings"

	"github.com/slack-go/slack"
)

// SlackClient is the subset of *slack.Client used for sending.
type SlackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Slack posts messages to a channel ID using mrkdwn.
type Slack struct {
	client SlackClient
}

// NewSlack wraps client.
func NewSlack(client SlackClient) *Slack {
	return &Slack{client: client}
}

func (s *Slack) Name() string { return "slack" }

// SendMarkdown converts Telegram-style links and escapes into mrkdwn and posts
// the result with unfurling disabled.
func (s *Slack) SendMarkdown(ctx context.Context, recipient, text string) error {
	_, _, err := s.client.PostMessageContext(ctx, recipient,
		slack.MsgOptionText(toMrkdwn(text), false),
		slack.MsgOptionDisableLinkUnfurl(),
		slack.MsgOptionDisableMediaUnfurl(),
	)
	return err
}

var markdownLink = regexp.MustCompile(`\[((?:\\.|[^\]\\])*)\]\(([^)\s]+)\)`)

var slackUnescaper = strings.NewReplacer(`\[`, "[", "\\`", "`", `\*`, "*", `\_`, "_")

func toMrkdwn(text string) string {
	text = markdownLink.ReplaceAllStringFunc(text, func(m string) string {
		parts := markdownLink.FindStringSubmatch(m)
		title := slackUnescaper.Replace(parts[1])
		title = strings.NewReplacer("<", "&lt;", ">", "&gt;", "|", "¦").Replace(title)
		return "<" + parts[2] + "|" + title + ">"
	})
	return slackUnescaper.Replace(text)
}
