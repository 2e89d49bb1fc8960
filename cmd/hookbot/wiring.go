package main

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/mymmrac/telego"
	"github.com/slack-go/slack"

	"github.com/mattjoyce/hookbot/internal/chat"
	"github.com/mattjoyce/hookbot/internal/config"
	"github.com/mattjoyce/hookbot/internal/notify"
	"github.com/mattjoyce/hookbot/internal/provider"
	"github.com/mattjoyce/hookbot/internal/provider/circleci"
	"github.com/mattjoyce/hookbot/internal/provider/generic"
	"github.com/mattjoyce/hookbot/internal/provider/github"
	"github.com/mattjoyce/hookbot/internal/provider/gitlab"
	"github.com/mattjoyce/hookbot/internal/provider/netlify"
)

// buildRegistry lists every supported provider. The order is the order of the
// buttons in the chat prompt.
func buildRegistry(secrets provider.Secrets) (*provider.Registry, error) {
	return provider.NewRegistry(
		github.New(secrets),
		gitlab.New(secrets),
		circleci.New(),
		netlify.New(secrets),
		generic.New(),
	)
}

// buildTransport returns the outbound transport named in cfg. When the
// transport is Telegram the chat bot is reused so both share one client.
func buildTransport(cfg *config.Config, bot *chat.TelegramBot) (notify.Transport, error) {
	switch cfg.Transport {
	case config.TransportSlack:
		return notify.NewSlack(slack.New(cfg.Slack.Token)), nil
	case config.TransportDiscord:
		session, err := discordgo.New("Bot " + cfg.Discord.Token)
		if err != nil {
			return nil, fmt.Errorf("discord session: %w", err)
		}
		return notify.NewDiscord(session), nil
	case config.TransportTelegram:
		if bot == nil {
			return nil, fmt.Errorf("telegram transport requires a bot token")
		}
		return bot, nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

func newTelegramAPI(token string) (*telego.Bot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return bot, nil
}
