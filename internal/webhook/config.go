package webhook

import (
	"fmt"

	"github.com/mattjoyce/hookbot/internal/config"
)

// FromGlobalConfig converts the server and Telegram sections of the global
// configuration into a webhook.Config.
func FromGlobalConfig(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("config is nil")
	}

	maxBodySize, err := config.ParseSize(cfg.Server.MaxBodySize)
	if err != nil {
		return Config{}, fmt.Errorf("invalid server.max_body_size %q: %w", cfg.Server.MaxBodySize, err)
	}
	if maxBodySize == 0 {
		maxBodySize = DefaultMaxBodySize
	}

	listen := cfg.Server.Listen
	if listen == "" {
		listen = DefaultListen
	}

	return Config{
		Listen:         listen,
		PublicURL:      cfg.BaseURL(),
		MaxBodySize:    maxBodySize,
		BotSecretToken: cfg.Telegram.WebhookSecret,
	}, nil
}
