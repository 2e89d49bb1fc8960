package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks that cfg can start a server.
func Validate(cfg *Config) error {
	if cfg.Secret == "" {
		return invalid("secret is required (set WEBHOOK_SECRET)")
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"secret", cfg.Secret},
		{"telegram.token", cfg.Telegram.Token},
		{"telegram.webhook_secret", cfg.Telegram.WebhookSecret},
		{"slack.token", cfg.Slack.Token},
		{"discord.token", cfg.Discord.Token},
		{"server.public_url", cfg.Server.PublicURL},
	} {
		if err := checkUnresolved(field.name, field.value); err != nil {
			return err
		}
	}

	switch cfg.Transport {
	case TransportTelegram, TransportSlack, TransportDiscord:
	default:
		return invalid("transport must be one of: telegram, slack, discord (got %q)", cfg.Transport)
	}
	if cfg.TransportToken() == "" {
		return invalid("%s transport requires a token", cfg.Transport)
	}

	switch cfg.Telegram.Updates {
	case UpdatesWebhook, UpdatesPoll, UpdatesOff:
	default:
		return invalid("telegram.updates must be one of: webhook, poll, off (got %q)", cfg.Telegram.Updates)
	}

	if cfg.ChatEnabled() && cfg.Telegram.Updates == UpdatesPoll && cfg.BaseURL() == "" {
		return invalid("telegram.updates=poll requires server.public_url or server.domain")
	}

	if !validLogLevels[cfg.Log.Level] {
		return invalid("log.level must be one of: debug, info, warn, error (got %q)", cfg.Log.Level)
	}

	if _, err := ParseSize(cfg.Server.MaxBodySize); err != nil {
		return invalid("server.max_body_size %q: %v", cfg.Server.MaxBodySize, err)
	}

	return nil
}

// ChatEnabled reports whether the Telegram bot should answer commands.
func (c *Config) ChatEnabled() bool {
	return c.Telegram.Token != "" && c.Telegram.Updates != UpdatesOff
}

// checkUnresolved rejects values still holding a ${VAR} placeholder, which
// happens when the variable was not exported.
func checkUnresolved(name, value string) error {
	if m := envVarPattern.FindStringSubmatch(value); len(m) > 1 {
		return invalid("%s: environment variable ${%s} is not set", name, m[1])
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
