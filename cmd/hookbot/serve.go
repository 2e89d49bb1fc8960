package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/mymmrac/telego"
	"github.com/spf13/cobra"

	"github.com/mattjoyce/hookbot/internal/chat"
	"github.com/mattjoyce/hookbot/internal/config"
	"github.com/mattjoyce/hookbot/internal/lock"
	"github.com/mattjoyce/hookbot/internal/log"
	"github.com/mattjoyce/hookbot/internal/notify"
	"github.com/mattjoyce/hookbot/internal/secret"
	"github.com/mattjoyce/hookbot/internal/webhook"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook server in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, resolveConfigPath(*configPath))
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log.Setup(cfg.Log.Level, cfg.Log.Format)
	logger := log.WithComponent("main")
	logger.Info("hookbot starting",
		"version", version,
		"config", configPath,
		"transport", cfg.Transport,
		"secret_fingerprint", secret.Fingerprint(cfg.Secret),
	)

	deriver, err := secret.NewDeriver(cfg.Secret)
	if err != nil {
		return err
	}
	registry, err := buildRegistry(deriver)
	if err != nil {
		return err
	}

	var bot *chat.TelegramBot
	if cfg.Telegram.Token != "" {
		tg, err := newTelegramAPI(cfg.Telegram.Token)
		if err != nil {
			return err
		}
		bot = chat.NewTelegramBot(tg, registry, log.WithComponent("chat"))

		if cfg.ChatEnabled() {
			if err := startUpdates(ctx, cfg, tg, bot); err != nil {
				return err
			}
		}
	}

	transport, err := buildTransport(cfg, bot)
	if err != nil {
		return err
	}
	notifier := notify.New(transport, log.WithComponent("notify"))

	whCfg, err := webhook.FromGlobalConfig(cfg)
	if err != nil {
		return err
	}
	var updates webhook.UpdateHandler
	if cfg.ChatEnabled() && cfg.Telegram.Updates == config.UpdatesWebhook {
		updates = bot
	}

	srv := webhook.New(whCfg, registry, notifier, updates, log.WithComponent("webhook"))
	if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("hookbot stopped")
	return nil
}

// startUpdates connects the chat bot to Telegram. In poll mode updates are
// pulled in the background; in webhook mode the bot's webhook is pointed at
// POST /bot when the public URL is known.
func startUpdates(ctx context.Context, cfg *config.Config, tg *telego.Bot, bot *chat.TelegramBot) error {
	logger := log.WithComponent("chat")

	switch cfg.Telegram.Updates {
	case config.UpdatesPoll:
		pollLock, err := lock.Acquire(lock.PollPath(cfg.Telegram.LockDir, secret.Fingerprint(cfg.Telegram.Token)))
		if err != nil {
			return fmt.Errorf("telegram long polling: %w", err)
		}
		updates, err := tg.UpdatesViaLongPolling(ctx, nil)
		if err != nil {
			_ = pollLock.Release()
			return fmt.Errorf("telegram long polling: %w", err)
		}
		go func() {
			defer func() { _ = pollLock.Release() }()
			if err := bot.Consume(ctx, cfg.BaseURL(), updates); err != nil {
				logger.Error("telegram polling stopped", "error", err)
			}
		}()
		logger.Info("telegram long polling started")

	case config.UpdatesWebhook:
		base := cfg.BaseURL()
		if base == "" {
			logger.Info("public url unknown, register the telegram webhook for /bot manually")
			return nil
		}
		err := tg.SetWebhook(ctx, &telego.SetWebhookParams{
			URL:         base + "/bot",
			SecretToken: cfg.Telegram.WebhookSecret,
		})
		if err != nil {
			logger.Warn("telegram webhook registration failed", "error", err)
			return nil
		}
		logger.Info("telegram webhook registered", "url", base+"/bot")
	}
	return nil
}
