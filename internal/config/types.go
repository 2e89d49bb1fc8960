package config

// Config represents the complete hookbot configuration.
//
// Values come from an optional YAML file and are then overridden by
// environment variables named in the env tags.
type Config struct {
	// Secret is the base secret every per-recipient webhook secret is
	// derived from. Changing it invalidates all issued secrets.
	Secret    string         `yaml:"secret" env:"WEBHOOK_SECRET"`
	Transport string         `yaml:"transport" env:"TRANSPORT"`
	Log       LogConfig      `yaml:"log"`
	Server    ServerConfig   `yaml:"server"`
	Telegram  TelegramConfig `yaml:"telegram"`
	Slack     SlackConfig    `yaml:"slack"`
	Discord   DiscordConfig  `yaml:"discord"`
}

// LogConfig defines logging settings.
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Listen string `yaml:"listen" env:"LISTEN"`

	// PublicURL is the externally reachable base URL used in webhook
	// instructions. Domain is a shorthand for https://<domain>.
	PublicURL string `yaml:"public_url" env:"PUBLIC_URL"`
	Domain    string `yaml:"domain" env:"DOMAIN"`

	// MaxBodySize accepts plain bytes or a KB/MB/GB suffix.
	MaxBodySize string `yaml:"max_body_size" env:"MAX_BODY_SIZE"`
}

// TelegramConfig defines the Telegram bot.
type TelegramConfig struct {
	Token string `yaml:"token" env:"BOT_TOKEN"`

	// Updates selects how bot commands arrive: "webhook" (POST /bot),
	// "poll" (long polling) or "off".
	Updates       string `yaml:"updates" env:"TELEGRAM_UPDATES"`
	WebhookSecret string `yaml:"webhook_secret" env:"TELEGRAM_WEBHOOK_SECRET"`

	// LockDir holds the poll-mode lock file. Empty means the system temp dir.
	LockDir string `yaml:"lock_dir" env:"TELEGRAM_LOCK_DIR"`
}

// SlackConfig defines the Slack transport.
type SlackConfig struct {
	Token string `yaml:"token" env:"SLACK_TOKEN"`
}

// DiscordConfig defines the Discord transport.
type DiscordConfig struct {
	Token string `yaml:"token" env:"DISCORD_TOKEN"`
}

// Transports
const (
	TransportTelegram = "telegram"
	TransportSlack    = "slack"
	TransportDiscord  = "discord"
)

// Telegram update modes
const (
	UpdatesWebhook = "webhook"
	UpdatesPoll    = "poll"
	UpdatesOff     = "off"
)

// Defaults returns a Config with every optional field filled in.
func Defaults() *Config {
	return &Config{
		Transport: TransportTelegram,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Server: ServerConfig{
			Listen:      "0.0.0.0:8080",
			MaxBodySize: "1MB",
		},
		Telegram: TelegramConfig{
			Updates: UpdatesWebhook,
		},
	}
}

// BaseURL returns the configured public base URL, or "" when it should be
// derived from each request.
func (c *Config) BaseURL() string {
	if c.Server.PublicURL != "" {
		return c.Server.PublicURL
	}
	if c.Server.Domain != "" {
		return "https://" + c.Server.Domain
	}
	return ""
}

// TransportToken returns the credential for the selected transport.
func (c *Config) TransportToken() string {
	switch c.Transport {
	case TransportSlack:
		return c.Slack.Token
	case TransportDiscord:
		return c.Discord.Token
	default:
		return c.Telegram.Token
	}
}
