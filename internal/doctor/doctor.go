// Package doctor reviews a hookbot configuration for mistakes that load fine
// but make for a surprising deployment.
package doctor

import (
	"net/url"
	"strings"

	"github.com/mattjoyce/hookbot/internal/config"
)

// Result holds the outcome of a validation run.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// Issue describes a single validation error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// minSecretLen is the shortest base secret that does not draw a warning.
const minSecretLen = 16

// Doctor validates a configuration that has been read but not yet validated.
type Doctor struct {
	cfg *config.Config
}

// New creates a Doctor for cfg.
func New(cfg *config.Config) *Doctor {
	return &Doctor{cfg: cfg}
}

// Validate runs all checks and returns a result.
func (d *Doctor) Validate() *Result {
	r := &Result{}

	if err := config.Validate(d.cfg); err != nil {
		d.addError(r, "config", "", strings.TrimPrefix(err.Error(), config.ErrInvalidConfig.Error()+": "))
	}
	d.warnWeakSecret(r)
	d.warnPublicURL(r)
	d.warnBotEndpoint(r)
	d.warnChatDisabled(r)

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) addError(r *Result, category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addWarning(r *Result, category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) warnWeakSecret(r *Result) {
	if s := d.cfg.Secret; s != "" && len(s) < minSecretLen {
		d.addWarning(r, "secret", "secret", "base secret is short; recipient secrets are only as strong as it is")
	}
}

func (d *Doctor) warnPublicURL(r *Result) {
	base := d.cfg.BaseURL()
	if base == "" {
		d.addWarning(r, "server", "server.public_url",
			"no public url; webhook instructions will use the request host")
		return
	}
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		d.addWarning(r, "server", "server.public_url", "public url "+base+" does not parse as an absolute url")
		return
	}
	if u.Scheme != "https" {
		d.addWarning(r, "server", "server.public_url",
			"public url is not https; most providers refuse or warn on plain http webhooks")
	}
}

func (d *Doctor) warnBotEndpoint(r *Result) {
	if !d.cfg.ChatEnabled() || d.cfg.Telegram.Updates != config.UpdatesWebhook {
		return
	}
	if d.cfg.Telegram.WebhookSecret == "" {
		d.addWarning(r, "telegram", "telegram.webhook_secret",
			"POST /bot accepts updates from anyone; set a webhook secret")
	}
}

func (d *Doctor) warnChatDisabled(r *Result) {
	if d.cfg.Telegram.Token == "" {
		d.addWarning(r, "telegram", "telegram.token",
			"no telegram bot token; use `hookbot instructions` to hand out webhook urls")
		return
	}
	if d.cfg.Telegram.Updates == config.UpdatesOff {
		d.addWarning(r, "telegram", "telegram.updates",
			"bot commands are off; /webhook will not answer")
	}
}
