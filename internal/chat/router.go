package chat

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mattjoyce/hookbot/internal/provider"
)

const (
	// WelcomeText answers /start.
	WelcomeText = "This bot forwards webhooks as chat messages"

	// SelectionPrompt heads the provider picker.
	SelectionPrompt = "Available Webhook Providers"

	commandStart   = "start"
	commandWebhook = "webhook"
)

// commandPattern splits "/cmd@bot rest of text" into cmd, bot and the rest.
var commandPattern = regexp.MustCompile(`^/([^@\s]+)@?(?:(\S+)|)\s?([\s\S]+)?$`)

// Replier sends answers back into the chat a command came from.
type Replier interface {
	ReplyMarkdown(ctx context.Context, recipient, text string) error
	ReplyChoices(ctx context.Context, recipient, prompt string, choices []string) error
}

// Router maps bot commands and button presses onto provider instructions.
type Router struct {
	registry *provider.Registry
	replier  Replier
	logger   *slog.Logger
}

// NewRouter creates a Router answering through replier.
func NewRouter(registry *provider.Registry, replier Replier, logger *slog.Logger) *Router {
	return &Router{
		registry: registry,
		replier:  replier,
		logger:   logger,
	}
}

// ParseArgs returns the whitespace separated arguments following a leading
// /command (and optional @botname). Text that is not a command has no
// arguments.
func ParseArgs(text string) []string {
	_, args := parseCommand(text)
	return args
}

func parseCommand(text string) (string, []string) {
	m := commandPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", []string{}
	}
	return strings.ToLower(m[1]), strings.Fields(m[3])
}

// HandleCommand answers /start and /webhook. Other commands are ignored.
func (r *Router) HandleCommand(ctx context.Context, baseURL, recipient, text string) error {
	cmd, args := parseCommand(text)
	switch cmd {
	case commandStart:
		return r.replier.ReplyMarkdown(ctx, recipient, WelcomeText)
	case commandWebhook:
		if len(args) > 0 {
			if p, ok := r.registry.Lookup(args[0]); ok {
				return r.sendInstructions(ctx, baseURL, recipient, p)
			}
		}
		return r.prompt(ctx, recipient)
	default:
		r.logger.Debug("ignoring command", "command", cmd, "recipient", recipient)
		return nil
	}
}

// HandleSelection answers a press on one of the prompt buttons. data is the
// provider name carried by the button.
func (r *Router) HandleSelection(ctx context.Context, baseURL, recipient, data string) error {
	p, ok := r.registry.Lookup(strings.TrimSpace(data))
	if !ok {
		return r.prompt(ctx, recipient)
	}
	return r.sendInstructions(ctx, baseURL, recipient, p)
}

func (r *Router) sendInstructions(ctx context.Context, baseURL, recipient string, p provider.Provider) error {
	if err := r.replier.ReplyMarkdown(ctx, recipient, p.Instructions(baseURL, recipient)); err != nil {
		return fmt.Errorf("send %s instructions: %w", p.Name(), err)
	}
	r.logger.Info("sent webhook instructions", "provider", p.Name(), "recipient", recipient)
	return nil
}

func (r *Router) prompt(ctx context.Context, recipient string) error {
	if err := r.replier.ReplyChoices(ctx, recipient, SelectionPrompt, r.registry.Names()); err != nil {
		return fmt.Errorf("send provider prompt: %w", err)
	}
	return nil
}
