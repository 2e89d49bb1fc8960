package webhook

import (
	"context"

	"github.com/mymmrac/telego"

	"github.com/mattjoyce/hookbot/internal/render"
)

// Sender delivers a rendered message to a recipient. *notify.Notifier
// satisfies it.
type Sender interface {
	Send(ctx context.Context, recipient string, msg render.Message) error
}

// UpdateHandler consumes Telegram updates posted to the bot endpoint.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, baseURL string, update telego.Update) error
}

// Config holds webhook server configuration.
type Config struct {
	// Listen is the address the HTTP server binds, e.g. "0.0.0.0:8080".
	Listen string

	// PublicURL overrides the base URL handed out in instructions. When
	// empty it is derived from each request.
	PublicURL string

	// MaxBodySize is the maximum accepted request body in bytes.
	MaxBodySize int64

	// BotSecretToken, when set, must match X-Telegram-Bot-Api-Secret-Token
	// on POST /bot.
	BotSecretToken string
}

// Plain JSON string bodies returned to webhook senders.
const (
	respOK              = "Ok"
	respBadRequest      = "Bad Request"
	respNotFound        = "Not Found"
	respTooLarge        = "Payload Too Large"
	respInternalFailure = "Internal Server Error"
)

// Default values
const (
	DefaultMaxBodySize = 1048576 // 1 MB
	DefaultListen      = "0.0.0.0:8080"
)
