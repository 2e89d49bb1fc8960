package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mattjoyce/hookbot/internal/render"
)

// ErrDelivery wraps every transport failure returned by Notifier.Send.
var ErrDelivery = errors.New("notification delivery failed")

//go:generate mockgen -destination=mocks/mock_transport.go -package=mocks github.com/mattjoyce/hookbot/internal/notify Transport

// Transport is the chat backend that actually posts text to a recipient.
type Transport interface {
	Name() string
	SendMarkdown(ctx context.Context, recipient, text string) error
}

// MessageLengthProvider is an opt-in interface for transports whose limit is
// below render.DefaultLimit.
type MessageLengthProvider interface {
	MaxMessageLength() int
}

// Notifier renders messages and hands them to a Transport. A single attempt
// is made per message; there is no retry.
type Notifier struct {
	transport Transport
	limit     int
	logger    *slog.Logger
}

// New creates a Notifier on top of t.
func New(t Transport, logger *slog.Logger) *Notifier {
	limit := render.DefaultLimit
	if lp, ok := t.(MessageLengthProvider); ok && lp.MaxMessageLength() > 0 {
		limit = lp.MaxMessageLength()
	}
	return &Notifier{
		transport: t,
		limit:     limit,
		logger:    logger,
	}
}

// Transport returns the underlying transport name.
func (n *Notifier) Transport() string {
	return n.transport.Name()
}

// Send delivers msg to recipient. Transport errors are wrapped with ErrDelivery
// and returned; the caller decides whether they matter.
func (n *Notifier) Send(ctx context.Context, recipient string, msg render.Message) error {
	text := msg.Render(n.limit)
	if err := n.transport.SendMarkdown(ctx, recipient, text); err != nil {
		return fmt.Errorf("%w via %s: %w", ErrDelivery, n.transport.Name(), err)
	}

	n.logger.Debug("notification delivered",
		"transport", n.transport.Name(),
		"recipient", recipient,
		"length", len(text),
	)
	return nil
}
