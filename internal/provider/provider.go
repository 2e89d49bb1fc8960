package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mattjoyce/hookbot/internal/render"
)

// ErrVerification is returned by Verify when a payload is not authentic.
// The message is intentionally generic.
var ErrVerification = errors.New("webhook verification failed")

// Secrets derives the shared secret for a recipient. *secret.Deriver
// satisfies it.
type Secrets interface {
	Derive(recipient string) string
	Equal(recipient, candidate string) bool
}

// Handler renders one payload. ok=false means the event produces no message.
type Handler func(payload []byte) (msg render.Message, ok bool, err error)

// Handlers maps an event kind to its Handler.
type Handlers map[string]Handler

// Kinds returns the registered event kinds.
func (h Handlers) Kinds() []string {
	kinds := make([]string, 0, len(h))
	for k := range h {
		kinds = append(kinds, k)
	}
	return kinds
}

// Provider is a webhook source such as GitHub or Netlify.
type Provider interface {
	// Name is the display name; its lowercase form is the URL segment.
	Name() string

	// Instructions returns the Markdown text telling a user how to configure
	// the webhook for recipient.
	Instructions(baseURL, recipient string) string

	// Verify authenticates the raw body for recipient.
	Verify(recipient string, h http.Header, body []byte) error

	// EventKind names the event carried by the request.
	EventKind(h http.Header, body []byte) string

	// Handlers is the static kind -> renderer table.
	Handlers() Handlers
}

// Dispatch renders payload with the handler registered for kind.
// Unknown kinds return ok=false and no error.
func Dispatch(p Provider, kind string, payload []byte) (render.Message, bool, error) {
	h, found := p.Handlers()[kind]
	if !found {
		return render.Message{}, false, nil
	}
	return h(payload)
}

// Decode adapts a typed renderer into a Handler by unmarshalling the payload
// into T first.
func Decode[T any](fn func(event *T) (render.Message, bool)) Handler {
	return func(payload []byte) (render.Message, bool, error) {
		event := new(T)
		if err := json.Unmarshal(payload, event); err != nil {
			return render.Message{}, false, fmt.Errorf("decode %T: %w", *event, err)
		}
		msg, ok := fn(event)
		return msg, ok, nil
	}
}

// Slug is the URL path segment for a provider name.
func Slug(name string) string {
	return strings.ToLower(name)
}

// WebhookURL builds baseURL/webhooks/{slug}/{recipient}.
func WebhookURL(baseURL, name, recipient string) string {
	return strings.TrimRight(baseURL, "/") + "/webhooks/" + Slug(name) + "/" + url.PathEscape(recipient)
}

// InstructionText renders the configuration hint for a webhook URL. The
// Content-Type and Secret lines are only included when secret is set.
func InstructionText(webhookURL, secret string) string {
	var b strings.Builder
	b.WriteString("Please use this webhook url:\n")
	b.WriteString(render.Link(webhookURL, webhookURL))
	b.WriteString("\n")
	if secret != "" {
		b.WriteString("Content-Type: `application/json`\n")
		b.WriteString("Secret: `" + secret + "`\n")
	}
	return b.String()
}
