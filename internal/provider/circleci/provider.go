// Package circleci renders CircleCI notifications, which arrive as
// Slack-compatible message documents.
package circleci

import (
	"net/http"
	"strings"

	"github.com/mattjoyce/hookbot/internal/provider"
	"github.com/mattjoyce/hookbot/internal/render"
)

const (
	Name = "CircleCI"

	// KindNotification is the only event CircleCI sends.
	KindNotification = "notification"
)

type attachment struct {
	Fallback string `json:"fallback"`
	Text     string `json:"text"`
	Color    string `json:"color"`
}

type notification struct {
	Text        string       `json:"text"`
	Channel     string       `json:"channel,omitempty"`
	Attachments []attachment `json:"attachments"`
}

// Provider accepts unsigned CircleCI notifications.
type Provider struct {
	handlers provider.Handlers
}

func New() *Provider {
	return &Provider{
		handlers: provider.Handlers{
			KindNotification: provider.Decode(renderNotification),
		},
	}
}

func (p *Provider) Name() string { return Name }

// Instructions omits the secret; CircleCI cannot sign its notifications.
func (p *Provider) Instructions(baseURL, recipient string) string {
	return provider.InstructionText(provider.WebhookURL(baseURL, Name, recipient), "")
}

func (p *Provider) Verify(string, http.Header, []byte) error { return nil }

func (p *Provider) EventKind(http.Header, []byte) string { return KindNotification }

func (p *Provider) Handlers() provider.Handlers { return p.handlers }

func renderNotification(n *notification) (render.Message, bool) {
	var lines []string
	for _, a := range n.Attachments {
		text := a.Text
		if text == "" {
			text = a.Fallback
		}
		if text != "" {
			lines = append(lines, render.Escape(text))
		}
	}
	if n.Text == "" && len(lines) == 0 {
		return render.Message{}, false
	}
	return render.Message{Header: render.Escape(n.Text), Body: strings.Join(lines, "\n")}, true
}
