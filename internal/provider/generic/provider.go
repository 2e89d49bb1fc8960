// Package generic forwards arbitrary payloads as a code block.
package generic

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mattjoyce/hookbot/internal/provider"
	"github.com/mattjoyce/hookbot/internal/render"
)

const (
	Name = "Generic"

	// KindMessage is used for every request.
	KindMessage = "message"

	header = "new message received"
)

type Provider struct {
	handlers provider.Handlers
}

func New() *Provider {
	return &Provider{handlers: provider.Handlers{KindMessage: renderPayload}}
}

func (p *Provider) Name() string { return Name }

func (p *Provider) Instructions(baseURL, recipient string) string {
	return provider.InstructionText(provider.WebhookURL(baseURL, Name, recipient), "")
}

func (p *Provider) Verify(string, http.Header, []byte) error { return nil }

func (p *Provider) EventKind(http.Header, []byte) string { return KindMessage }

func (p *Provider) Handlers() provider.Handlers { return p.handlers }

// renderPayload pretty-prints JSON bodies and passes anything else through
// untouched, as a code block.
func renderPayload(payload []byte) (render.Message, bool, error) {
	text := strings.TrimSpace(string(payload))
	if text == "" {
		return render.Message{Header: header}, true, nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(text), "", " "); err == nil {
		text = buf.String()
	}
	return render.Message{Header: header, Body: text, Fence: render.FenceBlock}, true, nil
}
