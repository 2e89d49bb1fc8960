// Package gitlab renders GitLab project webhooks.
package gitlab

import (
	"net/http"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/mattjoyce/hookbot/internal/provider"
)

const (
	// Name is the display name and, lowercased, the URL segment.
	Name = "Gitlab"

	headerEvent = "X-Gitlab-Event"
	headerToken = "X-Gitlab-Token"
)

// Provider verifies and renders GitLab deliveries.
type Provider struct {
	secrets  provider.Secrets
	handlers provider.Handlers
}

// New returns the GitLab provider. GitLab echoes the configured secret token
// back in a header rather than signing the body.
func New(secrets provider.Secrets) *Provider {
	issue := provider.Decode(renderIssue)
	note := provider.Decode(renderNote)
	return &Provider{
		secrets: secrets,
		handlers: provider.Handlers{
			string(gl.EventTypeIssue):         issue,
			string(gl.EventConfidentialIssue): issue,
			string(gl.EventTypeNote):          note,
			string(gl.EventConfidentialNote):  note,
			string(gl.EventTypeMergeRequest):  provider.Decode(renderMergeRequest),
			string(gl.EventTypePush):          provider.Decode(renderPush),
			string(gl.EventTypeTagPush):       provider.Decode(renderTagPush),
			string(gl.EventTypeWikiPage):      provider.Decode(renderWikiPage),
			string(gl.EventTypePipeline):      provider.Decode(renderPipeline),
		},
	}
}

func (p *Provider) Name() string { return Name }

func (p *Provider) Instructions(baseURL, recipient string) string {
	url := provider.WebhookURL(baseURL, Name, recipient)
	return provider.InstructionText(url, p.secrets.Derive(recipient))
}

func (p *Provider) Verify(recipient string, h http.Header, _ []byte) error {
	token := h.Get(headerToken)
	if token == "" || !p.secrets.Equal(recipient, token) {
		return provider.ErrVerification
	}
	return nil
}

func (p *Provider) EventKind(h http.Header, _ []byte) string {
	return h.Get(headerEvent)
}

func (p *Provider) Handlers() provider.Handlers { return p.handlers }
