// Package github renders GitHub repository webhooks.
package github

import (
	"net/http"

	gh "github.com/google/go-github/v68/github"

	"github.com/mattjoyce/hookbot/internal/provider"
)

const (
	// Name is the display name and, lowercased, the URL segment.
	Name = "Github"

	headerEvent       = "X-GitHub-Event"
	headerSignature   = "X-Hub-Signature-256"
	headerSignatureV1 = "X-Hub-Signature"
)

// Provider verifies and renders GitHub deliveries.
type Provider struct {
	secrets  provider.Secrets
	handlers provider.Handlers
}

// New returns the GitHub provider. Deliveries are signed with the secret
// derived for their recipient.
func New(secrets provider.Secrets) *Provider {
	return &Provider{
		secrets: secrets,
		handlers: provider.Handlers{
			"ping":                           provider.Decode(renderPing),
			"issues":                         provider.Decode(renderIssue),
			"issue_comment":                  provider.Decode(renderIssueComment),
			"discussion":                     provider.Decode(renderDiscussion),
			"discussion_comment":             provider.Decode(renderDiscussionComment),
			"pull_request":                   provider.Decode(renderPullRequest),
			"pull_request_review":            provider.Decode(renderReview),
			"pull_request_review_comment":    provider.Decode(renderReviewComment),
			"push":                           provider.Decode(renderPush),
			"commit_comment":                 provider.Decode(renderCommitComment),
			"release":                        provider.Decode(renderRelease),
			"project":                        provider.Decode(renderProject),
			"project_card":                   provider.Decode(renderProjectCard),
			"public":                         provider.Decode(renderPublic),
			"repository_vulnerability_alert": provider.Decode(renderVulnerabilityAlert),
			"star":                           provider.Decode(renderStar),
			"fork":                           provider.Decode(renderFork),
			"deployment_status":              provider.Decode(renderDeploymentStatus),
			"status":                         provider.Decode(renderStatus),
			"check_run":                      provider.Decode(renderCheckRun),
		},
	}
}

func (p *Provider) Name() string { return Name }

func (p *Provider) Instructions(baseURL, recipient string) string {
	url := provider.WebhookURL(baseURL, Name, recipient)
	return provider.InstructionText(url, p.secrets.Derive(recipient))
}

// Verify checks the HMAC signature GitHub attaches to every delivery. The
// SHA-256 header is preferred; the legacy SHA-1 header is accepted when it
// is the only one present.
func (p *Provider) Verify(recipient string, h http.Header, body []byte) error {
	sig := h.Get(headerSignature)
	if sig == "" {
		sig = h.Get(headerSignatureV1)
	}
	if sig == "" {
		return provider.ErrVerification
	}
	if err := gh.ValidateSignature(sig, body, []byte(p.secrets.Derive(recipient))); err != nil {
		return provider.ErrVerification
	}
	return nil
}

func (p *Provider) EventKind(h http.Header, _ []byte) string {
	return h.Get(headerEvent)
}

func (p *Provider) Handlers() provider.Handlers { return p.handlers }
