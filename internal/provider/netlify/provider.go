// Package netlify renders Netlify deploy notifications.
package netlify

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mattjoyce/hookbot/internal/provider"
	"github.com/mattjoyce/hookbot/internal/render"
)

const (
	Name = "Netlify"

	// KindDeploy is the only event Netlify sends to outgoing webhooks.
	KindDeploy = "deploy"

	headerSignature = "X-Webhook-Signature"
	issuer          = "netlify"
)

type deploy struct {
	Name         string `json:"name"`
	State        string `json:"state"`
	BuildID      string `json:"build_id"`
	ID           string `json:"id"`
	SSLURL       string `json:"ssl_url"`
	AdminURL     string `json:"admin_url"`
	Branch       string `json:"branch"`
	ErrorMessage string `json:"error_message"`
}

// Provider verifies and renders Netlify deploy notifications.
type Provider struct {
	secrets  provider.Secrets
	handlers provider.Handlers
}

func New(secrets provider.Secrets) *Provider {
	return &Provider{
		secrets: secrets,
		handlers: provider.Handlers{
			KindDeploy: provider.Decode(renderDeploy),
		},
	}
}

func (p *Provider) Name() string { return Name }

func (p *Provider) Instructions(baseURL, recipient string) string {
	url := provider.WebhookURL(baseURL, Name, recipient)
	return provider.InstructionText(url, p.secrets.Derive(recipient))
}

// Verify checks the JWS Netlify attaches when a "JWS secret token" is set on
// the notification. The token is HS256-signed, issued by "netlify" and
// carries the hex SHA-256 of the body in its sha256 claim.
func (p *Provider) Verify(recipient string, h http.Header, body []byte) error {
	raw := h.Get(headerSignature)
	if raw == "" {
		return provider.ErrVerification
	}

	key := []byte(p.secrets.Derive(recipient))
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return provider.ErrVerification
	}

	sum := sha256.Sum256(body)
	if digest, _ := claims["sha256"].(string); digest != hex.EncodeToString(sum[:]) {
		return provider.ErrVerification
	}
	return nil
}

func (p *Provider) EventKind(http.Header, []byte) string { return KindDeploy }

func (p *Provider) Handlers() provider.Handlers { return p.handlers }

func renderDeploy(d *deploy) (render.Message, bool) {
	switch d.State {
	case "ready", "error", "failed":
	default:
		return render.Message{}, false
	}
	icon, _ := render.StatusIcon(d.State)

	buildID := d.ID
	if buildID == "" {
		buildID = d.BuildID
	}
	var deployURL string
	if d.AdminURL != "" {
		deployURL = d.AdminURL + "/deploys/" + buildID
	}
	site := render.Link(d.SSLURL, "Netlify App "+d.Name)

	if icon == render.IconSuccess {
		return render.Message{Header: icon + " " + site + " was successfully " + render.Link(deployURL, "deployed")}, true
	}
	return render.Message{
		Header: icon + " " + site + " failed to " + render.Link(deployURL, "deploy"),
		Body:   render.Escape(d.ErrorMessage),
	}, true
}
