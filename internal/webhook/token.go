package webhook

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// deliveryHeaders carry a sender-assigned delivery ID, in order of preference.
var deliveryHeaders = []string{
	"X-GitHub-Delivery",
	"X-Gitlab-Event-UUID",
}

// tokenMatches compares a presented token with the expected one in constant
// time. An empty expected token never matches.
func tokenMatches(got, want string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// requestID picks the ID used to correlate log lines for one delivery. Provider
// delivery IDs win over the chi request ID so a log line can be matched with
// the provider's delivery history.
func requestID(r *http.Request) string {
	for _, h := range deliveryHeaders {
		if id := r.Header.Get(h); id != "" {
			return id
		}
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}

// baseURL returns the externally visible scheme://host the instructions should
// point at. A configured public URL always wins.
func baseURL(r *http.Request, publicURL string) string {
	if publicURL != "" {
		return strings.TrimRight(publicURL, "/")
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme, _, _ = strings.Cut(proto, ",")
		scheme = strings.ToLower(strings.TrimSpace(scheme))
	}
	return scheme + "://" + r.Host
}
