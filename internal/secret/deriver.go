package secret

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // HMAC-SHA1 keeps secrets compatible with already-configured webhooks
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"github.com/zeebo/blake3"
)

// ErrMissingBaseSecret is returned when no base secret is configured.
var ErrMissingBaseSecret = errors.New("base webhook secret is not configured")

// Deriver computes recipient secrets. It is immutable and safe for concurrent use.
type Deriver struct {
	base []byte
}

// NewDeriver returns a Deriver for base. An empty base is a startup error.
func NewDeriver(base string) (*Deriver, error) {
	if base == "" {
		return nil, ErrMissingBaseSecret
	}
	return &Deriver{base: []byte(base)}, nil
}

// Derive returns the hex-encoded secret for recipient.
func (d *Deriver) Derive(recipient string) string {
	mac := hmac.New(sha1.New, []byte(recipient))
	mac.Write(d.base)
	return hex.EncodeToString(mac.Sum(nil))
}

// Equal reports whether candidate is the derived secret for recipient.
// The comparison is constant-time.
func (d *Deriver) Equal(recipient, candidate string) bool {
	if candidate == "" {
		return false
	}
	expected := d.Derive(recipient)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(candidate)) == 1
}

// Fingerprint returns a short BLAKE3 digest of base for logs. It reveals nothing
// usable about the secret but lets operators compare two deployments.
func Fingerprint(base string) string {
	if base == "" {
		return ""
	}
	sum := blake3.Sum256([]byte(base))
	return hex.EncodeToString(sum[:8])
}
