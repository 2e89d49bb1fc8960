package secret

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeriver_MissingBase(t *testing.T) {
	d, err := NewDeriver("")
	assert.Nil(t, d)
	assert.True(t, errors.Is(err, ErrMissingBaseSecret))
}

func TestDerive_MatchesReferenceConstruction(t *testing.T) {
	d, err := NewDeriver("base-secret")
	require.NoError(t, err)

	mac := hmac.New(sha1.New, []byte("12345"))
	mac.Write([]byte("base-secret"))
	want := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, d.Derive("12345"))
	assert.Len(t, d.Derive("12345"), 40)
}

func TestDerive_Deterministic(t *testing.T) {
	d1, err := NewDeriver("base-secret")
	require.NoError(t, err)
	// A second instance stands in for a process restart.
	d2, err := NewDeriver("base-secret")
	require.NoError(t, err)

	for _, r := range []string{"", "1", "-100200300", "@channel", "ünïcode"} {
		assert.Equal(t, d1.Derive(r), d1.Derive(r), "recipient %q", r)
		assert.Equal(t, d1.Derive(r), d2.Derive(r), "recipient %q", r)
	}
}

func TestDerive_DistinctRecipients(t *testing.T) {
	d, err := NewDeriver("base-secret")
	require.NoError(t, err)

	seen := make(map[string]string)
	for i := 0; i < 500; i++ {
		r := fmt.Sprintf("chat-%d", i)
		s := d.Derive(r)
		if prev, ok := seen[s]; ok {
			t.Fatalf("collision between %q and %q", prev, r)
		}
		seen[s] = r
	}
}

func TestDerive_DependsOnBase(t *testing.T) {
	a, err := NewDeriver("one")
	require.NoError(t, err)
	b, err := NewDeriver("two")
	require.NoError(t, err)

	assert.NotEqual(t, a.Derive("42"), b.Derive("42"))
}

func TestEqual(t *testing.T) {
	d, err := NewDeriver("base-secret")
	require.NoError(t, err)

	assert.True(t, d.Equal("42", d.Derive("42")))
	assert.False(t, d.Equal("42", d.Derive("43")))
	assert.False(t, d.Equal("42", ""))
	assert.False(t, d.Equal("42", "not-hex"))
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "", Fingerprint(""))
	fp := Fingerprint("base-secret")
	assert.Len(t, fp, 16)
	assert.Equal(t, fp, Fingerprint("base-secret"))
	assert.NotEqual(t, fp, Fingerprint("other"))
	assert.NotContains(t, fp, "base-secret")
}
