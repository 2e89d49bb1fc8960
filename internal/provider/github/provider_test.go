package github

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/hookbot/internal/provider"
	"github.com/mattjoyce/hookbot/internal/render"
	"github.com/mattjoyce/hookbot/internal/secret"
)

func newProvider(t *testing.T) (*Provider, *secret.Deriver) {
	t.Helper()
	d, err := secret.NewDeriver("base-secret")
	require.NoError(t, err)
	return New(d), d
}

func sign(t *testing.T, prefix string, mac func() []byte) string {
	t.Helper()
	return prefix + hex.EncodeToString(mac())
}

func TestVerify(t *testing.T) {
	p, d := newProvider(t)
	body := []byte(`{"zen":"Keep it logically awesome."}`)
	key := []byte(d.Derive("-100123"))

	sha256Sig := sign(t, "sha256=", func() []byte {
		m := hmac.New(sha256.New, key)
		m.Write(body)
		return m.Sum(nil)
	})
	sha1Sig := sign(t, "sha1=", func() []byte {
		m := hmac.New(sha1.New, key)
		m.Write(body)
		return m.Sum(nil)
	})

	tests := []struct {
		name      string
		recipient string
		headers   map[string]string
		wantErr   bool
	}{
		{name: "sha256 signature", recipient: "-100123", headers: map[string]string{headerSignature: sha256Sig}},
		{name: "legacy sha1 signature", recipient: "-100123", headers: map[string]string{headerSignatureV1: sha1Sig}},
		{name: "missing signature", recipient: "-100123", wantErr: true},
		{name: "other recipient", recipient: "42", headers: map[string]string{headerSignature: sha256Sig}, wantErr: true},
		{name: "garbage", recipient: "-100123", headers: map[string]string{headerSignature: "sha256=zz"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			err := p.Verify(tt.recipient, h, body)
			if tt.wantErr {
				assert.ErrorIs(t, err, provider.ErrVerification)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInstructions(t *testing.T) {
	p, d := newProvider(t)
	text := p.Instructions("https://bot.example.com/", "-100123")

	assert.Contains(t, text, "https://bot.example.com/webhooks/github/-100123")
	assert.Contains(t, text, "Secret: `"+d.Derive("-100123")+"`")
	assert.Contains(t, text, "application/json")
}

func TestEventKind(t *testing.T) {
	p, _ := newProvider(t)
	h := http.Header{}
	h.Set("X-GitHub-Event", "push")
	assert.Equal(t, "push", p.EventKind(h, nil))
}

func dispatch(t *testing.T, kind, payload string) (string, bool) {
	t.Helper()
	p, _ := newProvider(t)
	msg, ok, err := provider.Dispatch(p, kind, []byte(payload))
	require.NoError(t, err)
	return msg.String(), ok
}

func TestPush(t *testing.T) {
	payload := `{
		"ref": "refs/heads/main",
		"compare": "https://github.com/o/r/compare/a...b",
		"repository": {"full_name": "o/r", "html_url": "https://github.com/o/r"},
		"commits": [
			{"id": "abcdef1234567", "url": "https://github.com/o/r/commit/abcdef1", "message": "fix bug", "author": {"name": "Alice"}},
			{"id": "1234567abcdef", "url": "https://github.com/o/r/commit/1234567", "message": "add *feature*", "author": {"name": "Bob"}}
		]
	}`

	out, ok := dispatch(t, "push", payload)
	require.True(t, ok)

	header, body, _ := strings.Cut(out, "\n\n")
	assert.Equal(t, "🔨 [2 new commits](https://github.com/o/r/compare/a...b) to [o/r](https://github.com/o/r) on branch `main`", header)

	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[abcdef1](https://github.com/o/r/commit/abcdef1): fix bug by Alice", lines[0])
	assert.Equal(t, `[1234567](https://github.com/o/r/commit/1234567): add \*feature\* by Bob`, lines[1])
}

func TestPushWithoutMessage(t *testing.T) {
	tests := map[string]string{
		"no commits": `{"ref": "refs/heads/main", "commits": []}`,
		"tag ref":    `{"ref": "refs/tags/v1", "commits": [{"id": "abc"}]}`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			_, ok := dispatch(t, "push", payload)
			assert.False(t, ok)
		})
	}
}

func TestSingleCommitIsSingular(t *testing.T) {
	out, ok := dispatch(t, "push", `{"ref": "refs/heads/dev", "compare": "https://github.com/o/r/compare/a...b", "commits": [{"id": "abc", "message": "m", "author": {"name": "a"}}]}`)
	require.True(t, ok)
	assert.Contains(t, out, "🔨 [1 new commit](https://github.com/o/r/compare/a...b) to")
}

func TestIssueOpenedLongBody(t *testing.T) {
	long := strings.Repeat("x", 5000)
	payload := `{
		"action": "opened",
		"issue": {"number": 7, "title": "Crash", "html_url": "https://github.com/o/r/issues/7", "body": "` + long + `",
			"user": {"login": "alice", "html_url": "https://github.com/alice"}},
		"repository": {"full_name": "o/r"}
	}`

	out, ok := dispatch(t, "issues", payload)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(out, "🐛 New issue [o/r#7 Crash](https://github.com/o/r/issues/7)\nby [@alice](https://github.com/alice)"))
	assert.Contains(t, out, "Truncated message")
	assert.LessOrEqual(t, len([]rune(out)), 4096)
}

func TestRenderedEvents(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		payload string
		want    string
	}{
		{
			name:    "ping",
			kind:    "ping",
			payload: `{"zen": "z", "repository": {"full_name": "o/r", "html_url": "https://github.com/o/r"}}`,
			want:    "🚀 Webhook activated for [o/r](https://github.com/o/r)",
		},
		{
			name:    "ping for organization",
			kind:    "ping",
			payload: `{"zen": "z", "organization": {"login": "acme"}}`,
			want:    "🚀 Webhook activated for [acme](https://github.com/acme)",
		},
		{
			name:    "merged pull request",
			kind:    "pull_request",
			payload: `{"action": "closed", "pull_request": {"number": 3, "title": "T", "merged": true, "html_url": "u", "user": {"login": "bob"}}, "repository": {"full_name": "o/r"}}`,
			want:    "🔌🥂 Merged & Closed Pull request [o/r#3 T](u)",
		},
		{
			name:    "review requesting changes",
			kind:    "pull_request_review",
			payload: `{"action": "submitted", "review": {"state": "changes_requested", "html_url": "u", "user": {"login": "bob"}}, "pull_request": {"number": 3, "title": "T"}, "repository": {"full_name": "o/r"}}`,
			want:    "‼ New pull request review [o/r#3 T](u)\nRequest Changes by @bob",
		},
		{
			name:    "review with unknown state",
			kind:    "pull_request_review",
			payload: `{"action": "submitted", "review": {"state": "dismissed", "html_url": "u", "user": {"login": "bob"}}, "pull_request": {"number": 3, "title": "T"}, "repository": {"full_name": "o/r"}}`,
			want:    "❓ New pull request review",
		},
		{
			name:    "draft release",
			kind:    "release",
			payload: `{"action": "created", "release": {"name": "v1", "draft": true, "html_url": "u", "author": {"login": "bob"}}, "repository": {"full_name": "o/r"}}`,
			want:    "🎉 New draft release [o/r v1](u)",
		},
		{
			name:    "failed check run",
			kind:    "check_run",
			payload: `{"action": "completed", "check_run": {"name": "ci", "conclusion": "failure", "html_url": "u", "output": {"summary": "boom"}}, "repository": {"full_name": "o/r", "html_url": "r"}}`,
			want:    "🌩 Check Run `ci` in [o/r](r) [failed](u)",
		},
		{
			name:    "successful status",
			kind:    "status",
			payload: `{"state": "success", "sha": "0123456789", "target_url": "t", "commit": {"html_url": "c"}, "repository": {"full_name": "o/r"}}`,
			want:    "☀ Commit [o/r@0123456](c) state is [successful](t)",
		},
		{
			name:    "deployment error",
			kind:    "deployment_status",
			payload: `{"deployment_status": {"state": "error", "target_url": "t", "description": "oops"}, "repository": {"full_name": "o/r", "html_url": "r"}}`,
			want:    "🌩 [o/r](r) errored while [deploying](t)\n\noops",
		},
		{
			name:    "vulnerability alert",
			kind:    "repository_vulnerability_alert",
			payload: `{"action": "create", "alert": {"affected_package_name": "lodash"}, "repository": {"full_name": "o/r", "html_url": "r"}}`,
			want:    "☢ Vulnerability Alert for [o/r](r) in `lodash`",
		},
		{
			name:    "star",
			kind:    "star",
			payload: `{"action": "created", "repository": {"full_name": "o/r", "html_url": "r"}, "sender": {"login": "eve", "html_url": "e"}}`,
			want:    "⭐ [o/r](r) was starred by [@eve](e)",
		},
		{
			name:    "project created",
			kind:    "project",
			payload: `{"action": "created", "project": {"html_url": "p", "name": "Roadmap", "body": "Q3 *plans*", "creator": {"login": "amy", "html_url": "a"}}, "repository": {"full_name": "o/r", "html_url": "r"}}`,
			want:    "📘 Project [Roadmap](p) created in [o/r](r) by [@amy](a)\n\nQ3 \\*plans\\*",
		},
		{
			name:    "project card on org board",
			kind:    "project_card",
			payload: `{"action": "created", "project_card": {"note": "ship it", "creator": {"login": "amy", "html_url": "a"}}, "organization": {"login": "acme"}}`,
			want:    "📘 Project Card created in [acme](https://github.com/acme) by [@amy](a)\n\nship it",
		},
		{
			name:    "discussion answered",
			kind:    "discussion",
			payload: `{"action": "answered", "discussion": {"number": 9, "title": "Q", "user": {"login": "bob"}}, "answer": {"html_url": "a", "body": "use v2"}, "repository": {"full_name": "o/r"}}`,
			want:    "🧑‍🤝‍🧑✔️ Discussion Answered [o/r#9 Q](a)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := dispatch(t, tt.kind, tt.payload)
			require.True(t, ok)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestLongReviewCommentDiffStaysClosed(t *testing.T) {
	payload := `{"action": "created",
		"comment": {"path": "main.go", "diff_hunk": "` + strings.Repeat("d", 6000) + `", "body": "nit", "html_url": "c", "user": {"login": "bob"}},
		"pull_request": {"number": 1, "title": "T"}, "repository": {"full_name": "o/r"}}`

	out, ok := dispatch(t, "pull_request_review_comment", payload)
	require.True(t, ok)
	assert.LessOrEqual(t, utf8.RuneCountInString(out), render.DefaultLimit)
	assert.Equal(t, 0, strings.Count(out, "`")%2)
	assert.True(t, strings.HasSuffix(out, "`\n"+render.TruncationMarker+"\nnit"))
}

func TestReviewCommentPutsCommentInFooter(t *testing.T) {
	payload := `{
		"action": "created",
		"comment": {"path": "main.go", "diff_hunk": "@@ -1 +1 @@", "body": "nit", "html_url": "u", "user": {"login": "bob"}},
		"pull_request": {"number": 3, "title": "T"},
		"repository": {"full_name": "o/r"}
	}`
	out, ok := dispatch(t, "pull_request_review_comment", payload)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(out, "`main.go\n@@ -1 +1 @@`\nnit"))
}

func TestNoMessage(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		payload string
	}{
		{"unknown kind", "workflow_job", `{}`},
		{"issue labeled", "issues", `{"action": "labeled"}`},
		{"pending status", "status", `{"state": "pending"}`},
		{"neutral check run", "check_run", `{"action": "completed", "check_run": {"conclusion": "neutral"}}`},
		{"check run in progress", "check_run", `{"action": "created"}`},
		{"inactive deployment", "deployment_status", `{"deployment_status": {"state": "inactive"}}`},
		{"unstar", "star", `{"action": "deleted"}`},
		{"project closed", "project", `{"action": "closed"}`},
		{"project card moved", "project_card", `{"action": "moved"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := dispatch(t, tt.kind, tt.payload)
			assert.False(t, ok)
		})
	}
}

func TestDecodeError(t *testing.T) {
	p, _ := newProvider(t)
	_, ok, err := provider.Dispatch(p, "push", []byte(`not json`))
	assert.Error(t, err)
	assert.False(t, ok)
}
