package gitlab

import (
	"fmt"
	"strings"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/mattjoyce/hookbot/internal/render"
)

const (
	branchPrefix = "refs/heads/"
	tagPrefix    = "refs/tags/"
	zeroSHA      = "0000000000000000000000000000000000000000"
)

// noteEvent covers the fields of a Note Hook we render. The noteable object
// differs per noteable_type, so only the shared identifiers are kept.
type noteEvent struct {
	User    *gl.EventUser `json:"user"`
	Project struct {
		Name   string `json:"name"`
		WebURL string `json:"web_url"`
	} `json:"project"`
	ObjectAttributes struct {
		Note         string `json:"note"`
		NoteableType string `json:"noteable_type"`
		URL          string `json:"url"`
		StDiff       *struct {
			Diff string `json:"diff"`
		} `json:"st_diff"`
	} `json:"object_attributes"`
	Commit *struct {
		ID string `json:"id"`
	} `json:"commit"`
	Issue        *noteable `json:"issue"`
	MergeRequest *noteable `json:"merge_request"`
	Snippet      *noteable `json:"snippet"`
}

type noteable struct {
	IID   int64  `json:"iid"`
	Title string `json:"title"`
}

func userLink(u *gl.EventUser) string {
	if u == nil {
		return "?"
	}
	return render.Escape("@" + u.Username)
}

func projectLink(name, webURL string) string {
	return render.Link(webURL, name)
}

func numbered(url, project string, iid int64, title string) string {
	return render.Link(url, fmt.Sprintf("%s#%d %s", project, iid, title))
}

func msg(header, body string) (render.Message, bool) {
	return render.Message{Header: header, Body: body}, true
}

func renderIssue(e *gl.IssueEvent) (render.Message, bool) {
	attrs := e.ObjectAttributes
	link := numbered(attrs.URL, e.Project.Name, attrs.IID, attrs.Title)
	by := "\nby " + userLink(e.User)
	switch attrs.Action {
	case "open":
		return msg("🐛 New issue "+link+by, render.Escape(attrs.Description))
	case "close", "closed":
		return msg("🐛❌ Closed Issue "+link+by, "")
	case "reopen", "reopened":
		return msg("🐛 Reopened Issue "+link+by, "")
	}
	return render.Message{}, false
}

func renderNote(e *noteEvent) (render.Message, bool) {
	attrs := e.ObjectAttributes
	by := "\nby " + userLink(e.User)
	note := render.Escape(attrs.Note)

	switch strings.ToLower(attrs.NoteableType) {
	case "commit":
		if e.Commit == nil {
			return render.Message{}, false
		}
		link := render.Link(attrs.URL, e.Project.Name+"@"+render.ShortSHA(e.Commit.ID))
		var diff string
		if attrs.StDiff != nil {
			diff = attrs.StDiff.Diff
		}
		return render.Message{
			Header: "💬 New commit comment on " + link + by,
			Body:   diff,
			Footer: note,
			Fence:  render.FenceInline,
		}, true
	case "issue":
		if e.Issue == nil {
			return render.Message{}, false
		}
		link := numbered(attrs.URL, e.Project.Name, e.Issue.IID, e.Issue.Title)
		return msg("💬 New comment on "+link+by, note)
	case "mergerequest", "merge_request":
		if e.MergeRequest == nil {
			return render.Message{}, false
		}
		link := numbered(attrs.URL, e.Project.Name, e.MergeRequest.IID, e.MergeRequest.Title)
		return msg("💬 New merge request review comment "+link+by, note)
	case "snippet":
		if e.Snippet == nil {
			return render.Message{}, false
		}
		link := render.Link(attrs.URL, e.Project.Name+" - "+e.Snippet.Title)
		return msg("💬 New snippet comment "+link+by, note)
	}
	return render.Message{}, false
}

func renderMergeRequest(e *gl.MergeEvent) (render.Message, bool) {
	attrs := e.ObjectAttributes
	link := numbered(attrs.URL, e.Project.Name, attrs.IID, attrs.Title)
	by := "\nby " + userLink(e.User)
	switch attrs.Action {
	case "open":
		return msg("🔌 New merge request "+link+by, "")
	case "reopen":
		return msg("🔌 Reopened merge request "+link+by, "")
	case "close", "closed":
		return msg("🔌❌ Closed Merge request "+link+by, "")
	case "merge", "merged":
		return msg("🥂 Merged & Closed Merge request "+link+by, "")
	}
	return render.Message{}, false
}

func renderPush(e *gl.PushEvent) (render.Message, bool) {
	if len(e.Commits) == 0 || !strings.HasPrefix(e.Ref, branchPrefix) {
		return render.Message{}, false
	}
	branch := strings.TrimPrefix(e.Ref, branchPrefix)
	n := len(e.Commits)
	header := fmt.Sprintf("🔨 %d new %s to %s on branch %s",
		n, render.Plural(n, "commit"), projectLink(e.Project.Name, e.Project.WebURL), render.Code(branch))

	lines := make([]string, 0, n)
	for _, c := range e.Commits {
		lines = append(lines, fmt.Sprintf("%s: %s by %s",
			render.Link(c.URL, render.ShortSHA(c.ID)),
			render.Escape(strings.TrimSpace(c.Message)),
			render.Escape(c.Author.Name),
		))
	}
	return msg(header, strings.Join(lines, "\n"))
}

// renderTagPush announces new tags. Deleting a tag also fires a Tag Push
// Hook, with an all-zero "after" SHA.
func renderTagPush(e *gl.TagEvent) (render.Message, bool) {
	if !strings.HasPrefix(e.Ref, tagPrefix) || e.After == zeroSHA {
		return render.Message{}, false
	}
	tag := strings.TrimPrefix(e.Ref, tagPrefix)
	return msg(fmt.Sprintf("🔨 tag %s created in %s", render.Code(tag), projectLink(e.Project.Name, e.Project.WebURL)), "")
}

func renderWikiPage(e *gl.WikiPageEvent) (render.Message, bool) {
	attrs := e.ObjectAttributes
	page := render.Link(attrs.URL, e.Project.Name+" "+attrs.Title)
	project := projectLink(e.Project.Name, e.Project.WebURL)
	by := " by " + userLink(e.User)
	content := render.Escape(attrs.Content)
	switch attrs.Action {
	case "create":
		return msg("📘 Wiki page "+page+" created in "+project+by, content)
	case "update":
		return msg("📘 Updated Wiki page "+page+" in "+project+by, content)
	case "delete":
		return msg("📘❌ Deleted Wiki page "+page+" in "+project+by, "")
	}
	return render.Message{}, false
}

func renderPipeline(e *gl.PipelineEvent) (render.Message, bool) {
	status := e.ObjectAttributes.Status
	icon, ok := render.StatusIcon(status)
	if !ok {
		return render.Message{}, false
	}
	word := status
	if icon == render.IconSuccess {
		word = "successful"
	}

	lines := make([]string, 0, len(e.Builds))
	for _, b := range e.Builds {
		lines = append(lines, render.Escape(fmt.Sprintf("%s: %s (%s)", b.Stage, b.Name, b.Status)))
	}
	pipeline := render.Escape(fmt.Sprintf("%s %d", e.Project.Name, e.ObjectAttributes.ID))
	return msg(fmt.Sprintf("%s Pipeline %s state is %s", icon, pipeline, word), strings.Join(lines, "\n"))
}
