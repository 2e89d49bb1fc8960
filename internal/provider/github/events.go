package github

import (
	"fmt"
	"strings"

	gh "github.com/google/go-github/v68/github"

	"github.com/mattjoyce/hookbot/internal/render"
)

const branchPrefix = "refs/heads/"

// pingEvent adds the repository and organization GitHub sends with ping
// deliveries.
type pingEvent struct {
	gh.PingEvent
	Repo *gh.Repository   `json:"repository,omitempty"`
	Org  *gh.Organization `json:"organization,omitempty"`
}

// discussionEvent carries the chosen answer on "answered" deliveries.
type discussionEvent struct {
	gh.DiscussionEvent
	Answer *gh.CommentDiscussion `json:"answer,omitempty"`
}

type vulnerabilityAlertEvent struct {
	gh.RepositoryVulnerabilityAlertEvent
	Repo *gh.Repository `json:"repository,omitempty"`
}

// Classic project payloads. go-github stopped modelling them when the API
// was retired, but repositories that still have boards keep sending them.
type projectEvent struct {
	Action  string `json:"action"`
	Project struct {
		HTMLURL string   `json:"html_url"`
		Name    string   `json:"name"`
		Body    string   `json:"body"`
		Creator *gh.User `json:"creator"`
	} `json:"project"`
	Repo *gh.Repository   `json:"repository,omitempty"`
	Org  *gh.Organization `json:"organization,omitempty"`
}

type projectCardEvent struct {
	Action      string `json:"action"`
	ProjectCard struct {
		Note    string   `json:"note"`
		Creator *gh.User `json:"creator"`
	} `json:"project_card"`
	Repo *gh.Repository   `json:"repository,omitempty"`
	Org  *gh.Organization `json:"organization,omitempty"`
}

func msg(header, body string) (render.Message, bool) {
	return render.Message{Header: header, Body: body}, true
}

func renderPing(e *pingEvent) (render.Message, bool) {
	return msg("🚀 Webhook activated for "+repoLink(e.Repo, e.Org), "")
}

func renderIssue(e *gh.IssuesEvent) (render.Message, bool) {
	by := "\nby " + userLink(e.GetIssue().GetUser())
	switch e.GetAction() {
	case "opened":
		return msg("🐛 New issue "+issueLink(e)+by, render.Escape(e.GetIssue().GetBody()))
	case "closed":
		return msg("🐛❌ Closed Issue "+issueLink(e)+by, "")
	case "reopened":
		return msg("🐛 Reopened Issue "+issueLink(e)+by, "")
	}
	return render.Message{}, false
}

func renderIssueComment(e *gh.IssueCommentEvent) (render.Message, bool) {
	c := e.GetComment()
	link := ref(c.GetHTMLURL(), e.GetRepo(), e.GetIssue().GetNumber(), e.GetIssue().GetTitle())
	by := "\nby " + userLink(c.GetUser())
	switch e.GetAction() {
	case "created":
		return msg("💬 New comment on "+link+by, render.Escape(c.GetBody()))
	case "edited":
		return msg("💬📝 Comment on "+link+" Edited"+by, render.Escape(c.GetBody()))
	case "deleted":
		return msg("💬❌ Comment on "+link+" Deleted"+by, "")
	}
	return render.Message{}, false
}

func renderDiscussion(e *discussionEvent) (render.Message, bool) {
	d := e.GetDiscussion()
	link := ref(d.GetHTMLURL(), e.GetRepo(), d.GetNumber(), d.GetTitle())
	by := "\nby " + userLink(d.GetUser())
	body := render.Escape(d.GetBody())
	switch e.GetAction() {
	case "created":
		return msg("🧑‍🤝‍🧑 New discussion on "+link+by, body)
	case "edited":
		return msg("🧑‍🤝‍🧑📝 Discussion on "+link+by, body)
	case "deleted":
		return msg("🧑‍🤝‍🧑❌ Discussion on "+link+by, body)
	case "answered":
		answer := ref(e.Answer.GetHTMLURL(), e.GetRepo(), d.GetNumber(), d.GetTitle())
		return msg("🧑‍🤝‍🧑✔️ Discussion Answered "+answer+by, render.Escape(e.Answer.GetBody()))
	}
	return render.Message{}, false
}

func renderDiscussionComment(e *gh.DiscussionCommentEvent) (render.Message, bool) {
	d, c := e.GetDiscussion(), e.GetComment()
	link := ref(c.GetHTMLURL(), e.GetRepo(), d.GetNumber(), d.GetTitle())
	by := "\nby " + userLink(c.GetUser())
	switch e.GetAction() {
	case "created":
		return msg("🧑‍🤝‍🧑💬 New Comment on "+link+by, render.Escape(c.GetBody()))
	case "edited":
		return msg("🧑‍🤝‍🧑💬📝 Comment on "+link+" Edited"+by, render.Escape(c.GetBody()))
	case "deleted":
		return msg("🧑‍🤝‍🧑💬❌ Comment on "+link+" Deleted"+by, "")
	}
	return render.Message{}, false
}

func renderPullRequest(e *gh.PullRequestEvent) (render.Message, bool) {
	pr := e.GetPullRequest()
	by := "\nby " + userLink(pr.GetUser())
	switch e.GetAction() {
	case "opened":
		return msg("🔌 New pull request "+prLink(e)+by, "")
	case "closed":
		if pr.GetMerged() {
			return msg("🔌🥂 Merged & Closed Pull request "+prLink(e)+by, "")
		}
		return msg("🔌❌ Closed Pull request "+prLink(e)+by, "")
	case "ready_for_review":
		return msg("🔌⏳ Pull request "+prLink(e)+" Ready for Review", "")
	}
	return render.Message{}, false
}

func renderReview(e *gh.PullRequestReviewEvent) (render.Message, bool) {
	if e.GetAction() != "submitted" {
		return render.Message{}, false
	}
	r, pr := e.GetReview(), e.GetPullRequest()
	link := ref(r.GetHTMLURL(), e.GetRepo(), pr.GetNumber(), pr.GetTitle())
	who := userLink(r.GetUser())
	body := render.Escape(r.GetBody())

	// The REST API reports review states in upper case, webhooks in lower.
	switch strings.ToLower(r.GetState()) {
	case "approved":
		return msg("✅ New pull request review "+link+"\nApproved by "+who, body)
	case "changes_requested":
		return msg("‼ New pull request review "+link+"\nRequest Changes by "+who, body)
	case "commented":
		return msg("💬 New pull request review "+link+"\nCommented by "+who, body)
	default:
		return msg("❓ New pull request review "+link+"\nCommented by "+who, body)
	}
}

func renderReviewComment(e *gh.PullRequestReviewCommentEvent) (render.Message, bool) {
	if e.GetAction() != "created" {
		return render.Message{}, false
	}
	c, pr := e.GetComment(), e.GetPullRequest()
	link := ref(c.GetHTMLURL(), e.GetRepo(), pr.GetNumber(), pr.GetTitle())
	return render.Message{
		Header: "💬 New pull request review comment " + link + "\nby " + userLink(c.GetUser()),
		Body:   c.GetPath() + "\n" + c.GetDiffHunk(),
		Fence:  render.FenceInline,
		Footer: render.Escape(c.GetBody()),
	}, true
}

func renderPush(e *gh.PushEvent) (render.Message, bool) {
	gitRef := e.GetRef()
	if len(e.Commits) == 0 || !strings.HasPrefix(gitRef, branchPrefix) {
		return render.Message{}, false
	}
	branch := strings.TrimPrefix(gitRef, branchPrefix)
	repo := e.GetRepo()

	n := len(e.Commits)
	header := fmt.Sprintf("🔨 %s to %s on branch %s",
		render.Link(e.GetCompare(), fmt.Sprintf("%d new %s", n, render.Plural(n, "commit"))),
		render.Link(repo.GetHTMLURL(), repo.GetFullName()),
		render.Code(branch),
	)

	lines := make([]string, 0, n)
	for _, c := range e.Commits {
		lines = append(lines, fmt.Sprintf("%s: %s by %s",
			render.Link(c.GetURL(), render.ShortSHA(c.GetID())),
			render.Escape(c.GetMessage()),
			render.Escape(c.GetAuthor().GetName()),
		))
	}
	return msg(header, strings.Join(lines, "\n"))
}

func renderCommitComment(e *gh.CommitCommentEvent) (render.Message, bool) {
	if e.GetAction() != "" && e.GetAction() != "created" {
		return render.Message{}, false
	}
	c := e.GetComment()
	position := "?"
	if c.GetPosition() > 0 {
		position = fmt.Sprint(c.GetPosition())
	}
	return render.Message{
		Header: "💬 New commit comment on " + commitLink(c.GetHTMLURL(), e.GetRepo(), c.GetCommitID()) +
			"\nby " + userLink(c.GetUser()),
		Body:   c.GetPath() + "\n" + position,
		Fence:  render.FenceInline,
		Footer: render.Escape(c.GetBody()),
	}, true
}

func renderRelease(e *gh.ReleaseEvent) (render.Message, bool) {
	rel := e.GetRelease()
	by := "\nby " + userLink(rel.GetAuthor())
	switch e.GetAction() {
	case "created":
		sub := ""
		if rel.GetDraft() {
			sub = "draft "
		} else if rel.GetPrerelease() {
			sub = "pre"
		}
		return msg("🎉 New "+sub+"release "+releaseLink(e)+by, render.Escape(rel.GetBody()))
	case "published":
		return msg("🎉 Published release "+releaseLink(e)+by, "")
	}
	return render.Message{}, false
}

func renderProject(e *projectEvent) (render.Message, bool) {
	if e.Action != "created" {
		return render.Message{}, false
	}
	return msg(fmt.Sprintf("📘 Project %s created in %s by %s",
		render.Link(e.Project.HTMLURL, e.Project.Name), repoLink(e.Repo, e.Org), userLink(e.Project.Creator)),
		render.Escape(e.Project.Body))
}

func renderProjectCard(e *projectCardEvent) (render.Message, bool) {
	if e.Action != "created" {
		return render.Message{}, false
	}
	return msg(fmt.Sprintf("📘 Project Card created in %s by %s",
		repoLink(e.Repo, e.Org), userLink(e.ProjectCard.Creator)),
		render.Escape(e.ProjectCard.Note))
}

func renderPublic(e *gh.PublicEvent) (render.Message, bool) {
	return msg("🥂 "+repoLink(e.GetRepo(), nil)+" was made public", "")
}

func renderVulnerabilityAlert(e *vulnerabilityAlertEvent) (render.Message, bool) {
	if e.GetAction() != "create" {
		return render.Message{}, false
	}
	return msg(fmt.Sprintf("☢ Vulnerability Alert for %s in %s",
		repoLink(e.Repo, nil), render.Code(e.GetAlert().GetAffectedPackageName())), "")
}

func renderStar(e *gh.StarEvent) (render.Message, bool) {
	if e.GetAction() != "created" {
		return render.Message{}, false
	}
	return msg("⭐ "+repoLink(e.GetRepo(), nil)+" was starred by "+userLink(e.GetSender()), "")
}

func renderFork(e *gh.ForkEvent) (render.Message, bool) {
	return msg("⭐ "+repoLink(e.GetRepo(), nil)+" was forked by "+userLink(e.GetSender()), "")
}

func renderDeploymentStatus(e *gh.DeploymentStatusEvent) (render.Message, bool) {
	status := e.GetDeploymentStatus()
	url := status.GetTargetURL()
	if url == "" {
		url = status.GetDeploymentURL()
	}
	repo := repoLink(e.GetRepo(), nil)
	desc := render.Escape(status.GetDescription())

	switch status.GetState() {
	case "success":
		return msg(render.IconSuccess+" "+repo+" was successfully "+render.Link(url, "deployed"), "")
	case "failure":
		return msg(render.IconFailure+" "+repo+" failed to "+render.Link(url, "deploy"), desc)
	case "error":
		return msg(render.IconFailure+" "+repo+" errored while "+render.Link(url, "deploying"), desc)
	}
	return render.Message{}, false
}

func renderStatus(e *gh.StatusEvent) (render.Message, bool) {
	var icon, title string
	switch e.GetState() {
	case "success":
		icon, title = render.IconSuccess, "successful"
	case "failure", "error":
		icon, title = render.IconFailure, e.GetState()
	default:
		return render.Message{}, false
	}
	sha := e.GetCommit().GetSHA()
	if sha == "" {
		sha = e.GetSHA()
	}
	commit := commitLink(e.GetCommit().GetHTMLURL(), e.GetRepo(), sha)
	return msg(fmt.Sprintf("%s Commit %s state is %s", icon, commit, render.Link(e.GetTargetURL(), title)),
		render.Escape(e.GetDescription()))
}

func renderCheckRun(e *gh.CheckRunEvent) (render.Message, bool) {
	if e.GetAction() != "completed" {
		return render.Message{}, false
	}
	run := e.GetCheckRun()
	name := render.Code(run.GetName())
	repo := repoLink(e.GetRepo(), nil)
	summary := render.Escape(run.GetOutput().GetSummary())
	url := run.GetHTMLURL()

	switch run.GetConclusion() {
	case "success":
		return msg(fmt.Sprintf("%s Check Run %s in %s was a %s", render.IconSuccess, name, repo, render.Link(url, "success")), summary)
	case "failure":
		return msg(fmt.Sprintf("%s Check Run %s in %s %s", render.IconFailure, name, repo, render.Link(url, "failed")), summary)
	case "action_required":
		return msg(fmt.Sprintf("%s Check Run %s in %s %s", render.IconFailure, name, repo, render.Link(url, "requires action")), summary)
	}
	return render.Message{}, false
}
