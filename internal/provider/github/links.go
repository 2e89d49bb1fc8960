package github

import (
	"fmt"

	gh "github.com/google/go-github/v68/github"

	"github.com/mattjoyce/hookbot/internal/render"
)

func userLink(u *gh.User) string {
	return render.Link(u.GetHTMLURL(), "@"+u.GetLogin())
}

// repoLink falls back to the organization for org-level hooks, which carry
// no repository.
func repoLink(repo *gh.Repository, org *gh.Organization) string {
	if repo != nil {
		return render.Link(repo.GetHTMLURL(), repo.GetFullName())
	}
	if org != nil {
		return render.Link("https://github.com/"+org.GetLogin(), org.GetLogin())
	}
	return "?"
}

// ref renders "owner/repo#12 title" linked to url.
func ref(url string, repo *gh.Repository, number int, title string) string {
	return render.Link(url, fmt.Sprintf("%s#%d %s", repo.GetFullName(), number, title))
}

func issueLink(e *gh.IssuesEvent) string {
	issue := e.GetIssue()
	return ref(issue.GetHTMLURL(), e.GetRepo(), issue.GetNumber(), issue.GetTitle())
}

func prLink(e *gh.PullRequestEvent) string {
	pr := e.GetPullRequest()
	return ref(pr.GetHTMLURL(), e.GetRepo(), pr.GetNumber(), pr.GetTitle())
}

func releaseLink(e *gh.ReleaseEvent) string {
	return render.Link(e.GetRelease().GetHTMLURL(), e.GetRepo().GetFullName()+" "+e.GetRelease().GetName())
}

func commitLink(url string, repo *gh.Repository, sha string) string {
	return render.Link(url, repo.GetFullName()+"@"+render.ShortSHA(sha))
}
