// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

// Package ghreport posts run results back to GitHub as issue comments.
package ghreport

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/go-github/v68/github"

	"github.com/davetashner/drover/internal/agent"
)

// maxCommentBody keeps comments under GitHub's 65536-character limit with
// room for the truncation notice.
const maxCommentBody = 60000

// sshPattern matches git@github.com:owner/repo.git SSH URLs.
var sshPattern = regexp.MustCompile(`^git@github\.com:([^/]+)/([^/]+?)(?:\.git)?$`)

// issuesAPI abstracts the GitHub issues API for testing.
type issuesAPI interface {
	CreateComment(ctx context.Context, owner, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
}

// realIssuesAPI wraps the real go-github client to implement issuesAPI.
type realIssuesAPI struct {
	client *github.Client
}

func (r *realIssuesAPI) CreateComment(ctx context.Context, owner, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error) {
	return r.client.Issues.CreateComment(ctx, owner, repo, number, comment)
}

// Reporter posts comments to one GitHub repository.
type Reporter struct {
	owner string
	repo  string
	api   issuesAPI
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithIssuesAPI substitutes the GitHub API layer, for tests.
func WithIssuesAPI(api issuesAPI) Option {
	return func(r *Reporter) {
		r.api = api
	}
}

// NewReporter creates a Reporter for the repository at repoURL,
// authenticated with token.
func NewReporter(token, repoURL string, opts ...Option) (*Reporter, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	r := &Reporter{owner: owner, repo: repo}
	for _, o := range opts {
		o(r)
	}
	if r.api == nil {
		client := github.NewClient(nil).WithAuthToken(token)
		r.api = &realIssuesAPI{client: client}
	}
	return r, nil
}

// ParseRepoURL parses a GitHub URL (HTTPS or SSH) into owner and repo.
func ParseRepoURL(rawURL string) (owner, repo string, err error) {
	// Try SSH format: git@github.com:owner/repo.git
	if m := sshPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], m[2], nil
	}

	// Try HTTPS format: https://github.com/owner/repo.git
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("parsing URL %q: %w", rawURL, err)
	}

	if parsed.Host != "github.com" {
		return "", "", fmt.Errorf("remote %q is not a GitHub URL", rawURL)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("cannot parse owner/repo from %q", rawURL)
	}

	owner = parts[0]
	repo = strings.TrimSuffix(parts[1], ".git")
	return owner, repo, nil
}

// Comment posts a raw markdown body to the given issue.
func (r *Reporter) Comment(ctx context.Context, issueNumber int, body string) error {
	comment := &github.IssueComment{Body: github.Ptr(body)}

	if _, _, err := r.api.CreateComment(ctx, r.owner, r.repo, issueNumber, comment); err != nil {
		return fmt.Errorf("commenting on %s/%s#%d: %w", r.owner, r.repo, issueNumber, err)
	}
	return nil
}

// CommentRunResult posts a formatted run summary to the given issue.
func (r *Reporter) CommentRunResult(ctx context.Context, issueNumber int, runID string, resp agent.PromptResponse) error {
	return r.Comment(ctx, issueNumber, formatRunComment(runID, resp))
}

// formatRunComment renders the markdown comment body. Oversized output is
// truncated to stay within GitHub's comment size limit.
func formatRunComment(runID string, resp agent.PromptResponse) string {
	status := "✅ succeeded"
	if !resp.Success {
		status = "❌ failed"
	}

	output := resp.Output
	truncated := false
	if len(output) > maxCommentBody {
		output = output[:maxCommentBody]
		truncated = true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### Agent run %s\n\n", status)
	fmt.Fprintf(&b, "Run ID: `%s`\n", runID)
	if resp.SessionID != "" {
		fmt.Fprintf(&b, "Session: `%s`\n", resp.SessionID)
	}
	b.WriteString("\n<details>\n<summary>Output</summary>\n\n```\n")
	b.WriteString(output)
	b.WriteString("\n```\n</details>\n")
	if truncated {
		b.WriteString("\n_Output truncated._\n")
	}
	return b.String()
}
