// Package hosting creates pull requests against the GitHub API.
package hosting

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

var (
	// ErrNoAuthToken indicates no credential could be resolved from the
	// environment or the local credential store.
	ErrNoAuthToken = errors.New("no GitHub token found; set GITHUB_TOKEN or configure git credentials")

	// ErrNoRepoInfo indicates the origin remote URL could not be parsed
	// into an owner/repo pair.
	ErrNoRepoInfo = errors.New("could not determine repository owner and name from origin remote")
)

// RepoResolver supplies the hosting prerequisites read from the local repository.
type RepoResolver interface {
	AuthToken() (string, error)
	CurrentBranch() (string, error)
	RemoteOwnerAndRepo() (string, string, error)
}

// Options configures a Client.
type Options struct {
	// APIBaseURL overrides the GitHub API endpoint. Tests point this at a
	// local server; empty means api.github.com.
	APIBaseURL string
}

// Client creates pull requests for the repository the resolver describes.
type Client struct {
	resolver RepoResolver
	opts     Options
}

// NewClient creates a hosting client.
func NewClient(resolver RepoResolver, opts Options) *Client {
	return &Client{resolver: resolver, opts: opts}
}

// CreatePullRequest opens a PR from the current branch onto baseBranch and
// returns its web URL. API-level rejections are reported with the underlying
// message preserved.
func (c *Client) CreatePullRequest(ctx context.Context, title, body, baseBranch string) (string, error) {
	token, err := c.resolver.AuthToken()
	if err != nil || token == "" {
		return "", ErrNoAuthToken
	}

	head, err := c.resolver.CurrentBranch()
	if err != nil {
		return "", err
	}

	owner, repo, err := c.resolver.RemoteOwnerAndRepo()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoRepoInfo, err)
	}

	client, err := c.githubClient(ctx, token)
	if err != nil {
		return "", err
	}

	pr, _, err := client.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.String(title),
		Body:  github.String(body),
		Head:  github.String(head),
		Base:  github.String(baseBranch),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create pull request: %w", err)
	}

	return pr.GetHTMLURL(), nil
}

func (c *Client) githubClient(ctx context.Context, token string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if c.opts.APIBaseURL != "" {
		base, err := url.Parse(c.opts.APIBaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL: %w", err)
		}
		client.BaseURL = base
	}
	return client, nil
}
