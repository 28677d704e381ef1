// Package git wraps repository inspection and mutation as typed operations
// over the git executable.
package git

import (
	"errors"
	"os"
	"regexp"
	"strings"

	"github.com/autoflowhq/autoflow/internal/gitcmd"
	"github.com/autoflowhq/autoflow/internal/gitutil"
)

// ErrNoRepo indicates the current directory is not inside a git repository.
var ErrNoRepo = errors.New("not inside a git repository")

// Scope selects which diff a Client.Diff call produces.
type Scope int

const (
	// WorkingTree diffs all uncommitted changes regardless of staging.
	WorkingTree Scope = iota
	// Staged diffs only the index.
	Staged
)

// lockfileExcludePathspecs filters dependency lockfiles out of every diff;
// their churn is noise for message generation.
var lockfileExcludePathspecs = []string{
	":(exclude)uv.lock",
	":(exclude)poetry.lock",
	":(exclude)Pipfile.lock",
	":(exclude)package-lock.json",
	":(exclude)yarn.lock",
	":(exclude)pnpm-lock.yaml",
	":(exclude)composer.lock",
	":(exclude)Gemfile.lock",
}

var defaultBranchCandidates = []string{"main", "master"}

var (
	httpsRemotePattern = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+?)(?:\.git)?$`)
	sshRemotePattern   = regexp.MustCompile(`^git@github\.com:([^/]+)/([^/]+?)(?:\.git)?$`)
)

// Options configures a Client.
type Options struct {
	Verbose bool
	Dir     string
}

// Client executes git operations through a shared command runner.
type Client struct {
	runner gitcmd.Runner
}

// NewClient creates a git client.
func NewClient(opts Options) *Client {
	return &Client{runner: gitcmd.Runner{Verbose: opts.Verbose, Dir: opts.Dir}}
}

// IsGitRepository reports whether the working directory is inside a git repository.
func (c *Client) IsGitRepository() bool {
	_, err := c.runner.Run("rev-parse", "--git-dir")
	return err == nil
}

// CurrentBranch returns the checked-out branch name.
func (c *Client) CurrentBranch() (string, error) {
	result, err := c.runner.Run("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", ErrNoRepo
	}
	branch := result.StdoutString(true)
	if branch == "" {
		return "", ErrNoRepo
	}
	return branch, nil
}

// DefaultBranch resolves the primary integration branch from origin's symbolic
// HEAD, falling back to probing main then master against local and remote refs.
// Returns an empty string when no candidate resolves.
func (c *Client) DefaultBranch() string {
	result, err := c.runner.Run("rev-parse", "--abbrev-ref", "origin/HEAD")
	if err == nil {
		if head := result.StdoutString(true); head != "" {
			return strings.TrimPrefix(head, "origin/")
		}
	}

	for _, candidate := range defaultBranchCandidates {
		if c.refExists("refs/heads/" + candidate) {
			return candidate
		}
		if c.refExists("refs/remotes/origin/" + candidate) {
			return candidate
		}
	}
	return ""
}

func (c *Client) refExists(ref string) bool {
	_, err := c.runner.Run("show-ref", "--verify", "--quiet", ref)
	return err == nil
}

// HasUnstagedChanges reports whether the porcelain status is non-empty.
func (c *Client) HasUnstagedChanges() (bool, error) {
	result, err := c.runner.Run("status", "--porcelain")
	if err != nil {
		return false, gitutil.WrapGitError("git status failed", result, err)
	}
	return result.StdoutString(true) != "", nil
}

// StageAll stages the entire working tree. Idempotent.
func (c *Client) StageAll() error {
	result, err := c.runner.Run("add", ".")
	if err != nil {
		return gitutil.WrapGitError("git add failed", result, err)
	}
	return nil
}

// CreateAndCheckoutBranch creates and checks out a new branch.
func (c *Client) CreateAndCheckoutBranch(name string) error {
	if err := gitutil.ValidateBranchName(name); err != nil {
		return err
	}
	result, err := c.runner.Run("checkout", "-b", name)
	if err != nil {
		return gitutil.WrapGitError("failed to create branch "+name, result, err)
	}
	return nil
}

// Diff produces unified diff text for the requested scope, always excluding
// dependency lockfiles. Empty output means no changes; an error means the
// command itself failed.
func (c *Client) Diff(scope Scope) (string, error) {
	args := []string{"diff"}
	if scope == Staged {
		args = append(args, "--staged")
	}
	args = append(args, "--")
	args = append(args, lockfileExcludePathspecs...)

	result, err := c.runner.Run(args...)
	if err != nil {
		return "", gitutil.WrapGitError("git diff failed", result, err)
	}
	return result.StdoutString(false), nil
}

// SplitMessage separates a commit message into its subject (first line) and
// body (everything after, trimmed). The first line boundary only.
func SplitMessage(message string) (subject, body string) {
	message = strings.TrimSpace(message)
	subject, rest, found := strings.Cut(message, "\n")
	if !found {
		return subject, ""
	}
	return subject, strings.TrimSpace(rest)
}

// Commit records the staged changes. The message subject and body are passed
// as separate -m segments to preserve conventional formatting.
func (c *Client) Commit(message string) error {
	subject, body := SplitMessage(message)
	args := []string{"commit", "-m", subject}
	if body != "" {
		args = append(args, "-m", body)
	}

	result, err := c.runner.Run(args...)
	if err != nil {
		return gitutil.WrapGitError("git commit failed", result, err)
	}
	return nil
}

// PushCurrentBranch pushes the current branch, setting upstream tracking on origin.
func (c *Client) PushCurrentBranch() error {
	branch, err := c.CurrentBranch()
	if err != nil {
		return err
	}
	result, err := c.runner.Run("push", "--set-upstream", "origin", branch)
	if err != nil {
		return gitutil.WrapGitError("git push failed", result, err)
	}
	return nil
}

// RemoteOwnerAndRepo parses the origin remote URL into (owner, repo).
// Both HTTPS and SSH remote forms are accepted.
func (c *Client) RemoteOwnerAndRepo() (string, string, error) {
	result, err := c.runner.Run("remote", "get-url", "origin")
	if err != nil {
		return "", "", gitutil.WrapGitError("failed to get remote URL", result, err)
	}
	return ParseRemoteURL(result.StdoutString(true))
}

// ParseRemoteURL extracts (owner, repo) from a github.com remote URL.
func ParseRemoteURL(remoteURL string) (string, string, error) {
	for _, pattern := range []*regexp.Regexp{httpsRemotePattern, sshRemotePattern} {
		if m := pattern.FindStringSubmatch(remoteURL); m != nil {
			return m[1], m[2], nil
		}
	}
	return "", "", errors.New("could not parse repository info from remote URL: " + remoteURL)
}

// AuthToken resolves a hosting credential: GITHUB_TOKEN when set, otherwise
// the password field from the local credential store for github.com HTTPS.
func (c *Client) AuthToken() (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	input := "protocol=https\nhost=github.com\n\n"
	result, err := c.runner.RunWithInput(input, "credential", "fill")
	if err != nil {
		return "", gitutil.WrapGitError("git credential fill failed", result, err)
	}

	for _, line := range strings.Split(result.StdoutString(true), "\n") {
		if value, found := strings.CutPrefix(line, "password="); found {
			return value, nil
		}
	}
	return "", errors.New("no credential found for github.com")
}
