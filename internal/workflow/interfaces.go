// Package workflow orchestrates the commit and pull-request flows.
package workflow

import (
	"context"

	"github.com/autoflowhq/autoflow/internal/git"
)

// GitClient abstracts repository operations for testability.
type GitClient interface {
	CurrentBranch() (string, error)
	DefaultBranch() string
	HasUnstagedChanges() (bool, error)
	StageAll() error
	CreateAndCheckoutBranch(name string) error
	Diff(scope git.Scope) (string, error)
	Commit(message string) error
	PushCurrentBranch() error
}

// LLMClient abstracts the generation backend.
type LLMClient interface {
	CommitMessage(ctx context.Context, diff string) (string, error)
	BranchName(ctx context.Context, diff string) (string, error)
	PRDescription(ctx context.Context, diff, commitMessage string) (string, error)
}

// HostingClient abstracts pull-request creation.
type HostingClient interface {
	CreatePullRequest(ctx context.Context, title, body, baseBranch string) (string, error)
}
