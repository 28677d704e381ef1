package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/autoflowhq/autoflow/internal/git"
	"github.com/autoflowhq/autoflow/internal/ui"
)

// ErrNoChanges indicates the staged diff was empty after lockfile exclusion.
// A clean outcome, not a failure.
var ErrNoChanges = errors.New("no applicable changes to commit (lock files might have been excluded)")

// ErrCancelled indicates the user declined a confirmation. Also a clean outcome.
var ErrCancelled = errors.New("cancelled by user")

type Options struct {
	AutoYes   bool
	DryRun    bool
	ErrWriter io.Writer
	OutWriter io.Writer
}

// CommitResult captures the state the commit flow ends in, for the PR flow
// to build on.
type CommitResult struct {
	Branch        string
	DefaultBranch string
	Message       string
	Diff          string
}

// CommitFlow takes a dirty working tree to a committed and pushed state.
type CommitFlow struct {
	git      GitClient
	llm      LLMClient
	opts     Options
	prompter Prompter
}

func NewCommitFlow(gitClient GitClient, llmClient LLMClient, opts Options) *CommitFlow {
	return &CommitFlow{
		git:  gitClient,
		llm:  llmClient,
		opts: opts,
		prompter: &InteractivePrompter{
			AutoYes:   opts.AutoYes,
			ErrWriter: opts.ErrWriter,
		},
	}
}

func (f *CommitFlow) SetPrompter(p Prompter) {
	f.prompter = p
}

// Run executes the full commit flow: branch check, staging, diff collection,
// message generation, confirmation, commit, push.
func (f *CommitFlow) Run(ctx context.Context) (*CommitResult, error) {
	currentBranch, err := f.git.CurrentBranch()
	if err != nil {
		return nil, err
	}

	defaultBranch := f.git.DefaultBranch()

	currentBranch, err = f.handleBranchCheck(ctx, currentBranch, defaultBranch)
	if err != nil {
		return nil, err
	}

	if err := f.git.StageAll(); err != nil {
		return nil, fmt.Errorf("failed to stage changes: %w", err)
	}

	diff, err := f.git.Diff(git.Staged)
	if err != nil {
		return nil, fmt.Errorf("failed to get staged diff: %w", err)
	}
	if strings.TrimSpace(diff) == "" {
		if dirty, statusErr := f.git.HasUnstagedChanges(); statusErr == nil && dirty {
			color.New(color.FgYellow).Fprintln(f.opts.ErrWriter,
				"Only excluded files (such as dependency lock files) appear to have changed.")
		}
		return nil, ErrNoChanges
	}

	message, err := f.confirmCommitMessage(ctx, diff)
	if err != nil {
		return nil, err
	}

	result := &CommitResult{
		Branch:        currentBranch,
		DefaultBranch: defaultBranch,
		Message:       message,
		Diff:          diff,
	}

	if f.opts.DryRun {
		fmt.Fprintln(f.opts.ErrWriter, "Dry run mode, no actual commit")
		return result, nil
	}

	if err := f.git.Commit(message); err != nil {
		return nil, fmt.Errorf("failed to commit changes: %w", err)
	}
	color.New(color.FgGreen).Fprintln(f.opts.ErrWriter, "Successfully committed changes!")

	sp := ui.NewSpinner("Pushing branch " + currentBranch + " to remote...")
	sp.Start()
	err = f.git.PushCurrentBranch()
	sp.Stop()
	if err != nil {
		return nil, fmt.Errorf("failed to push branch %s: %w", currentBranch, err)
	}
	color.New(color.FgGreen).Fprintf(f.opts.ErrWriter, "Successfully pushed branch %s to remote.\n", currentBranch)

	return result, nil
}

// handleBranchCheck offers to move off the default branch onto a suggested
// one. The suggestion is derived from the working-tree diff, before staging.
// A generation failure aborts the whole commit; a declined suggestion does not.
func (f *CommitFlow) handleBranchCheck(ctx context.Context, currentBranch, defaultBranch string) (string, error) {
	if defaultBranch == "" || currentBranch != defaultBranch {
		return currentBranch, nil
	}

	wtDiff, err := f.git.Diff(git.WorkingTree)
	if err != nil {
		return "", fmt.Errorf("failed to get working-tree diff: %w", err)
	}
	if strings.TrimSpace(wtDiff) == "" {
		// Nothing to derive a name from; previously staged changes may still
		// exist, so the flow continues on the default branch.
		return currentBranch, nil
	}

	sp := ui.NewSpinner("Generating branch name...")
	sp.Start()
	branchName, err := f.llm.BranchName(ctx, wtDiff)
	sp.Stop()
	if err != nil {
		return "", fmt.Errorf("failed to generate branch name, aborting commit: %w", err)
	}

	question := fmt.Sprintf("You are on the default branch (%q). Create and switch to suggested branch %q?",
		currentBranch, branchName)
	accepted, err := f.prompter.Confirm(color.YellowString(question), true)
	if err != nil {
		return "", err
	}
	if !accepted {
		color.New(color.FgYellow).Fprintln(f.opts.ErrWriter, "Proceeding with commit on the default branch.")
		return currentBranch, nil
	}

	if err := f.git.CreateAndCheckoutBranch(branchName); err != nil {
		return "", fmt.Errorf("failed to create branch: %w", err)
	}
	color.New(color.FgGreen).Fprintf(f.opts.ErrWriter, "Successfully created and checked out branch %q.\n", branchName)
	return branchName, nil
}

// confirmCommitMessage generates a message and loops until the user accepts,
// cancels, or edits it.
func (f *CommitFlow) confirmCommitMessage(ctx context.Context, diff string) (string, error) {
	for {
		sp := ui.NewSpinner("Generating commit message...")
		sp.Start()
		message, err := f.llm.CommitMessage(ctx, diff)
		sp.Stop()
		if err != nil {
			return "", fmt.Errorf("failed to generate commit message: %w", err)
		}

		fmt.Fprintln(f.opts.ErrWriter, "\nSuggested commit message:")
		color.New(color.FgBlue).Fprintln(f.opts.ErrWriter, "-------------------------")
		color.New(color.FgGreen).Fprintln(f.opts.OutWriter, message)
		color.New(color.FgBlue).Fprintln(f.opts.ErrWriter, "-------------------------")

		action, editedMessage, err := f.prompter.ConfirmCommitMessage(message)
		if err != nil {
			return "", err
		}

		switch action {
		case ActionCancel:
			fmt.Fprintln(f.opts.ErrWriter, "Commit cancelled by user")
			return "", ErrCancelled
		case ActionRegenerate:
			fmt.Fprintln(f.opts.ErrWriter, "Regenerating commit message...")
			continue
		case ActionCommit:
			if editedMessage != "" {
				return editedMessage, nil
			}
			return message, nil
		}
	}
}
