package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/autoflowhq/autoflow/internal/git"
	"github.com/autoflowhq/autoflow/internal/ui"
)

// PRFlow runs the commit flow and then opens a pull request onto the
// default branch.
type PRFlow struct {
	commit  *CommitFlow
	llm     LLMClient
	hosting HostingClient
	opts    Options
}

func NewPRFlow(commit *CommitFlow, llmClient LLMClient, hostingClient HostingClient, opts Options) *PRFlow {
	return &PRFlow{
		commit:  commit,
		llm:     llmClient,
		hosting: hostingClient,
		opts:    opts,
	}
}

// Run executes the commit flow, then describes and creates the pull request.
// Returns the created PR's web URL.
func (f *PRFlow) Run(ctx context.Context) (string, error) {
	result, err := f.commit.Run(ctx)
	if err != nil {
		return "", err
	}

	if result.DefaultBranch == "" {
		return "", errors.New("could not determine the default branch to target with the pull request")
	}
	if result.Branch == result.DefaultBranch {
		return "", fmt.Errorf("refusing to open a pull request from the default branch %q onto itself", result.Branch)
	}

	description := f.generateDescription(ctx, result)

	fmt.Fprintln(f.opts.ErrWriter, "\nPull request description:")
	color.New(color.FgBlue).Fprintln(f.opts.ErrWriter, "-------------------------")
	fmt.Fprintln(f.opts.OutWriter, description)
	color.New(color.FgBlue).Fprintln(f.opts.ErrWriter, "-------------------------")

	// Nothing was committed or pushed in dry-run mode, so there is no
	// branch to open a pull request from.
	if f.opts.DryRun {
		fmt.Fprintln(f.opts.ErrWriter, "Dry run mode, no pull request created")
		return "", nil
	}

	accepted, err := f.commit.prompter.Confirm("Create the pull request with this description?", true)
	if err != nil {
		return "", err
	}
	if !accepted {
		fmt.Fprintln(f.opts.ErrWriter, "Pull request cancelled by user")
		return "", ErrCancelled
	}

	title, _ := git.SplitMessage(result.Message)

	sp := ui.NewSpinner("Creating pull request...")
	sp.Start()
	url, err := f.hosting.CreatePullRequest(ctx, title, description, result.DefaultBranch)
	sp.Stop()
	if err != nil {
		return "", err
	}

	color.New(color.FgGreen).Fprintf(f.opts.ErrWriter, "Pull request created: %s\n", url)
	return url, nil
}

// generateDescription is best-effort: when generation fails, the commit
// message is reused verbatim instead of aborting.
func (f *PRFlow) generateDescription(ctx context.Context, result *CommitResult) string {
	sp := ui.NewSpinner("Generating pull request description...")
	sp.Start()
	description, err := f.llm.PRDescription(ctx, result.Diff, result.Message)
	sp.Stop()
	if err != nil {
		color.New(color.FgYellow).Fprintf(f.opts.ErrWriter,
			"Could not generate a PR description (%v); using the commit message instead.\n", err)
		return result.Message
	}
	return description
}
