// Package cmd wires the autoflow CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autoflowhq/autoflow/internal/config"
	"github.com/autoflowhq/autoflow/internal/git"
	"github.com/autoflowhq/autoflow/internal/llm"
	"github.com/autoflowhq/autoflow/internal/workflow"
)

var (
	cfgFile   string
	autoYes   bool
	verbose   bool
	dryRun    bool
	configErr error
	rootCtx   = context.Background()

	rootCmd = &cobra.Command{
		Use:   "autoflow",
		Short: "autoflow - AI-assisted commit workflow",
		Long: `A CLI to help write good commit messages whilst preserving the flow.

Running autoflow with no subcommand runs the commit flow: branch check,
staging, AI-generated commit message, confirmation, commit, and push.`,
		Version: fmt.Sprintf("%s (built at %s)", Version, BuildTime),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommit(cmd, args)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

// SetContext sets the context commands execute under.
func SetContext(ctx context.Context) {
	rootCtx = ctx
}

func Execute() error {
	return rootCmd.ExecuteContext(rootCtx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Configuration file path (default is $HOME/.autoflow.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&autoYes, "yes", "y", false,
		"Automatically accept confirmations")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false,
		"Show git commands and generation details")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false,
		"Generate the message only, do not commit or push")
}

func initConfig() {
	configErr = config.Init(cfgFile)
}

func buildCommitFlow() (*workflow.CommitFlow, *git.Client, *llm.Client, workflow.Options) {
	cfg := config.Get()
	if verbose {
		cfg.Verbose = true
	}

	gitClient := git.NewClient(git.Options{Verbose: cfg.Verbose})
	llmClient := llm.NewClient(cfg)
	opts := workflow.Options{
		AutoYes:   autoYes,
		DryRun:    dryRun,
		ErrWriter: os.Stderr,
		OutWriter: os.Stdout,
	}

	return workflow.NewCommitFlow(gitClient, llmClient, opts), gitClient, llmClient, opts
}

// handleOutcome maps clean workflow terminations to exit code 0.
func handleOutcome(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, workflow.ErrNoChanges) {
		fmt.Println("No applicable changes found to commit (lock files might have been excluded).")
		return nil
	}
	if errors.Is(err, workflow.ErrCancelled) {
		return nil
	}
	return err
}
