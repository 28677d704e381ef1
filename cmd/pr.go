package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autoflowhq/autoflow/internal/hosting"
	"github.com/autoflowhq/autoflow/internal/workflow"
)

var prCmd = &cobra.Command{
	Use:   "pr",
	Short: "Run the commit flow, then open a pull request onto the default branch",
	RunE:  runPR,
}

func init() {
	rootCmd.AddCommand(prCmd)
}

func runPR(cmd *cobra.Command, _ []string) error {
	if configErr != nil {
		return fmt.Errorf("configuration error: %w", configErr)
	}

	commitFlow, gitClient, llmClient, opts := buildCommitFlow()
	hostingClient := hosting.NewClient(gitClient, hosting.Options{})

	flow := workflow.NewPRFlow(commitFlow, llmClient, hostingClient, opts)
	_, err := flow.Run(cmd.Context())
	return handleOutcome(err)
}
