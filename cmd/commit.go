package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Branch, stage, and commit changes with an AI-generated message",
	RunE:  runCommit,
}

func init() {
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, _ []string) error {
	if configErr != nil {
		return fmt.Errorf("configuration error: %w", configErr)
	}

	flow, _, _, _ := buildCommitFlow()
	_, err := flow.Run(cmd.Context())
	return handleOutcome(err)
}
