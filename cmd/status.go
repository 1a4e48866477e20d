package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active desk and its progress",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withEnv(func(e *env) error {
		out := cmd.OutOrStdout()
		d := e.desks.Active()
		sum := e.goals.Summarize(d.ID)

		fmt.Fprintf(out, "Desk: [%s] %s\n", d.Letter, d.Name)
		if sum.Total == 0 {
			fmt.Fprintf(out, "No projects in %s.\n", d.Name)
			return nil
		}
		fmt.Fprintf(out, "  Goals: %d (%d started, %d completed)\n", sum.Total, sum.Started, sum.Completed)
		fmt.Fprintf(out, "  Progress: %s %d%%\n", progressBar(sum.MeanProgress, 20), sum.MeanProgress)
		return nil
	})
}
