package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var onboardingDone bool

var onboardingCmd = &cobra.Command{
	Use:   "onboarding",
	Short: "Explain life desks",
	Args:  cobra.NoArgs,
	RunE:  runOnboarding,
}

func init() {
	onboardingCmd.Flags().BoolVar(&onboardingDone, "done", false, "Mark the introduction as seen")
}

func runOnboarding(cmd *cobra.Command, args []string) error {
	return withEnv(func(e *env) error {
		out := cmd.OutOrStdout()
		if onboardingDone {
			e.desks.SetSeenOnboarding(true)
			fmt.Fprintln(out, "Got it. The introduction will not be shown again.")
			return nil
		}

		fmt.Fprintln(out, "Life desks keep goals for different parts of your life apart.")
		fmt.Fprintln(out, "New goals go to the active desk, and `desk list` shows only that desk.")
		fmt.Fprintln(out)
		for _, d := range e.desks.List() {
			fmt.Fprintf(out, "  [%s] %s\n", d.Letter, d.Name)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Switch with `desk desks use <id>`, rename or recolor with `desk desks rename|color`.")
		if !e.desks.HasSeenOnboarding() {
			fmt.Fprintln(out, "Run `desk onboarding --done` to hide this hint.")
		}
		return nil
	})
}
