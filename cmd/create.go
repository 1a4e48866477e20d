package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var createDesk string

var createCmd = &cobra.Command{
	Use:   "create <title...>",
	Short: "Create a goal in the active desk",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createDesk, "desk", "", "File the goal under this desk instead of the active one")
}

func runCreate(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return userError(errors.New("goal title is empty"))
	}

	return withEnv(func(e *env) error {
		desk := e.desks.Active()
		if createDesk != "" {
			d, ok := e.desks.Desk(createDesk)
			if !ok {
				return userError(fmt.Errorf("unknown desk %q", createDesk))
			}
			desk = d
		}

		if !e.desks.HasSeenOnboarding() {
			fmt.Fprintln(os.Stderr, "Tip: goals are filed under life desks. Run `desk onboarding` to learn more.")
		}

		g := e.goals.CreateGoal(title, desk.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Created goal %d %q in %s with %d blank subtasks\n",
			g.ID, g.Title, desk.Name, len(g.Subtasks))
		return nil
	})
}
