package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/life-desks/internal/model"
)

var (
	listAll  bool
	listDesk string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals of the active desk, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listAll, "all", false, "List goals of every desk")
	listCmd.Flags().StringVar(&listDesk, "desk", "", "List goals of this desk")
}

func runList(cmd *cobra.Command, args []string) error {
	return withEnv(func(e *env) error {
		out := cmd.OutOrStdout()

		var selected []model.Desk
		switch {
		case listAll:
			selected = e.desks.List()
		case listDesk != "":
			d, ok := e.desks.Desk(listDesk)
			if !ok {
				return userError(fmt.Errorf("unknown desk %q", listDesk))
			}
			selected = []model.Desk{d}
		default:
			selected = []model.Desk{e.desks.Active()}
		}

		for i, d := range selected {
			if i > 0 {
				fmt.Fprintln(out)
			}
			printDeskGoals(out, d, e.goals.ProjectsForCategory(d.ID))
		}
		return nil
	})
}

// printDeskGoals prints a desk header followed by its goals and subtasks.
func printDeskGoals(out io.Writer, d model.Desk, goals []model.Goal) {
	fmt.Fprintf(out, "[%s] %s\n", d.Letter, d.Name)
	if len(goals) == 0 {
		fmt.Fprintf(out, "  No projects in %s\n", d.Name)
		return
	}
	for _, g := range goals {
		fmt.Fprintf(out, "  %d  %s  (%s)  %s %3d%%  %s\n",
			g.ID, g.Title, g.Date, progressBar(g.Progress, 10), g.Progress, goalStatus(g))
		for i, st := range g.Subtasks {
			mark := " "
			if st.Completed {
				mark = "x"
			}
			title := st.Title
			if title == "" {
				title = "(blank)"
			}
			fmt.Fprintf(out, "      %d [%s] %s\n", i, mark, title)
		}
	}
}

func goalStatus(g model.Goal) string {
	switch {
	case g.IsCompleted:
		return "completed"
	case g.IsStarted:
		return fmt.Sprintf("in progress %d/%d", g.CompletedCount(), len(g.Subtasks))
	default:
		return "not started"
	}
}

// progressBar renders pct (clamped to 0..100) as a bar of width cells.
func progressBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := (pct*width + 50) / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
