package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/life-desks/internal/desks"
)

var desksCmd = &cobra.Command{
	Use:   "desks",
	Short: "List life desks and manage their order and looks",
	Args:  cobra.NoArgs,
	RunE:  runDesks,
}

var desksUseCmd = &cobra.Command{
	Use:   "use <desk-id>",
	Short: "Switch the active desk",
	Args:  cobra.ExactArgs(1),
	RunE: deskAction(func(e *env, args []string) error {
		return e.desks.SetActive(args[0])
	}),
}

var desksRenameCmd = &cobra.Command{
	Use:   "rename <desk-id> <name...>",
	Short: "Rename a desk; its letter badge follows the new name",
	Args:  cobra.MinimumNArgs(2),
	RunE: deskAction(func(e *env, args []string) error {
		return e.desks.Rename(args[0], strings.Join(args[1:], " "))
	}),
}

var desksColorCmd = &cobra.Command{
	Use:   "color <desk-id> <color>",
	Short: "Set a desk accent color (one of: " + strings.Join(desks.Palette, " ") + ")",
	Args:  cobra.ExactArgs(2),
	RunE: deskAction(func(e *env, args []string) error {
		return e.desks.SetColor(args[0], args[1])
	}),
}

var desksMoveCmd = &cobra.Command{
	Use:   "move <from> <to>",
	Short: "Move the desk at position <from> to position <to>",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseIndex(args[0], "position")
		if err != nil {
			return err
		}
		to, err := parseIndex(args[1], "position")
		if err != nil {
			return err
		}
		return deskAction(func(e *env, _ []string) error {
			return e.desks.Move(from, to)
		})(cmd, args)
	},
}

var desksRemoveCmd = &cobra.Command{
	Use:   "remove <desk-id>",
	Short: "Remove a desk (its goals are kept)",
	Args:  cobra.ExactArgs(1),
	RunE: deskAction(func(e *env, args []string) error {
		return e.desks.Remove(args[0])
	}),
}

func init() {
	desksCmd.AddCommand(desksUseCmd)
	desksCmd.AddCommand(desksRenameCmd)
	desksCmd.AddCommand(desksColorCmd)
	desksCmd.AddCommand(desksMoveCmd)
	desksCmd.AddCommand(desksRemoveCmd)
}

func deskAction(fn func(e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withEnv(func(e *env) error {
			if err := fn(e, args); err != nil {
				return domainError(err)
			}
			printDesks(cmd.OutOrStdout(), e)
			return nil
		})
	}
}

func runDesks(cmd *cobra.Command, args []string) error {
	return withEnv(func(e *env) error {
		printDesks(cmd.OutOrStdout(), e)
		return nil
	})
}

// printDesks lists desks in display order with their goal counts; the
// active desk is marked with *.
func printDesks(out io.Writer, e *env) {
	active := e.desks.Active().ID
	for i, d := range e.desks.List() {
		mark := " "
		if d.ID == active {
			mark = "*"
		}
		sum := e.goals.Summarize(d.ID)
		fmt.Fprintf(out, "%s %d  [%s] %-12s %-10s %s  %d goals, %d done\n",
			mark, i, d.Icon, d.Name, d.ID, d.Color, sum.Total, sum.Completed)
	}
}
