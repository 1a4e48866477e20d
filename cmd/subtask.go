package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/life-desks/internal/model"
)

var subtaskCmd = &cobra.Command{
	Use:   "subtask",
	Short: "Edit the subtasks of a goal",
}

var subtaskToggleCmd = &cobra.Command{
	Use:   "toggle <goal-id> <index>",
	Short: "Flip a subtask between open and done",
	Args:  cobra.ExactArgs(2),
	RunE: subtaskAction(func(e *env, id int64, idx int, _ []string) error {
		return e.goals.ToggleSubtask(id, idx)
	}),
}

var subtaskRenameCmd = &cobra.Command{
	Use:   "rename <goal-id> <index> <title...>",
	Short: "Set the title of a subtask",
	Args:  cobra.MinimumNArgs(3),
	RunE: subtaskAction(func(e *env, id int64, idx int, rest []string) error {
		return e.goals.UpdateSubtask(id, idx, strings.Join(rest, " "))
	}),
}

var subtaskDeleteCmd = &cobra.Command{
	Use:   "delete <goal-id> <index>",
	Short: "Remove a subtask",
	Args:  cobra.ExactArgs(2),
	RunE: subtaskAction(func(e *env, id int64, idx int, _ []string) error {
		return e.goals.DeleteSubtask(id, idx)
	}),
}

var subtaskAddCmd = &cobra.Command{
	Use:   "add <goal-id> [title...]",
	Short: "Append a blank subtask, optionally titled",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSubtaskAdd,
}

func init() {
	subtaskCmd.AddCommand(subtaskToggleCmd)
	subtaskCmd.AddCommand(subtaskRenameCmd)
	subtaskCmd.AddCommand(subtaskAddCmd)
	subtaskCmd.AddCommand(subtaskDeleteCmd)
}

func subtaskAction(fn func(e *env, id int64, idx int, rest []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseGoalID(args[0])
		if err != nil {
			return err
		}
		idx, err := parseIndex(args[1], "subtask index")
		if err != nil {
			return err
		}
		return withEnv(func(e *env) error {
			if err := fn(e, id, idx, args[2:]); err != nil {
				return domainError(err)
			}
			return printGoal(cmd, e, id)
		})
	}
}

func runSubtaskAdd(cmd *cobra.Command, args []string) error {
	id, err := parseGoalID(args[0])
	if err != nil {
		return err
	}
	return withEnv(func(e *env) error {
		if err := e.goals.AddSubtask(id); err != nil {
			return domainError(err)
		}
		if title := strings.TrimSpace(strings.Join(args[1:], " ")); title != "" {
			g, _ := e.goals.Goal(id)
			if err := e.goals.UpdateSubtask(id, len(g.Subtasks)-1, title); err != nil {
				return domainError(err)
			}
		}
		return printGoal(cmd, e, id)
	})
}

// printGoal shows one goal with its subtasks after an edit.
func printGoal(cmd *cobra.Command, e *env, id int64) error {
	g, ok := e.goals.Goal(id)
	if !ok {
		return userError(fmt.Errorf("goal %d disappeared", id))
	}
	d, ok := e.desks.Desk(g.DeskID)
	if !ok {
		d.ID, d.Name, d.Letter = g.DeskID, g.DeskID, "?"
	}
	printDeskGoals(cmd.OutOrStdout(), d, []model.Goal{g})
	return nil
}
