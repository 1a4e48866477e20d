package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/life-desks/internal/desks"
	"github.com/Tiliavir/life-desks/internal/goals"
)

var startCmd = &cobra.Command{
	Use:   "start <goal-id>",
	Short: "Mark a goal as started",
	Args:  cobra.ExactArgs(1),
	RunE: goalAction(func(e *env, id int64) (string, error) {
		return "Started", e.goals.StartWork(id)
	}),
}

var completeCmd = &cobra.Command{
	Use:   "complete <goal-id>",
	Short: "Complete a goal and all of its subtasks",
	Args:  cobra.ExactArgs(1),
	RunE: goalAction(func(e *env, id int64) (string, error) {
		return "Completed", e.goals.CompleteProject(id)
	}),
}

var deleteCmd = &cobra.Command{
	Use:   "delete <goal-id>",
	Short: "Delete a goal and its subtasks",
	Args:  cobra.ExactArgs(1),
	RunE: goalAction(func(e *env, id int64) (string, error) {
		return "Deleted", e.goals.DeleteProject(id)
	}),
}

// goalAction adapts a single-goal mutation into a RunE that reports the
// result and the goal's new progress.
func goalAction(fn func(e *env, id int64) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseGoalID(args[0])
		if err != nil {
			return err
		}
		return withEnv(func(e *env) error {
			title := ""
			if g, ok := e.goals.Goal(id); ok {
				title = g.Title
			}
			verb, err := fn(e, id)
			if err != nil {
				return domainError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s goal %d %q", verb, id, title)
			if g, ok := e.goals.Goal(id); ok {
				fmt.Fprintf(cmd.OutOrStdout(), " (%d%%)", g.Progress)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		})
	}
}

func parseGoalID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, userError(fmt.Errorf("invalid goal id %q", s))
	}
	return id, nil
}

func parseIndex(s, what string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, userError(fmt.Errorf("invalid %s %q", what, s))
	}
	return i, nil
}

// domainError classifies store errors: lookups and range checks are the
// caller's mistake, anything else is treated as a storage failure.
func domainError(err error) error {
	switch {
	case errors.Is(err, goals.ErrGoalNotFound),
		errors.Is(err, goals.ErrSubtaskIndex),
		errors.Is(err, desks.ErrDeskNotFound),
		errors.Is(err, desks.ErrDeskIndex),
		errors.Is(err, desks.ErrEmptyName),
		errors.Is(err, desks.ErrInvalidColor):
		return userError(err)
	}
	return storageError(err)
}
