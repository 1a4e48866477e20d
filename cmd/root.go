package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDirFlag  string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "desk",
	Short: "Life desks – goals, subtasks and a focus timer in your terminal",
	Long: `desk keeps personal goals organised into life desks (Work, Personal,
Family, Health by default), tracks subtask progress and runs a pomodoro-style
focus timer. All data is stored locally in ~/.desk/.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries the process exit code for a failed command:
// 1 for bad input or unknown ids, 2 for storage and config failures.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error    { return &exitError{code: 1, err: err} }
func storageError(err error) error { return &exitError{code: 2, err: err} }

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return 1
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Data directory (default ~/.desk, or $DESK_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(subtaskCmd)
	rootCmd.AddCommand(desksCmd)
	rootCmd.AddCommand(onboardingCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(timerCmd)
}
