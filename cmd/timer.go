package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/life-desks/internal/timecalc"
	"github.com/Tiliavir/life-desks/internal/timer"
)

var (
	timerMinutes int
	timerGoal    int64
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Run an interactive focus timer",
	Long: `Run a pomodoro-style focus timer in the terminal.

Type a command and press enter:
  p (or just enter)  play / pause
  r                  reset to the selected duration
  15 30 45 60        select a duration
  q                  quit

End of input does not stop a running session: piped commands are applied and
the timer keeps going until q is read or Ctrl-C is pressed.`,
	Args: cobra.NoArgs,
	RunE: runTimer,
}

func init() {
	timerCmd.Flags().IntVar(&timerMinutes, "minutes", 0, "Preselect a duration: 15, 30, 45 or 60 (default from config)")
	timerCmd.Flags().Int64Var(&timerGoal, "goal", 0, "Mark this goal as started and focus on it")
}

func runTimer(cmd *cobra.Command, args []string) error {
	return withEnv(func(e *env) error {
		out := cmd.OutOrStdout()

		minutes := e.cfg.Timer.DefaultMinutes
		if cmd.Flags().Changed("minutes") {
			minutes = timerMinutes
		}
		if minutes != 0 && !timer.ValidDuration(minutes) {
			return userError(fmt.Errorf("%w: %d minutes (choose one of %v)", timer.ErrInvalidDuration, minutes, timer.Durations))
		}

		if timerGoal != 0 {
			if err := e.goals.StartWork(timerGoal); err != nil {
				return domainError(err)
			}
			g, _ := e.goals.Goal(timerGoal)
			fmt.Fprintf(out, "Focusing on %q\n", g.Title)
		}

		bell := e.cfg.Timer.Bell
		countdown := timer.NewCountdown(timer.NotifierFunc(func(kind timer.Feedback) {
			if kind == timer.Success && bell {
				fmt.Fprint(out, "\a")
			}
		}))
		if minutes != 0 {
			_ = countdown.Select(minutes)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		runner := timer.NewRunner(countdown,
			timer.WithRunnerLogger(e.log),
			timer.WithObserver(func(s timer.Snapshot) { renderTimer(out, s) }),
		)

		cmds := make(chan timer.Command)
		go readTimerInput(ctx, cmd.InOrStdin(), cmds)

		err := runner.Run(ctx, cmds)
		fmt.Fprintln(out)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
}

// readTimerInput turns input lines into commands. cmds is closed on quit
// only; at EOF or when ctx is done it just stops reading and the runner keeps
// going until cancelled.
func readTimerInput(ctx context.Context, in io.Reader, cmds chan<- timer.Command) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		cmd, quit, err := parseTimerInput(scanner.Text())
		if quit {
			close(cmds)
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "\n%v\n", err)
			continue
		}
		select {
		case cmds <- cmd:
		case <-ctx.Done():
			return
		}
	}
}

// parseTimerInput maps one line of user input to a timer command.
func parseTimerInput(line string) (cmd timer.Command, quit bool, err error) {
	switch s := strings.ToLower(strings.TrimSpace(line)); s {
	case "", "p", "play", "pause":
		return timer.PlayPauseCommand, false, nil
	case "r", "reset":
		return timer.ResetCommand, false, nil
	case "q", "quit", "exit":
		return timer.Command{}, true, nil
	default:
		m, convErr := strconv.Atoi(s)
		if convErr != nil {
			return timer.Command{}, false, fmt.Errorf("unknown command %q (p, r, 15/30/45/60, q)", line)
		}
		return timer.SelectCommand(m), false, nil
	}
}

// renderTimer redraws the timer line in place.
func renderTimer(out io.Writer, s timer.Snapshot) {
	if s.Err != nil {
		fmt.Fprintf(out, "\n%v\n", s.Err)
	}
	if s.State == timer.Idle {
		fmt.Fprintf(out, "\rSelect a duration: %v      ", timer.Durations)
		return
	}
	pct := int(math.Round(s.Progress * 100))
	fmt.Fprintf(out, "\r%s  %s  %-8s", s.Clock, progressBar(pct, 20), s.State)
	if s.State == timer.Expired {
		label := "Focus session"
		if s.SessionID != "" {
			label += " " + shortSession(s.SessionID)
		}
		fmt.Fprintf(out, "\n%s of %s complete. Press p to go again.\n",
			label, timecalc.FormatDuration(int64(s.Selected*60)))
	}
}

// shortSession trims a session id to its first group for display.
func shortSession(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
