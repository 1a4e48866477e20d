package timer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Tiliavir/life-desks/internal/logging"
)

// Ticker is a cancellable periodic schedule.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory starts a Ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type systemTicker struct{ t *time.Ticker }

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

// SystemTicker is the TickerFactory backed by time.NewTicker.
func SystemTicker(d time.Duration) Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

// CommandKind identifies a user action for the Runner.
type CommandKind int

const (
	CmdSelect CommandKind = iota
	CmdPlayPause
	CmdReset
)

// Command is one user action. Minutes is only read for CmdSelect.
type Command struct {
	Kind    CommandKind
	Minutes int
}

// SelectCommand builds a CmdSelect for minutes.
func SelectCommand(minutes int) Command { return Command{Kind: CmdSelect, Minutes: minutes} }

var (
	PlayPauseCommand = Command{Kind: CmdPlayPause}
	ResetCommand     = Command{Kind: CmdReset}
)

// Snapshot is the view state emitted after every change.
type Snapshot struct {
	SessionID string
	State     State
	Selected  int
	Remaining int
	Progress  float64
	Clock     string
	// Err is set when the last command was rejected; the state is unchanged.
	Err error
}

// Runner drives a Countdown from a command channel on a single goroutine.
// It owns at most one Ticker at a time: the current one is stopped before
// any replacement is created and on every exit path.
type Runner struct {
	countdown *Countdown
	newTicker TickerFactory
	log       logrus.FieldLogger
	observe   func(Snapshot)
	session   string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTicker replaces SystemTicker, mainly for tests.
func WithTicker(f TickerFactory) RunnerOption {
	return func(r *Runner) { r.newTicker = f }
}

// WithObserver registers a callback for snapshots. It runs on the Runner's
// goroutine and must not block for long.
func WithObserver(f func(Snapshot)) RunnerOption {
	return func(r *Runner) { r.observe = f }
}

// WithRunnerLogger sets the logger for session events.
func WithRunnerLogger(log logrus.FieldLogger) RunnerOption {
	return func(r *Runner) { r.log = log }
}

// NewRunner wraps countdown.
func NewRunner(countdown *Countdown, opts ...RunnerOption) *Runner {
	r := &Runner{
		countdown: countdown,
		newTicker: SystemTicker,
		log:       logging.Discard(),
		observe:   func(Snapshot) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) snapshot(err error) Snapshot {
	return Snapshot{
		SessionID: r.session,
		State:     r.countdown.State(),
		Selected:  r.countdown.Selected(),
		Remaining: r.countdown.Remaining(),
		Progress:  r.countdown.Progress(),
		Clock:     r.countdown.Format(),
		Err:       err,
	}
}

func (r *Runner) apply(cmd Command) error {
	switch cmd.Kind {
	case CmdSelect:
		return r.countdown.Select(cmd.Minutes)
	case CmdPlayPause:
		return r.countdown.PlayPause()
	case CmdReset:
		r.countdown.Reset()
		return nil
	}
	return fmt.Errorf("unknown timer command %d", cmd.Kind)
}

// Run processes commands and ticks until ctx is cancelled or cmds is
// closed. It returns ctx.Err() on cancellation and nil on close.
func (r *Runner) Run(ctx context.Context, cmds <-chan Command) error {
	var tick Ticker
	stopTick := func() {
		if tick != nil {
			tick.Stop()
			tick = nil
		}
	}
	defer stopTick()

	r.observe(r.snapshot(nil))
	for {
		var tc <-chan time.Time
		if tick != nil {
			tc = tick.C()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd, ok := <-cmds:
			if !ok {
				return nil
			}
			wasRunning := r.countdown.Running()
			if err := r.apply(cmd); err != nil {
				r.log.WithError(err).Debug("Timer command rejected")
				r.observe(r.snapshot(err))
				continue
			}
			stopTick()
			if r.countdown.Running() {
				if !wasRunning && r.countdown.Remaining() == r.countdown.Total() {
					r.session = uuid.NewString()
					r.log.WithFields(logrus.Fields{
						"session": r.session,
						"minutes": r.countdown.Selected(),
					}).Info("Focus session started")
				}
				tick = r.newTicker(time.Second)
			}
			r.observe(r.snapshot(nil))

		case <-tc:
			if r.countdown.Tick() {
				stopTick()
				r.log.WithFields(logrus.Fields{
					"session": r.session,
					"minutes": r.countdown.Selected(),
				}).Info("Focus session complete")
			}
			r.observe(r.snapshot(nil))
		}
	}
}
