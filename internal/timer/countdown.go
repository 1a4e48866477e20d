package timer

import (
	"errors"
	"fmt"

	"github.com/Tiliavir/life-desks/internal/timecalc"
)

var (
	// ErrInvalidDuration is returned when selecting a duration outside Durations.
	ErrInvalidDuration = errors.New("invalid focus duration")
	// ErrNoDuration is returned when play is pressed before any duration was selected.
	ErrNoDuration = errors.New("no focus duration selected")
)

// Durations are the selectable session lengths in minutes.
var Durations = []int{15, 30, 45, 60}

// ValidDuration reports whether minutes is one of Durations.
func ValidDuration(minutes int) bool {
	for _, d := range Durations {
		if d == minutes {
			return true
		}
	}
	return false
}

// State is the externally visible phase of a Countdown.
type State int

const (
	Idle State = iota
	Ready
	Running
	Expired
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Expired:
		return "expired"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Feedback tags the advisory signal sent to a Notifier.
type Feedback string

const (
	// Light accompanies selections and control presses.
	Light Feedback = "light"
	// Success is sent once when a session runs out.
	Success Feedback = "success"
)

// Notifier receives fire-and-forget feedback signals.
type Notifier interface {
	Notify(Feedback)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Feedback)

func (f NotifierFunc) Notify(kind Feedback) { f(kind) }

// Countdown is the focus timer state machine. It does no scheduling of its
// own: whoever owns it calls Tick once per elapsed second while Running.
type Countdown struct {
	notify    Notifier
	selected  int
	remaining int
	running   bool
}

// NewCountdown returns an Idle countdown. notify may be nil.
func NewCountdown(notify Notifier) *Countdown {
	if notify == nil {
		notify = NotifierFunc(func(Feedback) {})
	}
	return &Countdown{notify: notify}
}

// Select picks a duration, stops the countdown and refills it. It may be
// called in any state.
func (c *Countdown) Select(minutes int) error {
	if !ValidDuration(minutes) {
		return fmt.Errorf("%w: %d minutes (choose one of %v)", ErrInvalidDuration, minutes, Durations)
	}
	c.notify.Notify(Light)
	c.selected = minutes
	c.remaining = minutes * 60
	c.running = false
	return nil
}

// PlayPause toggles running. Pressing play on an expired countdown refills
// it to the selected duration first.
func (c *Countdown) PlayPause() error {
	if c.selected == 0 {
		return ErrNoDuration
	}
	c.notify.Notify(Light)
	if c.remaining == 0 {
		c.remaining = c.Total()
	}
	c.running = !c.running
	return nil
}

// Reset stops the countdown and refills it to the selected duration.
func (c *Countdown) Reset() {
	c.notify.Notify(Light)
	c.running = false
	c.remaining = c.Total()
}

// Tick consumes one second. It reports true on the tick that reaches zero;
// that tick also stops the countdown and sends Success. Ticks while not
// running are ignored.
func (c *Countdown) Tick() bool {
	if !c.running {
		return false
	}
	if c.remaining <= 1 {
		c.remaining = 0
		c.running = false
		c.notify.Notify(Success)
		return true
	}
	c.remaining--
	return false
}

// State returns the current phase.
func (c *Countdown) State() State {
	switch {
	case c.selected == 0:
		return Idle
	case c.running:
		return Running
	case c.remaining == 0:
		return Expired
	default:
		return Ready
	}
}

func (c *Countdown) Running() bool  { return c.running }
func (c *Countdown) Selected() int  { return c.selected }
func (c *Countdown) Remaining() int { return c.remaining }

// Total is the selected duration in seconds, 0 when Idle.
func (c *Countdown) Total() int { return c.selected * 60 }

// Progress is the elapsed fraction in [0, 1], 0 when Idle.
func (c *Countdown) Progress() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(total-c.remaining) / float64(total)
}

// Format renders the remaining time as MM:SS.
func (c *Countdown) Format() string {
	return timecalc.FormatClock(c.remaining)
}
