package timecalc

import (
	"fmt"
	"time"
)

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatClock formats seconds as MM:SS. Minutes are not wrapped into hours,
// so 3600 renders as "60:00". Negative input is treated as zero.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// DateLabel returns the short creation label used on goals, e.g. "Jan 15".
func DateLabel(t time.Time) string {
	return t.Format("Jan 2")
}
