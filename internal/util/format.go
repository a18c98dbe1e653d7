package util

import (
	"fmt"
	"time"
)

// FormatSeconds renders a duration in seconds as a compact human-readable
// string, e.g. "2.50s" or "1m 12.00s".
func FormatSeconds(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.2fs", seconds)
	}
	minutes := int(seconds) / 60
	return fmt.Sprintf("%dm %.2fs", minutes, seconds-float64(minutes*60))
}

// FormatClock renders an elapsed wall-clock duration as HH:MM:SS.
func FormatClock(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
