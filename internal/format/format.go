// Package format holds display formatting helpers shared by the TUI
// and the CLI reporter.
package format

import (
	"fmt"
	"time"
)

// Date renders a unix-second timestamp as a local calendar date.
func Date(unixSecs int64) string {
	return time.Unix(unixSecs, 0).Format("Jan 2, 2006")
}

// Duration renders a second count at coarse granularity: days+hours
// past a day, hours+minutes past an hour, minutes otherwise. Negative
// inputs are clamped to zero.
func Duration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	days := seconds / (24 * 3600)
	hours := (seconds % (24 * 3600)) / 3600
	minutes := (seconds % 3600) / 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// APY renders a percentage APY value.
func APY(apy float64) string {
	return fmt.Sprintf("%.2f%%", apy)
}
