package format

import (
	"fmt"
	"time"
)

// Age formats a duration compactly: "now", "5m", "2h", "3d", "2w", "3mo".
func Age(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}

	days := int(d.Hours() / 24)
	switch {
	case days < 7:
		return fmt.Sprintf("%dd", days)
	case days < 30:
		return fmt.Sprintf("%dw", days/7)
	default:
		return fmt.Sprintf("%dmo", days/30)
	}
}

// Ago formats the time elapsed between t and now, e.g. "3d ago".
func Ago(t, now time.Time) string {
	age := Age(now.Sub(t))
	if age == "now" {
		return "just now"
	}
	return age + " ago"
}
