package helpers

import (
	"fmt"
	"strings"
	"time"
)

// FormatBytes formats bytes into human-readable format
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatDuration formats duration into human-readable format.
//
// Formatting rules:
//   - Nanoseconds/microseconds: whole numbers (e.g., "456µs")
//   - Milliseconds: up to 3 decimal places (e.g., "123.456ms")
//   - Seconds: up to 2 decimal places (e.g., "45.67s")
//   - Minutes+: compound format (e.g., "3m 45.67s", "2h 30m 15s")
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "-" + FormatDuration(-d)
	}
	if d == 0 {
		return "0s"
	}

	if d < time.Microsecond {
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}

	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}

	if d < time.Second {
		ms := float64(d.Nanoseconds()) / float64(time.Millisecond)
		return formatFloat(ms, 3) + "ms"
	}

	if d < time.Minute {
		secs := float64(d.Nanoseconds()) / float64(time.Second)
		return formatFloat(secs, 2) + "s"
	}

	if d < time.Hour {
		mins := int(d.Minutes())
		remainingSecs := float64(d-time.Duration(mins)*time.Minute) / float64(time.Second)
		if remainingSecs < 0.01 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm %ss", mins, formatFloat(remainingSecs, 2))
	}

	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	if secs == 0 && mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	if secs == 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, mins, secs)
}

// formatFloat formats a float with up to maxDecimals, trimming trailing zeros.
func formatFloat(value float64, maxDecimals int) string {
	format := fmt.Sprintf("%%.%df", maxDecimals)
	s := fmt.Sprintf(format, value)

	// Trim trailing zeros after decimal point
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}

// FormatNumber formats a number with commas for readability
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	s := fmt.Sprintf("%d", n)
	result := ""
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}

// FormatRate formats a rate (items per second) with appropriate units
func FormatRate(count int64, duration time.Duration) string {
	if duration.Seconds() <= 0 {
		return "0/s"
	}
	rate := float64(count) / duration.Seconds()
	if rate >= 1000000 {
		return fmt.Sprintf("%.2fM/s", rate/1000000)
	}
	if rate >= 1000 {
		return fmt.Sprintf("%.2fK/s", rate/1000)
	}
	return fmt.Sprintf("%.2f/s", rate)
}
