package internal

import (
	"fmt"
	"time"
)

const (
	// DisplayTimeFormat is the standard time format used across the application
	DisplayTimeFormat = "2006-01-02 15:04:05"
	// LogTimeFormat is the short time format used in watch output
	LogTimeFormat = "15:04:05"
)

// FormatLocal formats t in the display format and local time zone.
// The zero time renders as "-".
func FormatLocal(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(DisplayTimeFormat)
}

// FormatLog formats t in the short log format.
func FormatLog(t time.Time) string {
	return t.Local().Format(LogTimeFormat)
}

// Remaining describes how long until expires, relative to now.
func Remaining(expires, now time.Time) string {
	if expires.IsZero() {
		return "never"
	}
	d := expires.Sub(now).Round(time.Second)
	if d <= 0 {
		return "expired"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%02ds", m, s)
}
