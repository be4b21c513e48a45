// Package timeutil provides helpers for the epoch-millisecond instants
// used throughout the session record.
package timeutil

import (
	"fmt"
	"time"
)

const (
	msInSecond = 1000
	msInMinute = 60 * msInSecond
	msInHour   = 60 * msInMinute
)

// ToMillis converts a time value to epoch milliseconds.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds to a time value in the local
// timezone.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// NowMillis returns the current time in epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// FormatClock renders a millisecond duration as HH:MM:SS. Negative
// durations are clamped to zero.
func FormatClock(ms int64) string {
	if ms < 0 {
		ms = 0
	}

	h := ms / msInHour
	m := (ms % msInHour) / msInMinute
	s := (ms % msInMinute) / msInSecond

	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatCompact renders a millisecond duration as "1h 23m" or "23m 45s"
// for table output.
func FormatCompact(ms int64) string {
	if ms < 0 {
		ms = 0
	}

	h := ms / msInHour
	m := (ms % msInHour) / msInMinute
	s := (ms % msInMinute) / msInSecond

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}

	return fmt.Sprintf("%dm %ds", m, s)
}

// FormatStamp renders an epoch-millisecond instant as a wall-clock
// time. The twentyFourHour flag switches between 24-hour and 12-hour
// formats.
func FormatStamp(ms int64, twentyFourHour bool) string {
	format := "03:04:05 PM"
	if twentyFourHour {
		format = "15:04:05"
	}

	return FromMillis(ms).Format(format)
}
