package timeutil

import (
	"testing"
	"time"
)

func TestFormatClock(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "00:00:00"},
		{-500, "00:00:00"},
		{999, "00:00:00"},
		{1000, "00:00:01"},
		{61_000, "00:01:01"},
		{3_600_000, "01:00:00"},
		{16 * 3_600_000, "16:00:00"},
		{90_000_000, "25:00:00"},
	}

	for _, tc := range cases {
		got := FormatClock(tc.in)
		if got != tc.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0m 0s"},
		{45_000, "0m 45s"},
		{83_000, "1m 23s"},
		{3_660_000, "1h 1m"},
		{5_025_000, "1h 23m"},
	}

	for _, tc := range cases {
		got := FormatCompact(tc.in)
		if got != tc.want {
			t.Errorf("FormatCompact(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMillisRoundTrip(t *testing.T) {
	instant := time.Date(2024, time.March, 14, 9, 26, 53, 0, time.UTC)

	ms := ToMillis(instant)

	if !FromMillis(ms).Equal(instant) {
		t.Errorf("round trip changed the instant: %v != %v",
			FromMillis(ms), instant)
	}
}

func TestFormatStamp(t *testing.T) {
	instant := time.Date(2024, time.March, 14, 15, 4, 5, 0, time.Local)
	ms := ToMillis(instant)

	if got := FormatStamp(ms, true); got != "15:04:05" {
		t.Errorf("24-hour stamp = %q", got)
	}

	if got := FormatStamp(ms, false); got != "03:04:05 PM" {
		t.Errorf("12-hour stamp = %q", got)
	}
}
