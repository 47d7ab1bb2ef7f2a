/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package roster

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NightWindow is the daily HH:MM range classified as night. The window may
// wrap past midnight (e.g. 22:00-06:00).
type NightWindow struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// ParseNightWindow parses "HH:MM" start and end bounds into a NightWindow.
func ParseNightWindow(start, end string) (NightWindow, error) {
	sh, sm, err := ParseClock(start)
	if err != nil {
		return NightWindow{}, fmt.Errorf("night window start: %w", err)
	}
	eh, em, err := ParseClock(end)
	if err != nil {
		return NightWindow{}, fmt.Errorf("night window end: %w", err)
	}
	return NightWindow{StartHour: sh, StartMinute: sm, EndHour: eh, EndMinute: em}, nil
}

// Contains reports whether the instant falls inside the night window.
// The boundary rule is inclusive at the start minute and exclusive at the
// end minute; it decides which shift length a boundary slot receives, so
// both comparisons stay asymmetric.
func (w NightWindow) Contains(t time.Time) bool {
	hour, minute := t.Hour(), t.Minute()

	if w.StartHour > w.EndHour {
		// Wraps midnight.
		return hour > w.StartHour ||
			hour < w.EndHour ||
			(hour == w.StartHour && minute >= w.StartMinute) ||
			(hour == w.EndHour && minute < w.EndMinute)
	}
	return (hour > w.StartHour && hour < w.EndHour) ||
		(hour == w.StartHour && minute >= w.StartMinute) ||
		(hour == w.EndHour && minute < w.EndMinute)
}

// ParseClock parses an "HH:MM" time-of-day string.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", s)
	}
	return hour, minute, nil
}
