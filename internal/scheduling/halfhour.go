/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package scheduling

import (
	"fmt"

	"github.com/friendsincode/heimdall_roster/internal/roster"
)

// TimeCheck is the outcome of half-hour boundary validation.
type TimeCheck struct {
	Time       string `json:"time"`
	Valid      bool   `json:"valid"`
	Message    string `json:"message,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidateHalfHour checks that an HH:MM value sits on a half-hour boundary.
// Off-boundary values come back with the closest boundary as a suggestion;
// values at or past :45 round up into the next hour, wrapping 23 to 00.
func ValidateHalfHour(value string) TimeCheck {
	hour, minute, err := roster.ParseClock(value)
	if err != nil {
		return TimeCheck{
			Time:    value,
			Valid:   false,
			Message: err.Error(),
		}
	}

	if minute == 0 || minute == 30 {
		return TimeCheck{Time: value, Valid: true}
	}

	var sh, sm int
	switch {
	case minute < 15:
		sh, sm = hour, 0
	case minute < 45:
		sh, sm = hour, 30
	default:
		sh, sm = (hour+1)%24, 0
	}

	return TimeCheck{
		Time:       value,
		Valid:      false,
		Message:    fmt.Sprintf("time %s is not on a half-hour boundary", value),
		Suggestion: fmt.Sprintf("%02d:%02d", sh, sm),
	}
}
