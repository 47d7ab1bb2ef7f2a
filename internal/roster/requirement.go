/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package roster

import "time"

// RequiredAt reports whether the post needs coverage at the instant.
// Bounded requirements with missing or malformed bounds fail closed: the
// post is simply not required rather than erroring mid-run.
func (r Requirement) RequiredAt(t time.Time) bool {
	switch r.Kind {
	case RequirementAlways:
		return true
	case RequirementBoundedHours:
		if r.Start == "" || r.End == "" {
			return false
		}
		sh, sm, err := ParseClock(r.Start)
		if err != nil {
			return false
		}
		eh, em, err := ParseClock(r.End)
		if err != nil {
			return false
		}

		minutes := t.Hour()*60 + t.Minute()
		startMinutes := sh*60 + sm
		endMinutes := eh*60 + em

		if startMinutes > endMinutes {
			// Overnight range, e.g. 22:00-06:00.
			return minutes >= startMinutes || minutes < endMinutes
		}
		return minutes >= startMinutes && minutes < endMinutes
	default:
		return false
	}
}
