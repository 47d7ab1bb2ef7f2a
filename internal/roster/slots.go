/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package roster

import "time"

// GenerateSlots walks the horizon from start to end producing ordered,
// non-overlapping shift windows. Each slot's length is the day or night
// shift length depending on the night classification of its start instant.
//
// The loop bounds slot starts, not slot ends, so the final slot may extend
// past the horizon end: a shift is a fixed-length staffing unit and is not
// clipped mid-shift.
func GenerateSlots(start, end time.Time, lengths ShiftLengths, night NightWindow) []Slot {
	var slots []Slot

	cursor := start
	for cursor.Before(end) {
		isNight := night.Contains(cursor)
		hours := lengths.DayHours
		if isNight {
			hours = lengths.NightHours
		}
		duration := time.Duration(hours * float64(time.Hour))

		slots = append(slots, Slot{
			Start: cursor,
			End:   cursor.Add(duration),
			Night: isNight,
			Hours: hours,
		})
		cursor = cursor.Add(duration)
	}

	return slots
}
