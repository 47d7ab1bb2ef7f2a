/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package roster implements the queue-based shift scheduling engine.
//
// Guards rotate through one queue per post: the guard at the front is
// preferred for the next slot, and a selected guard moves to the tail. A
// penalty score steers selection away from guards over the consecutive-night
// limit or carrying more shifts than the group average. The engine is pure
// and deterministic; it performs no I/O and holds no process-wide state.
package roster

import "time"

// RequirementKind selects how a post's coverage hours are interpreted.
type RequirementKind string

const (
	// RequirementAlways marks a post that must be covered around the clock.
	RequirementAlways RequirementKind = "always"

	// RequirementBoundedHours marks a post covered only inside a daily
	// HH:MM window, which may wrap past midnight.
	RequirementBoundedHours RequirementKind = "bounded_hours"
)

// Requirement describes when a post needs coverage.
type Requirement struct {
	Kind  RequirementKind `json:"kind"`
	Start string          `json:"start,omitempty"` // HH:MM, bounded_hours only
	End   string          `json:"end,omitempty"`   // HH:MM, bounded_hours only
}

// Always returns an around-the-clock requirement.
func Always() Requirement {
	return Requirement{Kind: RequirementAlways}
}

// BoundedHours returns a requirement covering the daily window [start, end).
func BoundedHours(start, end string) Requirement {
	return Requirement{Kind: RequirementBoundedHours, Start: start, End: end}
}

// Post is a coverage role guards are assigned to.
type Post struct {
	ID          string      `json:"id"`
	Requirement Requirement `json:"requirement"`
}

// Slot is one contiguous shift window, classified day or night at
// generation time. Slots are immutable once generated.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Night bool      `json:"night"`
	Hours float64   `json:"hours"`
}

// Window is a half-open [Start, End) interval of guard unavailability.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether the window intersects [start, end).
func (w Window) Overlaps(start, end time.Time) bool {
	return !(end.Before(w.Start) || end.Equal(w.Start) || start.After(w.End) || start.Equal(w.End))
}

// Assignment pairs a guard with a post for one slot.
type Assignment struct {
	GuardID string    `json:"guard_id"`
	PostID  string    `json:"post_id"`
	Start   time.Time `json:"shift_start"`
	End     time.Time `json:"shift_end"`
	Night   bool      `json:"night"`
}

// Gap records a (post, slot) pairing no available guard could fill.
type Gap struct {
	PostID string    `json:"post_id"`
	Start  time.Time `json:"shift_start"`
	End    time.Time `json:"shift_end"`
	Night  bool      `json:"night"`
}

// ShiftLengths configures day and night shift durations in hours.
type ShiftLengths struct {
	DayHours   float64 `json:"day_shift_hours"`
	NightHours float64 `json:"night_shift_hours"`
}
