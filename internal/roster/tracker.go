/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package roster

import "time"

// GuardState holds per-guard fairness history. It mutates only through
// Tracker.Record, which keeps it consistent with the queues consulting it.
type GuardState struct {
	LastShiftEnd      *time.Time `json:"last_shift_end,omitempty"`
	ConsecutiveNights int        `json:"consecutive_nights"`
	TotalShifts       int        `json:"total_shifts"`
	TotalHours        float64    `json:"total_hours"`
}

// Tracker owns the mutable state of every guard for one engine instance.
type Tracker struct {
	order  []string
	states map[string]*GuardState
}

// NewTracker creates a tracker with zeroed state for each guard.
func NewTracker(guardIDs []string) *Tracker {
	t := &Tracker{
		order:  append([]string(nil), guardIDs...),
		states: make(map[string]*GuardState, len(guardIDs)),
	}
	for _, id := range guardIDs {
		t.states[id] = &GuardState{}
	}
	return t
}

// restoreTracker rebuilds a tracker from snapshot state.
func restoreTracker(guardIDs []string, states map[string]GuardState) *Tracker {
	t := NewTracker(guardIDs)
	for id, st := range states {
		if existing, ok := t.states[id]; ok {
			*existing = st
			if st.LastShiftEnd != nil {
				end := *st.LastShiftEnd
				existing.LastShiftEnd = &end
			}
		}
	}
	return t
}

// State returns a copy of the guard's current state.
func (t *Tracker) State(guardID string) GuardState {
	st, ok := t.states[guardID]
	if !ok {
		return GuardState{}
	}
	out := *st
	if st.LastShiftEnd != nil {
		end := *st.LastShiftEnd
		out.LastShiftEnd = &end
	}
	return out
}

// Record applies a successful assignment: the one and only mutation path.
// A night slot extends the guard's night streak; anything else resets it.
func (t *Tracker) Record(guardID string, slot Slot) {
	st, ok := t.states[guardID]
	if !ok {
		return
	}
	end := slot.End
	st.LastShiftEnd = &end
	st.TotalShifts++
	st.TotalHours += slot.Hours
	if slot.Night {
		st.ConsecutiveNights++
	} else {
		st.ConsecutiveNights = 0
	}
}

// AverageShifts returns the mean total-shift count across all guards.
func (t *Tracker) AverageShifts() float64 {
	if len(t.order) == 0 {
		return 0
	}
	total := 0
	for _, st := range t.states {
		total += st.TotalShifts
	}
	return float64(total) / float64(len(t.order))
}

// Snapshot copies every guard's state keyed by guard id.
func (t *Tracker) Snapshot() map[string]GuardState {
	out := make(map[string]GuardState, len(t.order))
	for _, id := range t.order {
		out[id] = t.State(id)
	}
	return out
}
